// Package config loads service configuration with Viper.
//
// LoadConfig looks for config.yml and .env files in the standard locations
// for a service, loads the .env file into the process environment, reads the
// YAML file, and lets environment variables override any key declared in the
// target struct's mapstructure tags (for example ERRKIT_SERVER_PORT for
// server.port when the prefix is "errkit").
//
// # Usage
//
//	var cfg AppConfig
//	if err := config.LoadConfig("errkit-demo", &cfg, config.WithEnvPrefix("ERRKIT")); err != nil {
//	    return err
//	}
package config
