// Package bootstrap runs errkit services through a uniform lifecycle:
// validated typed config, logger initialization, ordered component start,
// configure callbacks, signal wait and reverse-order graceful shutdown.
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    logger.Fatal(err.Error())
//	}
//	app.RegisterComponent(server.NewComponent(srv))
//	if err := app.Run(ctx); err != nil {
//	    logger.Fatal(err.Error())
//	}
package bootstrap
