// Package catalog loads the business error catalog: a YAML table mapping
// business error keys to the HTTP status and message sent to clients.
//
// The catalog is read once at startup and is immutable afterwards, so it can
// be shared by every request without locking. A missing or malformed catalog
// is a load error; services treat it as fatal.
//
// # Format
//
//	USER_NOT_FOUND:
//	  status: 404
//	  message: "no such user"
//	ORDER_LOCKED:
//	  status: 409
//	  message: "order is being processed"
//
// # Usage
//
//	//go:embed error/exception.yml
//	var resources embed.FS
//
//	cat, err := catalog.Build(resources)
package catalog
