// Package errors defines the error values errkit resolves into HTTP error
// responses.
//
// BusinessError carries a catalog key chosen by application code. The
// framework kinds (BindingError, AuthenticationError, NoRouteError, ...)
// describe failures raised by the transport layer before or around a
// handler. ErrorInfo is the {status, message} pair rendered to clients.
//
// # Usage
//
//	return errors.Business("USER_NOT_FOUND")
//
//	return errors.Business("PAYMENT_DECLINED").WithCause(err)
package errors
