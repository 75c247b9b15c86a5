// Package resolver turns errors escaping HTTP handlers into uniform JSON
// error responses.
//
// Every error is classified into one of seven ordered categories, first
// match wins:
//
//	BUSINESS                catalog lookup by BusinessError key, {500, "unknown error"} on a miss
//	BAD_REQUEST             400 "invalid request, check parameters"
//	UNAUTHORIZED            401 "no access permission, contact admin"
//	NOT_FOUND               404 "resource not found, check URL"
//	METHOD_NOT_ALLOWED      405 "method not allowed"
//	UNSUPPORTED_MEDIA_TYPE  415 "unsupported media type"
//	INTERNAL                500 "internal server error, contact admin"
//
// The response body is always {"status": <int>, "message": "<string>"}.
//
// With gin, install Gin() first so it sees every error pushed with c.Error
// and every panic:
//
//	res := resolver.New(cat, resolver.WithLogger(log))
//	engine.Use(res.Gin())
//	engine.NoRoute(res.NoRoute())
//	engine.NoMethod(res.NoMethod())
//
// Plain net/http handlers use Wrap and Recover.
package resolver
