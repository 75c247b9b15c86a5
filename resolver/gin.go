package resolver

import (
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/errkit/errors"
)

// Gin returns middleware that renders the last error pushed with c.Error,
// and any panic raised further down the chain. Install it before every other
// gin middleware.
func (r *Resolver) Gin() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				c.Abort()
				r.Write(c.Writer, c.Request, errors.Panic(rec, debug.Stack()))
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		r.Write(c.Writer, c.Request, c.Errors.Last())
	}
}

// NoRoute is the engine.NoRoute handler.
func (r *Resolver) NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(errors.NoRoute(c.Request.Method, c.Request.URL.Path))
	}
}

// NoMethod is the engine.NoMethod handler. It needs
// engine.HandleMethodNotAllowed set.
func (r *Resolver) NoMethod() gin.HandlerFunc {
	return func(c *gin.Context) {
		var allowed []string
		if a := c.Writer.Header().Get("Allow"); a != "" {
			allowed = strings.Split(a, ", ")
		}
		_ = c.Error(errors.MethodNotAllowed(c.Request.Method, c.Request.URL.Path, allowed...))
	}
}

// Install wires the resolver into engine: middleware first, the NoRoute and
// NoMethod handlers, and 405 handling.
func (r *Resolver) Install(engine *gin.Engine) {
	engine.HandleMethodNotAllowed = true
	engine.Use(r.Gin())
	engine.NoRoute(r.NoRoute())
	engine.NoMethod(r.NoMethod())
}
