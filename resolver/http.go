package resolver

import (
	"net/http"
	"runtime/debug"

	"github.com/kbukum/errkit/errors"
)

// HandlerFunc is a net/http handler that reports failure by returning an error.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Wrap adapts fn to http.Handler. A returned error or a panic is rendered
// through the resolver.
func (r *Resolver) Wrap(fn HandlerFunc) http.Handler {
	return r.Recover(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if err := fn(w, req); err != nil {
			r.Write(w, req, err)
		}
	}))
}

// Recover renders panics raised by next as internal errors.
func (r *Resolver) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		tw := newTrackingWriter(w)
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				r.Write(tw, req, errors.Panic(rec, debug.Stack()))
			}
		}()
		next.ServeHTTP(tw, req)
	})
}

// NotFound returns a handler rendering a NOT_FOUND response, for use as a
// ServeMux fallback.
func (r *Resolver) NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.Write(w, req, errors.NoRoute(req.Method, req.URL.Path))
	})
}

// trackingWriter records whether a response was started.
type trackingWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func newTrackingWriter(w http.ResponseWriter) *trackingWriter {
	if tw, ok := w.(*trackingWriter); ok {
		return tw
	}
	return &trackingWriter{ResponseWriter: w}
}

func (tw *trackingWriter) WriteHeader(code int) {
	tw.wroteHeader = true
	tw.ResponseWriter.WriteHeader(code)
}

func (tw *trackingWriter) Write(b []byte) (int, error) {
	tw.wroteHeader = true
	return tw.ResponseWriter.Write(b)
}

// Written implements writtenReporter.
func (tw *trackingWriter) Written() bool { return tw.wroteHeader }

// Flush implements http.Flusher.
func (tw *trackingWriter) Flush() {
	if f, ok := tw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (tw *trackingWriter) Unwrap() http.ResponseWriter {
	return tw.ResponseWriter
}
