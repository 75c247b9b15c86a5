package resolver

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/errkit/catalog"
	"github.com/kbukum/errkit/errors"
	"github.com/kbukum/errkit/logger"
	"github.com/kbukum/errkit/observability"
)

// ContentType is the Content-Type of every error response.
const ContentType = "application/json; charset=utf-8"

// DefaultRequestIDHeader is the request header read for the request_id log field.
const DefaultRequestIDHeader = "X-Request-Id"

// Resolver classifies errors and renders them as JSON responses. It holds
// no per-request state and is safe for concurrent use.
type Resolver struct {
	catalog         *catalog.Catalog
	log             *logger.Logger
	metrics         *observability.Metrics
	requestIDHeader string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger resolved errors are reported to.
func WithLogger(l *logger.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l.WithComponent("resolver")
		}
	}
}

// WithMetrics counts resolved errors by category and status.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// WithRequestIDHeader changes the header the request id is read from.
func WithRequestIDHeader(name string) Option {
	return func(r *Resolver) { r.requestIDHeader = name }
}

// New creates a Resolver over cat. A nil catalog resolves every business
// error to the unknown-error fallback.
func New(cat *catalog.Catalog, opts ...Option) *Resolver {
	r := &Resolver{
		catalog:         cat,
		log:             logger.Nop(),
		requestIDHeader: DefaultRequestIDHeader,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the response err maps to. It has no side effects.
func (r *Resolver) Resolve(err error) errors.ErrorInfo {
	_, info := r.resolve(err)
	return info
}

func (r *Resolver) resolve(err error) (errors.Category, errors.ErrorInfo) {
	v, link := classify(err)
	if v.category != errors.CategoryBusiness {
		return v.category, v.info
	}

	if be, _ := link.(*errors.BusinessError); be != nil {
		if info, ok := r.catalog.Lookup(be.Key); ok {
			return v.category, info
		}
	}
	return v.category, errors.NewErrorInfo(http.StatusInternalServerError, MessageUnknownError)
}

// writtenReporter is implemented by gin.ResponseWriter and by the writer Wrap
// and Recover install.
type writtenReporter interface {
	Written() bool
}

// Write resolves err, writes the JSON response to w, and reports it. When w
// reports that a response was already started, only the report happens.
// Write never panics; a failed body write is logged and dropped, and a panic
// before the body is written still produces the internal error response.
func (r *Resolver) Write(w http.ResponseWriter, req *http.Request, err error) (info errors.ErrorInfo) {
	written := false
	defer func() {
		if rec := recover(); rec != nil {
			if info.Status == 0 {
				info = errors.NewErrorInfo(http.StatusInternalServerError, MessageInternal)
			}
			r.log.Error("error response aborted", logger.Fields(
				logger.FieldError, fmt.Sprint(rec),
				logger.FieldStatus, info.Status,
			))
			if !written {
				r.writeBody(w, info)
			}
		}
	}()

	category, resolved := r.resolve(err)
	info = resolved

	if wr, ok := w.(writtenReporter); ok && wr.Written() {
		written = true
		r.log.Warn("response already written, error body dropped", r.report(req, err, category, info))
		return info
	}

	written = true
	werr := r.writeBody(w, info)
	fields := r.report(req, err, category, info)
	if werr != nil {
		fields[logger.FieldError] = werr.Error()
		r.log.Warn("failed to write error response", fields)
	}
	return info
}

// writeBody writes info as the JSON response. A panicking writer is treated
// as a failed write.
func (r *Resolver) writeBody(w http.ResponseWriter, info errors.ErrorInfo) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("write error response: %v", rec)
		}
	}()
	h := w.Header()
	h.Set("Content-Type", ContentType)
	h.Del("Content-Length")
	w.WriteHeader(info.Status)
	return render.WriteJSON(w, info)
}

// report logs the resolution, counts it, and marks the request span failed.
// It returns the log fields for reuse.
func (r *Resolver) report(req *http.Request, err error, category errors.Category, info errors.ErrorInfo) map[string]interface{} {
	fields := logger.Fields(
		logger.FieldErrorType, errorTypeName(err),
		logger.FieldCategory, category.String(),
		logger.FieldStatus, info.Status,
		logger.FieldMessage, info.Message,
		logger.FieldError, errorString(err),
	)
	if be, _ := errors.AsBusiness(err); be != nil {
		fields[logger.FieldErrorKey] = be.Key
	}
	if pe, ok := asPanic(err); ok && len(pe.Stack) > 0 {
		fields["stack"] = string(pe.Stack)
	}

	if req == nil {
		r.log.Error("request failed", fields)
		r.metrics.RecordResolved(context.Background(), category.String(), info.Status)
		return fields
	}

	fields[logger.FieldMethod] = req.Method
	fields[logger.FieldPath] = req.URL.Path
	if id := req.Header.Get(r.requestIDHeader); id != "" {
		fields[logger.FieldRequestID] = id
	}
	r.log.Error("request failed", fields)

	ctx := req.Context()
	r.metrics.RecordResolved(ctx, category.String(), info.Status)
	observability.SetSpanError(ctx, spanError(err),
		attribute.String(observability.AttrErrorCategory, category.String()),
		attribute.String(observability.AttrErrorType, errorTypeName(err)),
		attribute.Int(observability.AttrHTTPStatus, info.Status),
	)
	return fields
}

// errorTypeName names the dynamic type of err, e.g. "errors.BusinessError".
// A *gin.Error is named after the error it carries.
func errorTypeName(err error) string {
	if ge, ok := err.(*gin.Error); ok && ge.Err != nil {
		err = ge.Err
	}
	t := reflect.TypeOf(err)
	if t == nil {
		return "<nil>"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}

// errorString guards against Error methods that panic on nil receivers.
func errorString(err error) string {
	s, _ := safeErrorString(err)
	return s
}

func safeErrorString(err error) (s string, ok bool) {
	if err == nil {
		return "<nil>", true
	}
	defer func() {
		if rec := recover(); rec != nil {
			s, ok = fmt.Sprintf("<%T: Error panicked: %v>", err, rec), false
		}
	}()
	return err.Error(), true
}

// spanError replaces err with a plain error when its Error method panics, so
// the span recorder never calls it.
func spanError(err error) error {
	if _, ok := safeErrorString(err); ok {
		return err
	}
	return stderrors.New(errorString(err))
}

func asPanic(err error) (*errors.PanicError, bool) {
	pe, ok := err.(*errors.PanicError)
	if !ok {
		if ge, isGin := err.(*gin.Error); isGin {
			pe, ok = ge.Err.(*errors.PanicError)
		}
	}
	return pe, ok
}
