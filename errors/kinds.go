package errors

import (
	"fmt"
	"strings"
)

// --- Bad request kinds ---

// BindingError reports a request body, query, form or URI that could not be
// decoded or failed struct validation.
type BindingError struct {
	// Source is where the data came from: "json", "query", "uri", "form", "header".
	Source string
	Cause  error
}

func (e *BindingError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("binding %s failed", e.Source)
	}
	return fmt.Sprintf("binding %s failed: %v", e.Source, e.Cause)
}

func (e *BindingError) Unwrap() error { return e.Cause }

// Binding creates a BindingError.
func Binding(source string, cause error) *BindingError {
	return &BindingError{Source: source, Cause: cause}
}

// MissingParamError reports a required request parameter that was absent.
type MissingParamError struct {
	Name   string
	Source string
}

func (e *MissingParamError) Error() string {
	return fmt.Sprintf("missing required %s parameter %q", e.Source, e.Name)
}

// MissingParam creates a MissingParamError.
func MissingParam(source, name string) *MissingParamError {
	return &MissingParamError{Name: name, Source: source}
}

// TypeMismatchError reports a parameter whose value could not be converted
// to the expected type.
type TypeMismatchError struct {
	Name     string
	Value    string
	Expected string
	Cause    error
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("parameter %q: cannot convert %q to %s", e.Name, e.Value, e.Expected)
}

func (e *TypeMismatchError) Unwrap() error { return e.Cause }

// TypeMismatch creates a TypeMismatchError.
func TypeMismatch(name, value, expected string, cause error) *TypeMismatchError {
	return &TypeMismatchError{Name: name, Value: value, Expected: expected, Cause: cause}
}

// --- Unauthorized kinds ---

// AuthenticationError reports missing or invalid credentials.
type AuthenticationError struct {
	Reason string
	Cause  error
}

func (e *AuthenticationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Cause)
	}
	return "authentication failed: " + e.Reason
}

func (e *AuthenticationError) Unwrap() error { return e.Cause }

// Authentication creates an AuthenticationError.
func Authentication(reason string, cause error) *AuthenticationError {
	return &AuthenticationError{Reason: reason, Cause: cause}
}

// AccessDeniedError reports an authenticated caller lacking permission.
type AccessDeniedError struct {
	Subject  string
	Resource string
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied: %q may not access %q", e.Subject, e.Resource)
}

// AccessDenied creates an AccessDeniedError.
func AccessDenied(subject, resource string) *AccessDeniedError {
	return &AccessDeniedError{Subject: subject, Resource: resource}
}

// --- Routing kinds ---

// NoRouteError reports a request that matched no registered handler.
type NoRouteError struct {
	Method string
	Path   string
}

func (e *NoRouteError) Error() string {
	return fmt.Sprintf("no handler for %s %s", e.Method, e.Path)
}

// NoRoute creates a NoRouteError.
func NoRoute(method, path string) *NoRouteError {
	return &NoRouteError{Method: method, Path: path}
}

// NoResourceError reports a static resource that does not exist.
type NoResourceError struct {
	Path string
}

func (e *NoResourceError) Error() string {
	return fmt.Sprintf("no static resource %s", e.Path)
}

// NoResource creates a NoResourceError.
func NoResource(path string) *NoResourceError {
	return &NoResourceError{Path: path}
}

// MethodNotAllowedError reports a path that exists for other methods only.
type MethodNotAllowedError struct {
	Method  string
	Path    string
	Allowed []string
}

func (e *MethodNotAllowedError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("method %s not supported for %s", e.Method, e.Path)
	}
	return fmt.Sprintf("method %s not supported for %s (allowed: %s)", e.Method, e.Path, strings.Join(e.Allowed, ", "))
}

// MethodNotAllowed creates a MethodNotAllowedError.
func MethodNotAllowed(method, path string, allowed ...string) *MethodNotAllowedError {
	return &MethodNotAllowedError{Method: method, Path: path, Allowed: allowed}
}

// UnsupportedMediaTypeError reports a request body in a content type the
// route does not accept.
type UnsupportedMediaTypeError struct {
	ContentType string
	Supported   []string
}

func (e *UnsupportedMediaTypeError) Error() string {
	ct := e.ContentType
	if ct == "" {
		ct = "<none>"
	}
	return fmt.Sprintf("content type %s not supported (supported: %s)", ct, strings.Join(e.Supported, ", "))
}

// UnsupportedMediaType creates an UnsupportedMediaTypeError.
func UnsupportedMediaType(contentType string, supported ...string) *UnsupportedMediaTypeError {
	return &UnsupportedMediaTypeError{ContentType: contentType, Supported: supported}
}

// --- Internal kinds ---

// PanicError carries a value recovered from a panicking handler.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the recovered value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Panic creates a PanicError.
func Panic(value any, stack []byte) *PanicError {
	return &PanicError{Value: value, Stack: stack}
}
