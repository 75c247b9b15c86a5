package errors

// Category is the machine-readable class a resolved error falls into.
type Category string

// Application errors
const (
	// CategoryBusiness covers BusinessError values resolved through the catalog.
	CategoryBusiness Category = "BUSINESS"
)

// Request errors
const (
	// CategoryBadRequest covers binding, validation, type-mismatch and missing-parameter errors.
	CategoryBadRequest Category = "BAD_REQUEST"
	// CategoryUnauthorized covers authentication and access-denied errors.
	CategoryUnauthorized Category = "UNAUTHORIZED"
)

// Routing errors
const (
	// CategoryNotFound covers requests that matched no route or resource.
	CategoryNotFound Category = "NOT_FOUND"
	// CategoryMethodNotAllowed covers requests whose path matched but method did not.
	CategoryMethodNotAllowed Category = "METHOD_NOT_ALLOWED"
	// CategoryUnsupportedMediaType covers request bodies in a content type the route does not accept.
	CategoryUnsupportedMediaType Category = "UNSUPPORTED_MEDIA_TYPE"
)

// Internal errors
const (
	// CategoryInternal is the catch-all for everything else.
	CategoryInternal Category = "INTERNAL"
)

// String returns the category name.
func (c Category) String() string { return string(c) }
