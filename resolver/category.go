package resolver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/errkit/errors"
	"github.com/kbukum/errkit/validation"
)

// Fixed client messages.
const (
	MessageUnknownError         = "unknown error"
	MessageBadRequest           = "invalid request, check parameters"
	MessageUnauthorized         = "no access permission, contact admin"
	MessageNotFound             = "resource not found, check URL"
	MessageMethodNotAllowed     = "method not allowed"
	MessageUnsupportedMediaType = "unsupported media type"
	MessageInternal             = "internal server error, contact admin"
)

// variant is one classification rule. match tests a single link of an
// error chain. info is unused for the business variant, whose response comes
// from the catalog.
type variant struct {
	category errors.Category
	info     errors.ErrorInfo
	match    func(link error) bool
}

// variants is ordered; the internal variant is last and matches anything.
var variants = []variant{
	{errors.CategoryBusiness, errors.ErrorInfo{}, isKind[*errors.BusinessError]},
	{errors.CategoryBadRequest, errors.NewErrorInfo(http.StatusBadRequest, MessageBadRequest), isBadRequest},
	{errors.CategoryUnauthorized, errors.NewErrorInfo(http.StatusUnauthorized, MessageUnauthorized), isUnauthorized},
	{errors.CategoryNotFound, errors.NewErrorInfo(http.StatusNotFound, MessageNotFound), isNotFound},
	{errors.CategoryMethodNotAllowed, errors.NewErrorInfo(http.StatusMethodNotAllowed, MessageMethodNotAllowed), isKind[*errors.MethodNotAllowedError]},
	{errors.CategoryUnsupportedMediaType, errors.NewErrorInfo(http.StatusUnsupportedMediaType, MessageUnsupportedMediaType), isKind[*errors.UnsupportedMediaTypeError]},
	{errors.CategoryInternal, errors.NewErrorInfo(http.StatusInternalServerError, MessageInternal), func(error) bool { return true }},
}

// maxChainLinks bounds the chain walk for errors that unwrap to themselves.
const maxChainLinks = 64

// Classify returns the category err resolves to.
func Classify(err error) errors.Category {
	v, _ := classify(err)
	return v.category
}

// FixedInfo returns the static response of a non-business category.
func FixedInfo(category errors.Category) (errors.ErrorInfo, bool) {
	for _, v := range variants {
		if v.category == category && v.category != errors.CategoryBusiness {
			return v.info, true
		}
	}
	return errors.ErrorInfo{}, false
}

// classify walks err's chain from the outside in and returns the variant of
// the first link any non-internal variant matches, with that link. An
// AuthenticationError wrapping a decode failure is therefore Unauthorized.
func classify(err error) (variant, error) {
	fallback := variants[len(variants)-1]
	queue := []error{err}
	for n := 0; len(queue) > 0 && n < maxChainLinks; n++ {
		link := queue[0]
		queue = queue[1:]
		if link == nil {
			continue
		}
		for _, v := range variants[:len(variants)-1] {
			if v.match(link) {
				return v, link
			}
		}
		queue = append(unwrapLink(link), queue...)
	}
	return fallback, err
}

// unwrapLink returns the direct causes of link. An Unwrap that panics, as on
// some typed-nil receivers, ends the chain.
func unwrapLink(link error) (causes []error) {
	defer func() {
		if recover() != nil {
			causes = nil
		}
	}()
	switch u := link.(type) {
	case interface{ Unwrap() error }:
		if c := u.Unwrap(); c != nil {
			return []error{c}
		}
	case interface{ Unwrap() []error }:
		return u.Unwrap()
	}
	return nil
}

func isKind[T error](link error) bool {
	_, ok := link.(T)
	return ok
}

// isBadRequest matches the request decoding kinds. Raw decoder errors such as
// *json.SyntaxError or *strconv.NumError are not matched: the binding helpers
// wrap request failures, and a bare one comes from server-side data.
func isBadRequest(link error) bool {
	if isKind[*errors.BindingError](link) ||
		isKind[*errors.MissingParamError](link) ||
		isKind[*errors.TypeMismatchError](link) ||
		isKind[validator.ValidationErrors](link) ||
		isKind[validation.FieldErrors](link) ||
		isKind[*http.MaxBytesError](link) {
		return true
	}
	ge, ok := link.(*gin.Error)
	return ok && ge != nil && ge.Type == gin.ErrorTypeBind
}

// tokenErrors are the jwt failures caused by the presented token rather than
// by server configuration.
var tokenErrors = []error{
	jwt.ErrTokenMalformed,
	jwt.ErrTokenUnverifiable,
	jwt.ErrTokenSignatureInvalid,
	jwt.ErrTokenRequiredClaimMissing,
	jwt.ErrTokenInvalidAudience,
	jwt.ErrTokenExpired,
	jwt.ErrTokenUsedBeforeIssued,
	jwt.ErrTokenInvalidIssuer,
	jwt.ErrTokenInvalidSubject,
	jwt.ErrTokenNotValidYet,
	jwt.ErrTokenInvalidId,
	jwt.ErrTokenInvalidClaims,
}

func isUnauthorized(link error) bool {
	if isKind[*errors.AuthenticationError](link) || isKind[*errors.AccessDeniedError](link) {
		return true
	}
	for _, target := range tokenErrors {
		if link == target {
			return true
		}
		if is, ok := link.(interface{ Is(error) bool }); ok && is.Is(target) {
			return true
		}
	}
	return false
}

func isNotFound(link error) bool {
	return isKind[*errors.NoRouteError](link) || isKind[*errors.NoResourceError](link)
}
