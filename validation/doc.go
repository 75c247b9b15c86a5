// Package validation turns malformed request input into errkit's bad-request
// error kinds.
//
// Struct tag validation uses go-playground/validator. The gin helpers
// (BindJSON, BindQuery, BindURI, Query, QueryInt) wrap decoding failures in
// errors.BindingError, errors.MissingParamError or errors.TypeMismatchError so
// the resolver renders them as 400 responses.
//
// # Struct Tag Validation
//
//	type CreateUserCmd struct {
//	    Name  string `json:"name" validate:"required,min=2"`
//	    Email string `json:"email" validate:"required,email"`
//	}
//	if err := validation.Validate(cmd); err != nil {
//	    return err
//	}
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("name", name).MaxLength("name", name, 64)
//	if err := v.Validate(); err != nil {
//	    return err
//	}
package validation
