package validation

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/errkit/errors"
)

// BindJSON decodes and validates the JSON request body into dst.
func BindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return errors.Binding("json", err)
	}
	return nil
}

// BindQuery decodes and validates query parameters into dst.
func BindQuery(c *gin.Context, dst any) error {
	if err := c.ShouldBindQuery(dst); err != nil {
		return errors.Binding("query", err)
	}
	return nil
}

// BindURI decodes and validates path parameters into dst.
func BindURI(c *gin.Context, dst any) error {
	if err := c.ShouldBindUri(dst); err != nil {
		return errors.Binding("uri", err)
	}
	return nil
}

// Query returns a required query parameter.
func Query(c *gin.Context, name string) (string, error) {
	v, ok := c.GetQuery(name)
	if !ok || v == "" {
		return "", errors.MissingParam("query", name)
	}
	return v, nil
}

// QueryInt returns a required integer query parameter.
func QueryInt(c *gin.Context, name string) (int, error) {
	raw, err := Query(c, name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.TypeMismatch(name, raw, "int", err)
	}
	return n, nil
}
