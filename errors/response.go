package errors

import "fmt"

// ErrorInfo is the JSON body returned to clients for every resolved error.
// It is also the value type of error catalog entries.
type ErrorInfo struct {
	Status  int    `json:"status" yaml:"status" validate:"min=400,max=599"`
	Message string `json:"message" yaml:"message" validate:"required"`
}

// NewErrorInfo creates an ErrorInfo.
func NewErrorInfo(status int, message string) ErrorInfo {
	return ErrorInfo{Status: status, Message: message}
}

// String implements fmt.Stringer for log output.
func (i ErrorInfo) String() string {
	return fmt.Sprintf("%d %s", i.Status, i.Message)
}
