package errs

import (
	"errors"   // Error wrapping and inspection
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// Kind classifies a request-scoped failure
type Kind string

// Failure kinds surfaced to API callers
const (
	KindValidateFail     Kind = "VALIDATE_FAIL"      // Missing required field or value outside its enumerated set
	KindRequestDataEmpty Kind = "REQUEST_DATA_EMPTY" // No JSON body supplied
	KindNotFound         Kind = "NOT_FOUND"          // No row for the given id or email
	KindConflict         Kind = "CONFLICT"           // Storage uniqueness constraint violated
	KindBadCredentials   Kind = "BAD_CREDENTIALS"    // Password check failed
	KindUnauthorized     Kind = "UNAUTHORIZED"       // Token missing, malformed or expired
	KindSQLError         Kind = "SQL_ERROR"          // Unclassified storage failure
)

// Error is a request-scoped failure with a kind and optional offending field
type Error struct {
	Kind    Kind   `json:"code"`            // Failure kind code
	Field   string `json:"field,omitempty"` // Offending field, if any
	Message string `json:"message"`         // Human readable description
}

// Error implements the error interface
func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// ValidateFail builds a validation failure for a specific field
func ValidateFail(field, message string) *Error {
	return &Error{Kind: KindValidateFail, Field: field, Message: message}
}

// RequestDataEmpty builds the missing-JSON-body failure
func RequestDataEmpty() *Error {
	return &Error{Kind: KindRequestDataEmpty, Message: "Request data is empty"}
}

// NotFound builds a no-such-row failure
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict builds a uniqueness violation failure
func Conflict(field, message string) *Error {
	return &Error{Kind: KindConflict, Field: field, Message: message}
}

// BadCredentials builds a failed password check failure
func BadCredentials(message string) *Error {
	return &Error{Kind: KindBadCredentials, Message: message}
}

// Unauthorized builds a token validation failure
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// SQL wraps an unclassified storage failure
func SQL(err error) *Error {
	return &Error{Kind: KindSQLError, Message: err.Error()}
}

// From coerces any error into an *Error, wrapping unknown ones as SQL errors
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return SQL(err)
}

// Status maps a failure kind to its HTTP status code
func (e *Error) Status() int {
	switch e.Kind {
	case KindBadCredentials, KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

// Respond writes the failure as the standard {"errors": [...]} body
func Respond(c *gin.Context, err error) {
	e := From(err)
	c.JSON(e.Status(), gin.H{"errors": []*Error{e}})
}

// RespondWith writes the failure with an explicit status override
func RespondWith(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"errors": []*Error{From(err)}})
}

// AbortUnauthorized aborts the request with a 401 {"errors": [...]} body
func AbortUnauthorized(c *gin.Context, message string) {
	e := Unauthorized(message)
	c.AbortWithStatusJSON(e.Status(), gin.H{"errors": []*Error{e}})
}
