// Package errors renders the failure variant of the API envelope:
// {"success": false, "code": ..., "message": ..., "details": ...}.
package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Machine readable error codes
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeAlreadyExists      = "ALREADY_EXISTS"
	ErrCodeUnprocessable      = "UNPROCESSABLE"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

type codeInfo struct {
	status         int
	defaultMessage string
}

var codes = map[string]codeInfo{
	ErrCodeUnauthorized:       {http.StatusUnauthorized, "Authentication required"},
	ErrCodeInvalidCredentials: {http.StatusUnauthorized, "Invalid credentials"},
	ErrCodeForbidden:          {http.StatusForbidden, "Access denied"},
	ErrCodeInvalidInput:       {http.StatusBadRequest, "Invalid request"},
	ErrCodeNotFound:           {http.StatusNotFound, "Resource not found"},
	ErrCodeAlreadyExists:      {http.StatusConflict, "Resource already exists"},
	ErrCodeUnprocessable:      {http.StatusUnprocessableEntity, "Request could not be processed"},
	ErrCodeInternalError:      {http.StatusInternalServerError, "Internal server error"},
	ErrCodeServiceUnavailable: {http.StatusServiceUnavailable, "Service temporarily unavailable"},
}

// APIError is the failure variant of the response envelope
type APIError struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status for the error's code
func (e *APIError) StatusCode() int {
	if info, ok := codes[e.Code]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// New builds an APIError. An empty message falls back to the code's default.
func New(code, message string, details any) *APIError {
	if message == "" {
		message = codes[code].defaultMessage
	}
	return &APIError{Code: code, Message: message, Details: details}
}

// Respond writes err with the status mapped from its code
func Respond(c *gin.Context, err *APIError) {
	err.Success = false
	c.JSON(err.StatusCode(), err)
}

// Abort writes err and stops the handler chain
func Abort(c *gin.Context, err *APIError) {
	Respond(c, err)
	c.Abort()
}

func Unauthorized(c *gin.Context, message string) {
	Respond(c, New(ErrCodeUnauthorized, message, nil))
}

// InvalidCredentials is the 401 of a failed login
func InvalidCredentials(c *gin.Context, message string) {
	Respond(c, New(ErrCodeInvalidCredentials, message, nil))
}

func Forbidden(c *gin.Context, message string) {
	Respond(c, New(ErrCodeForbidden, message, nil))
}

func NotFound(c *gin.Context, message string) {
	Respond(c, New(ErrCodeNotFound, message, nil))
}

func BadRequest(c *gin.Context, message string) {
	Respond(c, New(ErrCodeInvalidInput, message, nil))
}

// ValidationFailed sends a 400 with per-field messages keyed by JSON name
func ValidationFailed(c *gin.Context, details map[string]string) {
	Respond(c, New(ErrCodeInvalidInput, "Validation failed", details))
}

func Conflict(c *gin.Context, message string) {
	Respond(c, New(ErrCodeAlreadyExists, message, nil))
}

func Unprocessable(c *gin.Context, message string) {
	Respond(c, New(ErrCodeUnprocessable, message, nil))
}

func InternalError(c *gin.Context, message string) {
	Respond(c, New(ErrCodeInternalError, message, nil))
}

func ServiceUnavailable(c *gin.Context, message string) {
	Respond(c, New(ErrCodeServiceUnavailable, message, nil))
}
