package errors

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ErrorInfo is a parsed error: a stable code plus a safe user-facing message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts database and transport errors into a stable code and a
// message that does not leak schema details. context names the resource being
// acted on ("product", "cart item", ...).
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Something went wrong"}
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	// PostgreSQL constraint violations
	if strings.Contains(errStr, "duplicate key") || strings.Contains(errStr, "unique constraint") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "This " + nonEmpty(context, "record") + " already exists",
		}
	}
	if strings.Contains(errStr, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "A related " + nonEmpty(context, "record") + " is missing or still in use",
		}
	}
	if strings.Contains(errStr, "violates not-null constraint") {
		return ErrorInfo{Code: ValidationInvalidInput, Message: "A required field is missing"}
	}
	if strings.Contains(errStr, "check constraint") {
		return ErrorInfo{Code: ValidationInvalidRange, Message: "A field value is out of range"}
	}

	// Network errors towards external services
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "An external service is unreachable. Please try again later",
		}
	}

	return ErrorInfo{Code: InternalServerError, Message: "Something went wrong. Please try again later"}
}

// ParseAndRespond parses err and writes it as a standard error response.
// statusCode is the fallback for errors with no better mapping.
func ParseAndRespond(c *gin.Context, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}

func notFoundMessage(context string) string {
	if context == "" {
		return "Requested resource was not found"
	}
	return "Requested " + context + " was not found"
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
