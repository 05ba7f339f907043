package response

import (
	"errors"
	"net/http"

	"concerthall/internal/domain"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// Unauthorized writes a 401 with the bearer challenge header.
func Unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	Error(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// FromError maps a domain error kind onto the HTTP status and error code.
// Unclassified errors become a generic 500 and are attached to the context
// for the request logger.
func FromError(c *gin.Context, err error) {
	msg := err.Error()

	switch domain.KindOf(err) {
	case domain.ErrUnauthenticated:
		c.Header("WWW-Authenticate", "Bearer")
		Error(c, http.StatusUnauthorized, codeOf(err, "UNAUTHORIZED"), msg)
	case domain.ErrForbidden:
		Error(c, http.StatusForbidden, codeOf(err, "FORBIDDEN"), msg)
	case domain.ErrNotFound:
		Error(c, http.StatusNotFound, codeOf(err, "NOT_FOUND"), msg)
	case domain.ErrInvalidArgument:
		Error(c, http.StatusBadRequest, codeOf(err, "VALIDATION_ERROR"), msg)
	case domain.ErrInvalidOperation:
		Error(c, http.StatusBadRequest, codeOf(err, "INVALID_OPERATION"), msg)
	default:
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

// Coded lets an error override the default code for its kind.
type Coded interface {
	Code() string
}

func codeOf(err error, fallback string) string {
	var coded Coded
	if errors.As(err, &coded) && coded.Code() != "" {
		return coded.Code()
	}
	return fallback
}
