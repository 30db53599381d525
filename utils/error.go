package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	GetLogger().Warn(message, zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// WriteError maps an engine error onto an HTTP status and writes it.
func WriteError(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		GetLogger().Error("unclassified error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal Server Error"})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Kind {
	case KindValidation:
		status = http.StatusBadRequest
	case KindNotFound:
		status = http.StatusNotFound
	case KindUnauthorized:
		status = http.StatusUnauthorized
		if appErr.Code == ErrForbidden.Code {
			status = http.StatusForbidden
		}
	case KindConflict:
		status = http.StatusConflict
	case KindResource:
		status = http.StatusUnprocessableEntity
	case KindInfrastructure:
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		GetLogger().Error(appErr.Message, zap.String("code", appErr.Code), zap.Error(appErr.Err))
	} else {
		GetLogger().Warn(appErr.Message, zap.String("code", appErr.Code))
	}
	c.JSON(status, ErrorResponse{Message: appErr.Message, Code: appErr.Code, Kind: string(appErr.Kind)})
}
