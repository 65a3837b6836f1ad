package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tinhnguyen/internal/pkg/apperr"
)

// Business error codes carried in the error envelope. The first two digits
// follow the HTTP status class, the rest disambiguate.
const (
	CodeBadRequest   = 40001
	CodeUnauthorized = 40101
	CodeForbidden    = 40301
	CodeNotFound     = 40401
	CodeConflict     = 40901
	CodeInternal     = 50001
	CodeUnavailable  = 50301
)

// OK writes a 200 success envelope.
func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, NewSuccessResponse(message, data))
}

// Created writes a 201 success envelope.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, NewSuccessResponse(message, data))
}

// BadRequest writes a 400 for a malformed request body or parameter.
func BadRequest(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, NewErrorResponse(CodeBadRequest, "invalid request", detail))
}

// Error maps a classified service error onto the HTTP surface. Unclassified
// errors become an opaque 500; the cause stays in the server log.
func Error(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		c.JSON(http.StatusBadRequest, NewErrorResponse(CodeBadRequest, err.Error()))
	case apperr.KindAuthorization:
		c.JSON(http.StatusForbidden, NewErrorResponse(CodeForbidden, err.Error()))
	case apperr.KindNotFound:
		c.JSON(http.StatusNotFound, NewErrorResponse(CodeNotFound, err.Error()))
	case apperr.KindConflict:
		c.JSON(http.StatusConflict, NewErrorResponse(CodeConflict, err.Error()))
	case apperr.KindTransientIO:
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(CodeUnavailable, "storage temporarily unavailable"))
	default:
		c.JSON(http.StatusInternalServerError, NewErrorResponse(CodeInternal, "internal error"))
	}
}
