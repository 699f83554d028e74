package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chartlab/internal/errors"
)

// statusForCode maps application error codes onto HTTP statuses
func statusForCode(code string) int {
	switch code {
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeInvalidInput, errors.CodeUnknownPlotKind, errors.CodeValidationError:
		return http.StatusBadRequest
	case errors.CodeUnsupportedFile:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

// respondError converts an error into a JSON error payload with the matching
// HTTP status
func (s *Server) respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := statusForCode(code)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	} else {
		s.logger.Debug("request rejected: %v", err)
	}
	c.JSON(status, gin.H{
		"error": err.Error(),
		"code":  code,
	})
}
