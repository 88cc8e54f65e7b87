package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/property_management_app/internal/apperrors"
	"github.com/SscSPs/property_management_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// conflictErrors are business rule rejections reported as 409.
var conflictErrors = []error{
	apperrors.ErrInvalidStateTransition,
	apperrors.ErrRoomUnavailable,
	apperrors.ErrFolioClosed,
	apperrors.ErrOutstandingBalance,
	apperrors.ErrAlreadyCompleted,
	apperrors.ErrBusinessDateClosed,
	apperrors.ErrAlreadyVoided,
	apperrors.ErrDuplicate,
}

// statusForError maps service errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	}
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return http.StatusConflict
		}
	}
	return http.StatusInternalServerError
}

// respondError writes the error body. Internal failures are logged and hidden
// behind fallback; everything else is the caller's to fix and is echoed.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, dto.ErrorResponse{Error: fallback})
		return
	}
	logger.Warn("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	c.JSON(status, dto.ErrorResponse{Error: err.Error()})
}

// respondBindError reports a malformed body or query.
func respondBindError(c *gin.Context, logger *slog.Logger, err error, what string) {
	logger.Warn("Failed to bind "+what, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error()})
}
