package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/property_management_app/internal/apperrors"
	"github.com/SscSPs/property_management_app/internal/middleware"
)

// BaseService provides common functionality for all services.
type BaseService struct {
	Clock func() time.Time
}

// ServiceOption configures the BaseService embedded in every service.
type ServiceOption func(*BaseService)

// WithClock overrides the wall clock used for timestamps.
func WithClock(clock func() time.Time) ServiceOption {
	return func(b *BaseService) {
		b.Clock = clock
	}
}

func newBaseService(opts ...ServiceOption) BaseService {
	b := BaseService{Clock: time.Now}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Now returns the current time in UTC.
func (s *BaseService) Now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock().UTC()
}

// GetLogger gets the logger from context or returns a default one.
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting.
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting.
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogWarn logs a rejected business operation or an operator override.
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// ensureProperty hides rows that belong to another property behind ErrNotFound.
func ensureProperty(entity, id, owner, propertyID string) error {
	if owner != propertyID {
		return fmt.Errorf("%s %s: %w", entity, id, apperrors.ErrNotFound)
	}
	return nil
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, fmt.Sprintf(format, args...))
}
