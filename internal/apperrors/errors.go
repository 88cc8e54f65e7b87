package apperrors

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller may not act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrInternal is returned when a failure should not leak details to the caller.
var ErrInternal = errors.New("internal error")

// Business rule errors.
var (
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrRoomUnavailable        = errors.New("room unavailable")
	ErrFolioClosed            = errors.New("folio is closed")
	ErrOutstandingBalance     = errors.New("folio has an outstanding balance")
	ErrAlreadyCompleted       = errors.New("night audit already completed")
	ErrCreditLimitExceeded    = errors.New("corporate credit limit exceeded")
	ErrBusinessDateClosed     = errors.New("business date already closed by night audit")
	ErrAlreadyVoided          = errors.New("line already voided")
)

// AppError wraps an infrastructure failure with an HTTP-ish code and a message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

// TransitionError reports an operation attempted from a state that does not permit it.
type TransitionError struct {
	Entity    string
	ID        string
	From      string
	Attempted string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s %s: cannot %s from status %q", e.Entity, e.ID, e.Attempted, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidStateTransition }

// RoomUnavailableError reports a room that was not vacant at check-in.
type RoomUnavailableError struct {
	RoomID string
	Status string
}

func (e *RoomUnavailableError) Error() string {
	return fmt.Sprintf("room %s is %s, not vacant", e.RoomID, e.Status)
}

func (e *RoomUnavailableError) Unwrap() error { return ErrRoomUnavailable }

// FolioClosedError reports a mutation attempted on a closed folio.
type FolioClosedError struct {
	FolioID string
}

func (e *FolioClosedError) Error() string {
	return fmt.Sprintf("folio %s is closed", e.FolioID)
}

func (e *FolioClosedError) Unwrap() error { return ErrFolioClosed }

// OutstandingBalanceError reports a checkout or close blocked by a nonzero balance.
type OutstandingBalanceError struct {
	FolioID string
	Balance decimal.Decimal
}

func (e *OutstandingBalanceError) Error() string {
	return fmt.Sprintf("folio %s has outstanding balance %s", e.FolioID, e.Balance.StringFixed(2))
}

func (e *OutstandingBalanceError) Unwrap() error { return ErrOutstandingBalance }

// AlreadyCompletedError reports an audit operation on a closed business date.
type AlreadyCompletedError struct {
	PropertyID   string
	BusinessDate time.Time
}

func (e *AlreadyCompletedError) Error() string {
	return fmt.Sprintf("night audit for property %s on %s is already completed", e.PropertyID, e.BusinessDate.Format("2006-01-02"))
}

func (e *AlreadyCompletedError) Unwrap() error { return ErrAlreadyCompleted }

// CreditLimitWarning is returned alongside a successful corporate payment whose
// account balance ended above its credit limit. It is never a failure.
type CreditLimitWarning struct {
	AccountID string
	Limit     decimal.Decimal
	Balance   decimal.Decimal
}

func (e *CreditLimitWarning) Error() string {
	return fmt.Sprintf("corporate account %s balance %s exceeds credit limit %s", e.AccountID, e.Balance.StringFixed(2), e.Limit.StringFixed(2))
}

func (e *CreditLimitWarning) Unwrap() error { return ErrCreditLimitExceeded }
