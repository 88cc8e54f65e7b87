package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/property_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PaymentReader defines read operations for payment data
type PaymentReader interface {
	// FindPaymentByID retrieves a payment line.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// FindPaymentByIdempotencyKey retrieves the payment posted to a folio with a caller key.
	FindPaymentByIdempotencyKey(ctx context.Context, folioID string, key string) (*domain.Payment, error)

	// ListPayments lists a folio's payments in posting order.
	ListPayments(ctx context.Context, folioID string) ([]domain.Payment, error)

	// SumPayments totals a property's non-voided payments created in [from, to).
	SumPayments(ctx context.Context, propertyID string, from, to time.Time) (decimal.Decimal, error)
}

// PaymentWriter defines write operations for payment data
type PaymentWriter interface {
	// SavePayment appends a payment line.
	SavePayment(ctx context.Context, payment domain.Payment) error

	// MarkPaymentVoided flips the voided flag and records who and why.
	MarkPaymentVoided(ctx context.Context, paymentID string, reason string, actor string, now time.Time) error
}

// PaymentRepositoryFacade combines all payment-related repository interfaces
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
