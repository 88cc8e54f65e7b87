package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how a payment was tendered.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentDebitCard    PaymentMethod = "debit_card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentOther        PaymentMethod = "other"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentBankTransfer, PaymentOther:
		return true
	}
	return false
}

// Payment is one append-only payment line against a folio.
type Payment struct {
	PaymentID          string          `json:"paymentID"`
	FolioID            string          `json:"folioID"`
	Amount             decimal.Decimal `json:"amount"`
	Method             PaymentMethod   `json:"method"`
	ReferenceNumber    *string         `json:"referenceNumber,omitempty"`
	Notes              *string         `json:"notes,omitempty"`
	CorporateAccountID *string         `json:"corporateAccountID,omitempty"`
	IdempotencyKey     *string         `json:"idempotencyKey,omitempty"`
	Voided             bool            `json:"voided"`
	VoidReason         *string         `json:"voidReason,omitempty"`
	VoidedBy           *string         `json:"voidedBy,omitempty"`
	VoidedAt           *time.Time      `json:"voidedAt,omitempty"`
	AuditFields
}

// PaidDelta is the contribution of a payment to its folio.
func (p *Payment) PaidDelta() FolioDelta {
	return FolioDelta{
		Subtotal:      decimal.Zero,
		Tax:           decimal.Zero,
		ServiceCharge: decimal.Zero,
		Paid:          p.Amount,
	}
}

// PaymentRoute decides who absorbs a payment. It is either GuestBilled or
// CorporateBilled; the unexported method closes the set.
type PaymentRoute interface {
	isPaymentRoute()
}

// GuestBilled settles the guest's own folio.
type GuestBilled struct{}

// CorporateBilled moves the amount onto a corporate account.
type CorporateBilled struct {
	AccountID string
}

func (GuestBilled) isPaymentRoute()     {}
func (CorporateBilled) isPaymentRoute() {}

// RouteFor builds a route from an optional corporate account id.
func RouteFor(corporateAccountID *string) PaymentRoute {
	if corporateAccountID == nil || *corporateAccountID == "" {
		return GuestBilled{}
	}
	return CorporateBilled{AccountID: *corporateAccountID}
}
