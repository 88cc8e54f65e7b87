package dto

import (
	"github.com/SscSPs/property_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// --- Folio DTOs ---

// AddChargeRequest posts a line to an open folio. Amounts are already computed by the caller.
type AddChargeRequest struct {
	ItemType      domain.ItemType `json:"itemType" binding:"required"`
	Description   string          `json:"description" binding:"required,max=255"`
	UnitPrice     decimal.Decimal `json:"unitPrice" swaggertype:"string" example:"250.00"`
	Quantity      decimal.Decimal `json:"quantity" binding:"decimalgt0" swaggertype:"string" example:"1"`
	TaxAmount     decimal.Decimal `json:"taxAmount" swaggertype:"string" example:"25.00"`
	ServiceCharge decimal.Decimal `json:"serviceCharge" swaggertype:"string" example:"0"`
	ServiceDate   string          `json:"serviceDate" binding:"required,datetime=2006-01-02" example:"2024-03-01"`
	ReferenceID   *string         `json:"referenceID,omitempty"`
}

// VoidRequest carries the mandatory reason for reversing an item or payment.
type VoidRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// RecordPaymentRequest records money received against a folio.
// A non-empty CorporateAccountID routes the payment to a corporate account.
type RecordPaymentRequest struct {
	Amount             decimal.Decimal      `json:"amount" binding:"decimalgt0" swaggertype:"string" example:"1200.00"`
	Method             domain.PaymentMethod `json:"method" binding:"required,oneof=cash credit_card debit_card bank_transfer other"`
	ReferenceNumber    *string              `json:"referenceNumber,omitempty"`
	Notes              *string              `json:"notes,omitempty"`
	CorporateAccountID *string              `json:"corporateAccountID,omitempty"`
	IdempotencyKey     *string              `json:"idempotencyKey,omitempty"`
}

// FolioItemResult is the item written by AddCharge and the folio totals after it.
type FolioItemResult struct {
	Item  domain.FolioItem `json:"item"`
	Folio domain.Folio     `json:"folio"`
}

// PaymentResult is the payment written (or replayed) by RecordPayment.
type PaymentResult struct {
	Payment          domain.Payment           `json:"payment"`
	Folio            domain.Folio             `json:"folio"`
	CorporateAccount *domain.CorporateAccount `json:"corporateAccount,omitempty"`
	Replayed         bool                     `json:"replayed"`
	// Warning is set when the payment posted but a non-fatal rule tripped.
	Warning error `json:"-"`
}

// ListFolioItemsResponse is one page of folio items.
type ListFolioItemsResponse struct {
	Items     []domain.FolioItem `json:"items"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ListPaymentsResponse wraps the payments of a folio.
type ListPaymentsResponse struct {
	Payments []domain.Payment `json:"payments"`
}

// CreateCorporateAccountRequest defines data for a corporate billing account.
type CreateCorporateAccountRequest struct {
	CompanyName string          `json:"companyName" binding:"required,max=255"`
	CreditLimit decimal.Decimal `json:"creditLimit" binding:"decimalgte0" swaggertype:"string" example:"5000.00"`
}

// ReconciliationReport lists the folios of a property whose running totals drifted.
type ReconciliationReport struct {
	PropertyID    string                       `json:"propertyID"`
	FoliosChecked int                          `json:"foliosChecked"`
	Drifted       []domain.FolioReconciliation `json:"drifted"`
}
