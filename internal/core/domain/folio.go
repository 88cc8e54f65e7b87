package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// FolioStatus is the lifecycle state of a folio.
type FolioStatus string

const (
	FolioOpen   FolioStatus = "open"
	FolioClosed FolioStatus = "closed"
)

// ItemType classifies a folio charge line.
type ItemType string

const (
	ItemRoomCharge    ItemType = "room_charge"
	ItemFoodBeverage  ItemType = "food_beverage"
	ItemTax           ItemType = "tax"
	ItemServiceCharge ItemType = "service_charge"
	ItemDiscount      ItemType = "discount"
	ItemDeposit       ItemType = "deposit"
	ItemLaundry       ItemType = "laundry"
	ItemMinibar       ItemType = "minibar"
	ItemOther         ItemType = "other"
)

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	switch t {
	case ItemRoomCharge, ItemFoodBeverage, ItemTax, ItemServiceCharge, ItemDiscount,
		ItemDeposit, ItemLaundry, ItemMinibar, ItemOther:
		return true
	}
	return false
}

// Folio is the financial account of a stay.
type Folio struct {
	FolioID       string          `json:"folioID"`
	PropertyID    string          `json:"propertyID"`
	FolioNumber   string          `json:"folioNumber"`
	GuestID       string          `json:"guestID"`
	ReservationID *string         `json:"reservationID,omitempty"`
	Status        FolioStatus     `json:"status"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	ServiceCharge decimal.Decimal `json:"serviceCharge"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	Balance       decimal.Decimal `json:"balance"`
	ClosedAt      *time.Time      `json:"closedAt,omitempty"`
	AuditFields
}

// FolioItem is one append-only charge line.
type FolioItem struct {
	ItemID        string          `json:"itemID"`
	FolioID       string          `json:"folioID"`
	ItemType      ItemType        `json:"itemType"`
	Description   string          `json:"description"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Quantity      decimal.Decimal `json:"quantity"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	ServiceCharge decimal.Decimal `json:"serviceCharge"`
	ServiceDate   time.Time       `json:"serviceDate"`
	ReferenceID   *string         `json:"referenceID,omitempty"`
	Voided        bool            `json:"voided"`
	VoidReason    *string         `json:"voidReason,omitempty"`
	VoidedBy      *string         `json:"voidedBy,omitempty"`
	VoidedAt      *time.Time      `json:"voidedAt,omitempty"`
	AuditFields
}

// FolioDelta is a change to a folio's running totals. Total and balance are
// derived, so the invariant holds for any delta applied to a consistent folio.
type FolioDelta struct {
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	ServiceCharge decimal.Decimal
	Paid          decimal.Decimal
}

// Total is the change to total_amount.
func (d FolioDelta) Total() decimal.Decimal {
	return d.Subtotal.Add(d.Tax).Add(d.ServiceCharge)
}

// Balance is the change to balance.
func (d FolioDelta) Balance() decimal.Decimal {
	return d.Total().Sub(d.Paid)
}

// Neg reverses the delta.
func (d FolioDelta) Neg() FolioDelta {
	return FolioDelta{
		Subtotal:      d.Subtotal.Neg(),
		Tax:           d.Tax.Neg(),
		ServiceCharge: d.ServiceCharge.Neg(),
		Paid:          d.Paid.Neg(),
	}
}

// ChargeDelta is the contribution of a charge line to its folio.
func (i *FolioItem) ChargeDelta() FolioDelta {
	return FolioDelta{
		Subtotal:      i.TotalPrice,
		Tax:           i.TaxAmount,
		ServiceCharge: i.ServiceCharge,
		Paid:          decimal.Zero,
	}
}

// Apply adds a delta to the running totals.
func (f *Folio) Apply(d FolioDelta) {
	f.Subtotal = f.Subtotal.Add(d.Subtotal)
	f.TaxAmount = f.TaxAmount.Add(d.Tax)
	f.ServiceCharge = f.ServiceCharge.Add(d.ServiceCharge)
	f.TotalAmount = f.TotalAmount.Add(d.Total())
	f.PaidAmount = f.PaidAmount.Add(d.Paid)
	f.Balance = f.Balance.Add(d.Balance())
}

// IsOpen reports whether the folio accepts mutations.
func (f *Folio) IsOpen() bool {
	return f.Status == FolioOpen
}

// CheckInvariant verifies total = subtotal + tax + service and balance = total - paid.
func (f *Folio) CheckInvariant() error {
	wantTotal := f.Subtotal.Add(f.TaxAmount).Add(f.ServiceCharge)
	if !f.TotalAmount.Equal(wantTotal) {
		return fmt.Errorf("folio %s: total %s != subtotal+tax+service %s", f.FolioID, f.TotalAmount, wantTotal)
	}
	wantBalance := f.TotalAmount.Sub(f.PaidAmount)
	if !f.Balance.Equal(wantBalance) {
		return fmt.Errorf("folio %s: balance %s != total-paid %s", f.FolioID, f.Balance, wantBalance)
	}
	return nil
}

// NewFolio returns an open folio with zero totals.
func NewFolio(id, propertyID, number, guestID string, reservationID *string, actor string, now time.Time) Folio {
	return Folio{
		FolioID:       id,
		PropertyID:    propertyID,
		FolioNumber:   number,
		GuestID:       guestID,
		ReservationID: reservationID,
		Status:        FolioOpen,
		Subtotal:      decimal.Zero,
		TaxAmount:     decimal.Zero,
		ServiceCharge: decimal.Zero,
		TotalAmount:   decimal.Zero,
		PaidAmount:    decimal.Zero,
		Balance:       decimal.Zero,
		AuditFields:   NewAuditFields(actor, now),
	}
}

// FormatFolioNumber renders the per-property sequence as a folio number.
func FormatFolioNumber(seq int64) string {
	return fmt.Sprintf("F-%06d", seq)
}

// FormatReservationNumber renders the per-property sequence as a reservation number.
func FormatReservationNumber(seq int64) string {
	return fmt.Sprintf("R-%06d", seq)
}
