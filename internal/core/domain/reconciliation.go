package domain

import "github.com/shopspring/decimal"

// FolioDrift is one running-total field that disagrees with the recomputed value.
type FolioDrift struct {
	Field      string          `json:"field"`
	Stored     decimal.Decimal `json:"stored"`
	Recomputed decimal.Decimal `json:"recomputed"`
}

// FolioReconciliation compares a folio's stored totals with its ledger lines.
type FolioReconciliation struct {
	FolioID     string       `json:"folioID"`
	FolioNumber string       `json:"folioNumber"`
	Consistent  bool         `json:"consistent"`
	Drifts      []FolioDrift `json:"drifts,omitempty"`
}

// Reconcile recomputes totals from non-voided items and payments and reports drift.
func Reconcile(f Folio, items []FolioItem, payments []Payment) FolioReconciliation {
	expected := Folio{
		Subtotal:      decimal.Zero,
		TaxAmount:     decimal.Zero,
		ServiceCharge: decimal.Zero,
		TotalAmount:   decimal.Zero,
		PaidAmount:    decimal.Zero,
		Balance:       decimal.Zero,
	}
	for i := range items {
		if items[i].Voided {
			continue
		}
		expected.Apply(items[i].ChargeDelta())
	}
	for i := range payments {
		if payments[i].Voided {
			continue
		}
		expected.Apply(payments[i].PaidDelta())
	}

	out := FolioReconciliation{FolioID: f.FolioID, FolioNumber: f.FolioNumber}
	check := func(field string, stored, recomputed decimal.Decimal) {
		if !stored.Equal(recomputed) {
			out.Drifts = append(out.Drifts, FolioDrift{Field: field, Stored: stored, Recomputed: recomputed})
		}
	}
	check("subtotal", f.Subtotal, expected.Subtotal)
	check("tax_amount", f.TaxAmount, expected.TaxAmount)
	check("service_charge", f.ServiceCharge, expected.ServiceCharge)
	check("total_amount", f.TotalAmount, expected.TotalAmount)
	check("paid_amount", f.PaidAmount, expected.PaidAmount)
	check("balance", f.Balance, expected.Balance)
	out.Consistent = len(out.Drifts) == 0
	return out
}
