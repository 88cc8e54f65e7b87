package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/property_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFolio_ApplyKeepsInvariant(t *testing.T) {
	f := domain.NewFolio("f1", "p1", domain.FormatFolioNumber(1), "g1", nil, "u1", time.Now())
	require.NoError(t, f.CheckInvariant())

	charge := domain.FolioItem{TotalPrice: dec("100.00"), TaxAmount: dec("10.00"), ServiceCharge: dec("5.00")}
	f.Apply(charge.ChargeDelta())
	payment := domain.Payment{Amount: dec("60.00")}
	f.Apply(payment.PaidDelta())

	require.NoError(t, f.CheckInvariant())
	assert.Equal(t, "115.00", f.TotalAmount.StringFixed(2))
	assert.Equal(t, "60.00", f.PaidAmount.StringFixed(2))
	assert.Equal(t, "55.00", f.Balance.StringFixed(2))

	// Voiding reverses exactly.
	f.Apply(charge.ChargeDelta().Neg())
	f.Apply(payment.PaidDelta().Neg())
	require.NoError(t, f.CheckInvariant())
	assert.True(t, f.TotalAmount.IsZero())
	assert.True(t, f.Balance.IsZero())
}

func TestFolio_CheckInvariantDetectsDrift(t *testing.T) {
	f := domain.NewFolio("f1", "p1", "F-000001", "g1", nil, "u1", time.Now())
	f.Subtotal = dec("10")
	assert.Error(t, f.CheckInvariant())

	f.TotalAmount = dec("10")
	assert.Error(t, f.CheckInvariant(), "balance still stale")

	f.Balance = dec("10")
	assert.NoError(t, f.CheckInvariant())
}

func TestFolioDelta_Derived(t *testing.T) {
	d := domain.FolioDelta{Subtotal: dec("100"), Tax: dec("10"), ServiceCharge: dec("5"), Paid: dec("15")}
	assert.Equal(t, "115", d.Total().String())
	assert.Equal(t, "100", d.Balance().String())
	assert.Equal(t, "-100", d.Neg().Balance().String())
}

func TestItemType_Valid(t *testing.T) {
	assert.True(t, domain.ItemMinibar.Valid())
	assert.True(t, domain.ItemDiscount.Valid())
	assert.False(t, domain.ItemType("spa").Valid())
}

func TestFormatNumbers(t *testing.T) {
	assert.Equal(t, "F-000042", domain.FormatFolioNumber(42))
	assert.Equal(t, "R-000007", domain.FormatReservationNumber(7))
}

func TestRouteFor(t *testing.T) {
	empty := ""
	acct := "corp-1"

	assert.Equal(t, domain.GuestBilled{}, domain.RouteFor(nil))
	assert.Equal(t, domain.GuestBilled{}, domain.RouteFor(&empty))
	assert.Equal(t, domain.CorporateBilled{AccountID: "corp-1"}, domain.RouteFor(&acct))
}

func TestReconcile(t *testing.T) {
	items := []domain.FolioItem{
		{TotalPrice: dec("100"), TaxAmount: dec("10"), ServiceCharge: dec("0")},
		{TotalPrice: dec("50"), TaxAmount: dec("5"), ServiceCharge: dec("0"), Voided: true},
	}
	payments := []domain.Payment{
		{Amount: dec("30")},
		{Amount: dec("999"), Voided: true},
	}
	f := domain.NewFolio("f1", "p1", "F-000001", "g1", nil, "u1", time.Now())
	for i := range items {
		if !items[i].Voided {
			f.Apply(items[i].ChargeDelta())
		}
	}
	f.Apply(payments[0].PaidDelta())

	rec := domain.Reconcile(f, items, payments)
	assert.True(t, rec.Consistent)
	assert.Empty(t, rec.Drifts)

	f.PaidAmount = dec("0")
	rec = domain.Reconcile(f, items, payments)
	require.False(t, rec.Consistent)
	require.Len(t, rec.Drifts, 1)
	assert.Equal(t, "paid_amount", rec.Drifts[0].Field)
	assert.Equal(t, "30", rec.Drifts[0].Recomputed.String())
}
