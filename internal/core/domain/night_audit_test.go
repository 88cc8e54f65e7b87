package domain_test

import (
	"testing"

	"github.com/SscSPs/property_management_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestRoomChargeAmounts(t *testing.T) {
	base, tax, service := domain.RoomChargeAmounts(dec("100"), dec("0.10"), dec("0.05"))
	assert.Equal(t, "100.00", base.StringFixed(2))
	assert.Equal(t, "10.00", tax.StringFixed(2))
	assert.Equal(t, "5.00", service.StringFixed(2))

	base, tax, service = domain.RoomChargeAmounts(dec("99.99"), dec("0.10"), dec("0"))
	assert.Equal(t, "99.99", base.StringFixed(2))
	assert.Equal(t, "10.00", tax.StringFixed(2), "9.999 rounds half-up")
	assert.True(t, service.IsZero())
}

func TestRevenueBucket(t *testing.T) {
	assert.Equal(t, "room", domain.RevenueBucket(domain.ItemRoomCharge))
	assert.Equal(t, "fb", domain.RevenueBucket(domain.ItemFoodBeverage))
	assert.Equal(t, "other", domain.RevenueBucket(domain.ItemMinibar))
	assert.Equal(t, "other", domain.RevenueBucket(domain.ItemLaundry))
	assert.Equal(t, "", domain.RevenueBucket(domain.ItemTax))
	assert.Equal(t, "", domain.RevenueBucket(domain.ItemDeposit))
}

func TestAuditStatistics_DeriveRates(t *testing.T) {
	s := domain.AuditStatistics{TotalRooms: 3, OccupiedRooms: 1, RoomRevenue: dec("100")}
	s.DeriveRates()
	assert.Equal(t, "0.3333", s.OccupancyRate.StringFixed(4))
	assert.Equal(t, "100.00", s.ADR.StringFixed(2))
	assert.Equal(t, "33.33", s.RevPAR.StringFixed(2))

	empty := domain.AuditStatistics{RoomRevenue: dec("0")}
	empty.DeriveRates()
	assert.True(t, empty.OccupancyRate.IsZero())
	assert.True(t, empty.ADR.IsZero())
	assert.True(t, empty.RevPAR.IsZero())
}
