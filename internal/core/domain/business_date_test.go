package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/property_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveBusinessDate(t *testing.T) {
	plusSeven := time.FixedZone("UTC+7", 7*60*60)

	tests := []struct {
		name    string
		now     time.Time
		loc     *time.Location
		cutover int
		want    time.Time
	}{
		{
			name:    "before cutover is still yesterday",
			now:     time.Date(2024, 3, 2, 5, 59, 0, 0, time.UTC),
			loc:     time.UTC,
			cutover: 6,
			want:    date(2024, 3, 1),
		},
		{
			name:    "at cutover the new day opens",
			now:     time.Date(2024, 3, 2, 6, 0, 0, 0, time.UTC),
			loc:     time.UTC,
			cutover: 6,
			want:    date(2024, 3, 2),
		},
		{
			name:    "local clock decides, not UTC",
			now:     time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC), // 06:30 on the 2nd in UTC+7
			loc:     plusSeven,
			cutover: 6,
			want:    date(2024, 3, 2),
		},
		{
			name:    "nil location falls back to UTC",
			now:     time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC),
			loc:     nil,
			cutover: 6,
			want:    date(2023, 12, 31),
		},
		{
			name:    "zero cutover never rolls back",
			now:     time.Date(2024, 3, 2, 0, 1, 0, 0, time.UTC),
			loc:     time.UTC,
			cutover: 0,
			want:    date(2024, 3, 2),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.ResolveBusinessDate(tt.now, tt.loc, tt.cutover)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestProperty_BusinessDateUsesDefaultCutover(t *testing.T) {
	p := domain.Property{Timezone: "UTC"}
	got := p.BusinessDate(time.Date(2024, 3, 2, 5, 0, 0, 0, time.UTC))
	assert.True(t, date(2024, 3, 1).Equal(got))

	p.CutoverHour = 4
	got = p.BusinessDate(time.Date(2024, 3, 2, 5, 0, 0, 0, time.UTC))
	assert.True(t, date(2024, 3, 2).Equal(got))
}

func TestProperty_LocationFallsBackToUTC(t *testing.T) {
	p := domain.Property{Timezone: "Not/AZone"}
	assert.Equal(t, time.UTC, p.Location())

	p.Timezone = ""
	assert.Equal(t, time.UTC, p.Location())
}

func TestDayWindow(t *testing.T) {
	plusSeven := time.FixedZone("UTC+7", 7*60*60)
	start, end := domain.DayWindow(date(2024, 3, 1), plusSeven)

	assert.Equal(t, time.Date(2024, 2, 29, 17, 0, 0, 0, time.UTC), start.UTC())
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, "0.13", domain.RoundMoney(decimal.RequireFromString("0.125")).StringFixed(2))
	assert.Equal(t, "-0.13", domain.RoundMoney(decimal.RequireFromString("-0.125")).StringFixed(2))
	assert.Equal(t, "10.00", domain.RoundMoney(decimal.RequireFromString("9.999")).StringFixed(2))
}
