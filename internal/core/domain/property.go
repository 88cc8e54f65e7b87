package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCutoverHour is the local hour before which the previous calendar day
// is still the open business date.
const DefaultCutoverHour = 6

// Property is a hotel owned by a tenant. Every ledger and stay row is scoped by it.
type Property struct {
	PropertyID        string          `json:"propertyID"`
	TenantID          string          `json:"tenantID"`
	Name              string          `json:"name"`
	CurrencyCode      string          `json:"currencyCode"`
	TaxRate           decimal.Decimal `json:"taxRate"`           // fraction, e.g. 0.10
	ServiceChargeRate decimal.Decimal `json:"serviceChargeRate"` // fraction, usually 0
	Timezone          string          `json:"timezone"`          // IANA name
	CutoverHour       int             `json:"cutoverHour"`
	AuditFields
}

// Location returns the property's time zone, falling back to UTC for unknown names.
func (p *Property) Location() *time.Location {
	if p.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// BusinessDate resolves the open business date for this property at now.
func (p *Property) BusinessDate(now time.Time) time.Time {
	cutover := p.CutoverHour
	if cutover <= 0 {
		cutover = DefaultCutoverHour
	}
	return ResolveBusinessDate(now, p.Location(), cutover)
}
