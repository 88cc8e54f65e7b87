package domain

import "github.com/shopspring/decimal"

// CorporateAccount is a company that can absorb guest charges.
type CorporateAccount struct {
	CorporateAccountID string          `json:"corporateAccountID"`
	PropertyID         string          `json:"propertyID"`
	CompanyName        string          `json:"companyName"`
	CreditLimit        decimal.Decimal `json:"creditLimit"` // 0 = unlimited
	CurrentBalance     decimal.Decimal `json:"currentBalance"`
	IsActive           bool            `json:"isActive"`
	AuditFields
}

// ExceedsLimit reports whether balance is above a nonzero credit limit.
func (a *CorporateAccount) ExceedsLimit(balance decimal.Decimal) bool {
	if a.CreditLimit.IsZero() {
		return false
	}
	return balance.GreaterThan(a.CreditLimit)
}
