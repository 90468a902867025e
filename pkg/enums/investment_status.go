package enums

import "fmt"

// InvestmentStatus maps to the investment_status enum in Postgres.
type InvestmentStatus string

const (
	InvestmentStatusPending       InvestmentStatus = "pending"
	InvestmentStatusActive        InvestmentStatus = "active"
	InvestmentStatusPaymentFailed InvestmentStatus = "payment_failed"
)

var validInvestmentStatuses = []InvestmentStatus{
	InvestmentStatusPending,
	InvestmentStatusActive,
	InvestmentStatusPaymentFailed,
}

// String implements fmt.Stringer.
func (s InvestmentStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known InvestmentStatus.
func (s InvestmentStatus) IsValid() bool {
	for _, candidate := range validInvestmentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseInvestmentStatus converts raw input into an InvestmentStatus.
func ParseInvestmentStatus(value string) (InvestmentStatus, error) {
	for _, candidate := range validInvestmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid investment status %q", value)
}
