package enums

import "fmt"

// OpportunityStatus maps to the opportunity_status enum in Postgres.
type OpportunityStatus string

const (
	OpportunityStatusDraft  OpportunityStatus = "draft"
	OpportunityStatusOpen   OpportunityStatus = "open"
	OpportunityStatusFunded OpportunityStatus = "funded"
	OpportunityStatusClosed OpportunityStatus = "closed"
)

var validOpportunityStatuses = []OpportunityStatus{
	OpportunityStatusDraft,
	OpportunityStatusOpen,
	OpportunityStatusFunded,
	OpportunityStatusClosed,
}

// String implements fmt.Stringer.
func (s OpportunityStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OpportunityStatus.
func (s OpportunityStatus) IsValid() bool {
	for _, candidate := range validOpportunityStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOpportunityStatus converts raw input into an OpportunityStatus.
func ParseOpportunityStatus(value string) (OpportunityStatus, error) {
	for _, candidate := range validOpportunityStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid opportunity status %q", value)
}
