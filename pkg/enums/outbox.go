package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateInvestment  OutboxAggregateType = "investment"
	AggregateOpportunity OutboxAggregateType = "opportunity"
	AggregateDispute     OutboxAggregateType = "dispute"
	AggregateTransfer    OutboxAggregateType = "transfer"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateInvestment,
	AggregateOpportunity,
	AggregateDispute,
	AggregateTransfer,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventInvestmentSettled        OutboxEventType = "investment_settled"
	EventInvestmentPaymentFailed  OutboxEventType = "investment_payment_failed"
	EventInvestmentActionRequired OutboxEventType = "investment_action_required"
	EventOpportunityFunded        OutboxEventType = "opportunity_funded"
	EventDisputeOpened            OutboxEventType = "dispute_opened"
	EventDisputeResolved          OutboxEventType = "dispute_resolved"
	EventTransferRecorded         OutboxEventType = "transfer_recorded"
)

var validOutboxEventTypes = []OutboxEventType{
	EventInvestmentSettled,
	EventInvestmentPaymentFailed,
	EventInvestmentActionRequired,
	EventOpportunityFunded,
	EventDisputeOpened,
	EventDisputeResolved,
	EventTransferRecorded,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
