package enums

import "fmt"

// ReconcileOutcome records how a webhook event was settled against the books.
type ReconcileOutcome string

const (
	// ReconcileOutcomeApplied means the event mutated financial state.
	ReconcileOutcomeApplied ReconcileOutcome = "applied"
	// ReconcileOutcomeDuplicate means the event was already processed.
	ReconcileOutcomeDuplicate ReconcileOutcome = "duplicate"
	// ReconcileOutcomeRecorded means a bookkeeping row was written without
	// touching investor state (disputes, transfers).
	ReconcileOutcomeRecorded ReconcileOutcome = "recorded"
	// ReconcileOutcomeSkipped means the event was acknowledged without effect.
	ReconcileOutcomeSkipped ReconcileOutcome = "skipped"
	// ReconcileOutcomeFailed means processing hit a transient error and the
	// processor is expected to redeliver.
	ReconcileOutcomeFailed ReconcileOutcome = "failed"
)

var validReconcileOutcomes = []ReconcileOutcome{
	ReconcileOutcomeApplied,
	ReconcileOutcomeDuplicate,
	ReconcileOutcomeRecorded,
	ReconcileOutcomeSkipped,
	ReconcileOutcomeFailed,
}

// String implements fmt.Stringer.
func (o ReconcileOutcome) String() string {
	return string(o)
}

// IsValid reports whether the value is a known ReconcileOutcome.
func (o ReconcileOutcome) IsValid() bool {
	for _, candidate := range validReconcileOutcomes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseReconcileOutcome converts raw input into ReconcileOutcome.
func ParseReconcileOutcome(value string) (ReconcileOutcome, error) {
	for _, candidate := range validReconcileOutcomes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reconcile outcome %q", value)
}
