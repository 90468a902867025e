package enums

import "fmt"

// NotificationType maps to the notification_type enum in Postgres.
type NotificationType string

const (
	NotificationTypePaymentConfirmed      NotificationType = "payment_confirmed"
	NotificationTypePaymentFailed         NotificationType = "payment_failed"
	NotificationTypePaymentActionRequired NotificationType = "payment_action_required"
	NotificationTypeDisputeOpened         NotificationType = "dispute_opened"
	NotificationTypeTransferRecorded      NotificationType = "transfer_recorded"
	NotificationTypeOpportunityFunded     NotificationType = "opportunity_funded"
)

var validNotificationTypes = []NotificationType{
	NotificationTypePaymentConfirmed,
	NotificationTypePaymentFailed,
	NotificationTypePaymentActionRequired,
	NotificationTypeDisputeOpened,
	NotificationTypeTransferRecorded,
	NotificationTypeOpportunityFunded,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}

// NotificationPriority maps to the notification_priority enum in Postgres.
type NotificationPriority string

const (
	NotificationPriorityLow      NotificationPriority = "low"
	NotificationPriorityNormal   NotificationPriority = "normal"
	NotificationPriorityHigh     NotificationPriority = "high"
	NotificationPriorityCritical NotificationPriority = "critical"
)

var validNotificationPriorities = []NotificationPriority{
	NotificationPriorityLow,
	NotificationPriorityNormal,
	NotificationPriorityHigh,
	NotificationPriorityCritical,
}

// IsValid checks whether the given priority matches the canonical enum.
func (p NotificationPriority) IsValid() bool {
	for _, candidate := range validNotificationPriorities {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseNotificationPriority converts raw strings into NotificationPriority.
func ParseNotificationPriority(value string) (NotificationPriority, error) {
	for _, candidate := range validNotificationPriorities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification priority %q", value)
}
