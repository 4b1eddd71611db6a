package enums

import "fmt"

// NotificationType maps to the notification_type enum in Postgres.
type NotificationType string

const (
	NotificationTypeSystemAnnouncement   NotificationType = "system_announcement"
	NotificationTypeVendorVerified       NotificationType = "vendor_verified"
	NotificationTypeVendorRejected       NotificationType = "vendor_rejected"
	NotificationTypeRejectionCleared     NotificationType = "vendor_rejection_cleared"
	NotificationTypeVendorStatus         NotificationType = "vendor_status"
	NotificationTypeResubmissionReminder NotificationType = "vendor_resubmission_reminder"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeSystemAnnouncement,
	NotificationTypeVendorVerified,
	NotificationTypeVendorRejected,
	NotificationTypeRejectionCleared,
	NotificationTypeVendorStatus,
	NotificationTypeResubmissionReminder,
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
