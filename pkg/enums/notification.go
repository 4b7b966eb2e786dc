package enums

import "fmt"

// NotificationType partitions notification visibility per audience.
type NotificationType string

const (
	NotificationTypeAdmin       NotificationType = "Admin"
	NotificationTypePrestataire NotificationType = "Prestataire"
	NotificationTypeClient      NotificationType = "Client"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeAdmin,
	NotificationTypePrestataire,
	NotificationTypeClient,
}

// String implements fmt.Stringer.
func (n NotificationType) String() string {
	return string(n)
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
