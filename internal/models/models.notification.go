// FilePath: internal/models/models.notification.go
package models

import "time"

type NotificationType string

const (
	NotificationCritical NotificationType = "critical"
	NotificationWarning  NotificationType = "warning"
)

// Notification is derived from hive state on every read and never stored.
type Notification struct {
	ID      string           `json:"id"`
	Type    NotificationType `json:"type"`
	HiveID  string           `json:"hiveId"`
	Message string           `json:"message"`
	Time    time.Time        `json:"time"`
	Read    bool             `json:"read"`
}
