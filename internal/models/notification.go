package models

import "time"

// NotificationKind is the closed set of notification types the client knows
// how to present. Unknown backend values collapse to KindOther.
type NotificationKind string

const (
	KindLike               NotificationKind = "like"
	KindComment            NotificationKind = "comment"
	KindOpenHouseCancelled NotificationKind = "open_house_cancelled"
	KindOther              NotificationKind = "other"
)

// ParseNotificationKind maps a backend type string to a NotificationKind.
func ParseNotificationKind(s string) NotificationKind {
	switch NotificationKind(s) {
	case KindLike, KindComment, KindOpenHouseCancelled:
		return NotificationKind(s)
	default:
		return KindOther
	}
}

// UnmarshalText lets encoding/json and sqlx decode unknown types as KindOther.
func (k *NotificationKind) UnmarshalText(b []byte) error {
	*k = ParseNotificationKind(string(b))
	return nil
}

// Icon returns the symbol shown next to a notification of this kind.
func (k NotificationKind) Icon() string {
	switch k {
	case KindLike:
		return "♥"
	case KindComment:
		return "✎"
	case KindOpenHouseCancelled:
		return "⌂"
	default:
		return "•"
	}
}

// Color returns the accent color (hex) for this kind.
func (k NotificationKind) Color() string {
	switch k {
	case KindLike:
		return "#E5484D"
	case KindComment:
		return "#3E63DD"
	case KindOpenHouseCancelled:
		return "#F76808"
	default:
		return "#8B8D98"
	}
}

// Notification is created by the backend only. The client mutates IsRead,
// and only from false to true.
type Notification struct {
	ID               string           `json:"id" db:"id"`
	RecipientUserID  string           `json:"user_id" db:"user_id"`
	TriggeringUserID *string          `json:"triggering_user_id,omitempty" db:"triggering_user_id"`
	Kind             NotificationKind `json:"type" db:"type"`
	Title            string           `json:"title" db:"title"`
	Message          string           `json:"message" db:"message"`
	RelatedEntityID  *string          `json:"related_entity_id,omitempty" db:"related_entity_id"`
	IsRead           bool             `json:"is_read" db:"is_read"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
}
