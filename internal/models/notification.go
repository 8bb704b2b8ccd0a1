package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is a per-user record of a business event. The in-app
// row is the source of truth: it counts as delivered the moment it
// exists, regardless of whether external email/push later succeeds.
type Notification struct {
	BaseModel
	UserID   string `gorm:"type:uuid;not null;index" json:"user_id"`
	Type     string `gorm:"not null" json:"type"` // "quote_sent", "quote_accepted", ...
	Title    string `gorm:"not null" json:"title"`
	Message  string `json:"message"`
	Priority string `gorm:"default:normal" json:"priority"`
	Link     string `json:"link,omitempty"` // deep link into the portal

	EntityType string         `json:"entity_type,omitempty"`
	EntityID   string         `gorm:"type:uuid" json:"entity_id,omitempty"`
	Data       datatypes.JSON `gorm:"type:jsonb" json:"data,omitempty"`

	IsRead      bool       `gorm:"default:false" json:"is_read"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	IsDismissed bool       `gorm:"default:false" json:"is_dismissed"`
	DismissedAt *time.Time `json:"dismissed_at,omitempty"`

	EmailSent   bool       `gorm:"default:false" json:"email_sent"`
	EmailSentAt *time.Time `json:"email_sent_at,omitempty"`
	PushSent    bool       `gorm:"default:false" json:"push_sent"`
	PushSentAt  *time.Time `json:"push_sent_at,omitempty"`
}
