package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimelineEvent is an immutable audit record attached to a request,
// quote or job. Append-only: rows are never updated or deleted, and
// per-entity listings come back in creation order.
type TimelineEvent struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	EntityType    string    `gorm:"not null;index:idx_timeline_entity" json:"entity_type"`
	EntityID      string    `gorm:"type:uuid;not null;index:idx_timeline_entity" json:"entity_id"`
	EventType     string    `gorm:"not null" json:"event_type"`
	PreviousValue string    `json:"previous_value,omitempty"`
	NewValue      string    `json:"new_value,omitempty"`
	Description   string    `json:"description,omitempty"`
	ActorID       *string   `gorm:"type:uuid" json:"actor_id,omitempty"` // nil for system-triggered events
	CreatedAt     time.Time `gorm:"default:now()" json:"created_at"`
}

// No UpdatedAt: timeline events are write-once.
func (e *TimelineEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
