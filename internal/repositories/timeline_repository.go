package repositories

import (
	"itad_backend/internal/models"

	"gorm.io/gorm"
)

type TimelineRepository interface {
	// CreateEvent appends one event. Events are never updated or
	// deleted once written.
	CreateEvent(event *models.TimelineEvent) error

	// FindEntityEvents lists an entity's events in creation order,
	// oldest first.
	FindEntityEvents(entityType, entityID string) ([]models.TimelineEvent, error)
}

type TimelineRepositoryImpl struct {
	db *gorm.DB
}

func NewTimelineRepository(db *gorm.DB) TimelineRepository {
	return &TimelineRepositoryImpl{db: db}
}

func (r *TimelineRepositoryImpl) CreateEvent(event *models.TimelineEvent) error {
	return r.db.Create(event).Error
}

func (r *TimelineRepositoryImpl) FindEntityEvents(entityType, entityID string) ([]models.TimelineEvent, error) {
	var events []models.TimelineEvent
	err := r.db.Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
