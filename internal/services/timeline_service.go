package services

import (
	"itad_backend/internal/models"
	"itad_backend/internal/repositories"
)

// TimelineService is the append-only audit log per entity. One event
// per state-changing operation; events are never mutated or removed.
type TimelineService struct {
	timelineRepo repositories.TimelineRepository
}

func NewTimelineService(timelineRepo repositories.TimelineRepository) *TimelineService {
	return &TimelineService{timelineRepo: timelineRepo}
}

func (s *TimelineService) CreateCreatedEvent(entityType, entityID string, actorID *string) error {
	return s.timelineRepo.CreateEvent(&models.TimelineEvent{
		EntityType: entityType,
		EntityID:   entityID,
		EventType:  models.TimelineEventCreated,
		ActorID:    actorID,
	})
}

func (s *TimelineService) CreateStatusChange(entityType, entityID, previousStatus, newStatus string, actorID *string) error {
	return s.timelineRepo.CreateEvent(&models.TimelineEvent{
		EntityType:    entityType,
		EntityID:      entityID,
		EventType:     models.TimelineEventStatusChange,
		PreviousValue: previousStatus,
		NewValue:      newStatus,
		ActorID:       actorID,
	})
}

func (s *TimelineService) CreateDeclinedEvent(entityType, entityID, reason string, actorID *string) error {
	return s.timelineRepo.CreateEvent(&models.TimelineEvent{
		EntityType:  entityType,
		EntityID:    entityID,
		EventType:   models.TimelineEventDeclined,
		Description: reason,
		ActorID:     actorID,
	})
}

func (s *TimelineService) CreateNote(entityType, entityID, note string, actorID *string) error {
	return s.timelineRepo.CreateEvent(&models.TimelineEvent{
		EntityType:  entityType,
		EntityID:    entityID,
		EventType:   models.TimelineEventNote,
		Description: note,
		ActorID:     actorID,
	})
}

// GetEntityTimeline lists an entity's events oldest first.
func (s *TimelineService) GetEntityTimeline(entityType, entityID string) ([]models.TimelineEvent, error) {
	return s.timelineRepo.FindEntityEvents(entityType, entityID)
}
