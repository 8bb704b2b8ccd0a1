package services

import (
	"itad_backend/internal/repositories"
	"itad_backend/internal/services/dto"
	"itad_backend/pkg/apperrors"
)

// NotificationService is the recipient-facing inbox: listing and
// read/dismiss state. Creation goes through the dispatcher.
type NotificationService interface {
	GetUserNotifications(userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error)
	GetUnreadCount(userID string) (int64, error)
	MarkAsRead(userID, notificationID string) error
	MarkAllAsRead(userID string) error
	Dismiss(userID, notificationID string) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) GetUserNotifications(userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error) {
	notifications, total, err := s.notificationRepo.FindUserNotifications(userID, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.NotificationResponse, len(notifications))
	for i := range notifications {
		responses[i] = dto.BuildNotificationResponse(&notifications[i])
	}

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

func (s *notificationService) GetUnreadCount(userID string) (int64, error) {
	count, err := s.notificationRepo.GetUnreadCount(userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func (s *notificationService) MarkAsRead(userID, notificationID string) error {
	if err := s.checkOwnership(userID, notificationID); err != nil {
		return err
	}
	if err := s.notificationRepo.MarkAsRead(notificationID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(userID string) error {
	if err := s.notificationRepo.MarkAllAsRead(userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) Dismiss(userID, notificationID string) error {
	if err := s.checkOwnership(userID, notificationID); err != nil {
		return err
	}
	if err := s.notificationRepo.MarkDismissed(notificationID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) checkOwnership(userID, notificationID string) error {
	notification, err := s.notificationRepo.FindNotificationByID(notificationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err, "notification", "Notification not found")
		}
		return apperrors.InternalError(err)
	}
	if notification.UserID != userID {
		return apperrors.ErrUnauthorized("notification", "Access denied")
	}
	return nil
}
