package repositories

import (
	"errors"
	"time"

	"itad_backend/internal/models"

	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Search criteria for a user's notification inbox.
type NotificationCriteria struct {
	UnreadOnly bool   `form:"unread_only"`
	Type       string `form:"type"`
	Page       int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	CreateBulkNotifications(notifications []*models.Notification) error
	FindNotificationByID(id string) (*models.Notification, error)
	FindUserNotifications(userID string, criteria NotificationCriteria) ([]models.Notification, int64, error)
	GetUnreadCount(userID string) (int64, error)

	MarkAsRead(notificationID string) error
	MarkAllAsRead(userID string) error
	MarkDismissed(notificationID string) error

	// Delivery bookkeeping, called by the delivery worker after a
	// successful external send.
	MarkEmailSent(notificationID string) error
	MarkPushSent(notificationID string) error
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) CreateBulkNotifications(notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.CreateInBatches(notifications, 100).Error
}

func (r *NotificationRepositoryImpl) FindNotificationByID(id string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepositoryImpl) FindUserNotifications(userID string, criteria NotificationCriteria) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	query := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_dismissed = ?", userID, false)

	if criteria.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if criteria.Type != "" {
		query = query.Where("type = ?", criteria.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *NotificationRepositoryImpl) GetUnreadCount(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ? AND is_dismissed = ?", userID, false, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) MarkAsRead(notificationID string) error {
	now := time.Now()
	return r.db.Model(&models.Notification{}).
		Where("id = ? AND is_read = ?", notificationID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(userID string) error {
	now := time.Now()
	return r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
}

func (r *NotificationRepositoryImpl) MarkDismissed(notificationID string) error {
	now := time.Now()
	return r.db.Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Updates(map[string]interface{}{"is_dismissed": true, "dismissed_at": now}).Error
}

func (r *NotificationRepositoryImpl) MarkEmailSent(notificationID string) error {
	now := time.Now()
	return r.db.Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Updates(map[string]interface{}{"email_sent": true, "email_sent_at": now}).Error
}

func (r *NotificationRepositoryImpl) MarkPushSent(notificationID string) error {
	now := time.Now()
	return r.db.Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Updates(map[string]interface{}{"push_sent": true, "push_sent_at": now}).Error
}
