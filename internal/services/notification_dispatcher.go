package services

import (
	"fmt"

	"itad_backend/internal/models"
	"itad_backend/internal/repositories"
	"itad_backend/internal/workers"
)

// RecipientResolver is the narrow capability the dispatcher needs to
// turn an audience into concrete users. ResolveStaffRecipients is a
// privileged cross-tenant lookup; nothing else should use it.
type RecipientResolver interface {
	ResolveRecipient(userID string) (*models.User, error)
	ResolveStaffRecipients() ([]models.User, error)
	ResolveCompanyRecipients(companyID string) ([]models.User, error)
}

// DeliveryQueue hands notification rows to the external delivery
// phase. Enqueue must never block or fail.
type DeliveryQueue interface {
	Enqueue(task workers.DeliveryTask)
}

// NotificationDispatcher translates a workflow event into user-facing
// content and fans it out. The database row is the delivery that
// counts: a row-write failure is returned to the caller, while
// external email/push runs after the fact and can only be logged.
type NotificationDispatcher interface {
	Send(userID, eventType string, evt EventContext) (*models.Notification, error)
	Broadcast(eventType string, evt EventContext) error
	NotifyCompany(companyID, eventType string, evt EventContext) error
}

type notificationDispatcher struct {
	notificationRepo repositories.NotificationRepository
	resolver         RecipientResolver
	queue            DeliveryQueue
	portalBaseURL    string
}

func NewNotificationDispatcher(
	notificationRepo repositories.NotificationRepository,
	resolver RecipientResolver,
	queue DeliveryQueue,
	portalBaseURL string,
) NotificationDispatcher {
	return &notificationDispatcher{
		notificationRepo: notificationRepo,
		resolver:         resolver,
		queue:            queue,
		portalBaseURL:    portalBaseURL,
	}
}

func (d *notificationDispatcher) Send(userID, eventType string, evt EventContext) (*models.Notification, error) {
	user, err := d.resolver.ResolveRecipient(userID)
	if err != nil {
		return nil, err
	}

	notification, err := d.buildNotification(user.ID, eventType, evt)
	if err != nil {
		return nil, err
	}

	if err := d.notificationRepo.CreateNotification(notification); err != nil {
		return nil, err
	}

	d.enqueueDelivery(notification, user.Email)
	return notification, nil
}

func (d *notificationDispatcher) Broadcast(eventType string, evt EventContext) error {
	staff, err := d.resolver.ResolveStaffRecipients()
	if err != nil {
		return err
	}
	return d.fanOut(staff, eventType, evt)
}

func (d *notificationDispatcher) NotifyCompany(companyID, eventType string, evt EventContext) error {
	users, err := d.resolver.ResolveCompanyRecipients(companyID)
	if err != nil {
		return err
	}
	return d.fanOut(users, eventType, evt)
}

// fanOut writes one independent notification row per recipient, then
// queues external delivery for each.
func (d *notificationDispatcher) fanOut(recipients []models.User, eventType string, evt EventContext) error {
	if len(recipients) == 0 {
		return nil
	}

	notifications := make([]*models.Notification, 0, len(recipients))
	for _, user := range recipients {
		notification, err := d.buildNotification(user.ID, eventType, evt)
		if err != nil {
			return err
		}
		notifications = append(notifications, notification)
	}

	if err := d.notificationRepo.CreateBulkNotifications(notifications); err != nil {
		return err
	}

	for i, notification := range notifications {
		d.enqueueDelivery(notification, recipients[i].Email)
	}
	return nil
}

func (d *notificationDispatcher) buildNotification(userID, eventType string, evt EventContext) (*models.Notification, error) {
	content, ok := ResolveContent(eventType, evt)
	if !ok {
		// Templates are total over the declared enumeration; an
		// unknown type is a programming error, not user input.
		return nil, fmt.Errorf("no content template for event type %q", eventType)
	}

	link := content.Link
	if link != "" && d.portalBaseURL != "" {
		link = d.portalBaseURL + link
	}

	return &models.Notification{
		UserID:     userID,
		Type:       eventType,
		Title:      content.Title,
		Message:    content.Message,
		Priority:   PriorityFor(eventType),
		Link:       link,
		EntityType: content.EntityType,
		EntityID:   content.EntityID,
	}, nil
}

func (d *notificationDispatcher) enqueueDelivery(notification *models.Notification, email string) {
	d.queue.Enqueue(workers.DeliveryTask{
		NotificationID: notification.ID,
		UserID:         notification.UserID,
		Email:          email,
		Title:          notification.Title,
		Message:        notification.Message,
		Link:           notification.Link,
	})
}
