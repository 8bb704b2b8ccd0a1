package workers

import (
	"context"

	"itad_backend/internal/delivery"
	"itad_backend/internal/logger"
	"itad_backend/internal/repositories"
	"itad_backend/pkg/apperrors"
)

// DeliveryTask is one notification row awaiting best-effort external
// delivery. The row already exists in the database; whatever happens
// here cannot affect the workflow operation that produced it.
type DeliveryTask struct {
	NotificationID string
	UserID         string
	Email          string
	Title          string
	Message        string
	Link           string
}

// DeliveryWorker consumes delivery tasks from an in-process queue and
// forwards them to the external provider. Failures are logged and
// dropped: the contract is fire-and-forget, no synchronous retry.
type DeliveryWorker struct {
	provider         delivery.Provider
	notificationRepo repositories.NotificationRepository
	tasks            chan DeliveryTask
}

func NewDeliveryWorker(provider delivery.Provider, notificationRepo repositories.NotificationRepository, buffer int) *DeliveryWorker {
	if buffer <= 0 {
		buffer = 256
	}
	return &DeliveryWorker{
		provider:         provider,
		notificationRepo: notificationRepo,
		tasks:            make(chan DeliveryTask, buffer),
	}
}

// Enqueue hands a task to the worker without blocking the caller.
// When the queue is full the task is dropped: the in-app notification
// row is already durable and external delivery is best-effort.
func (w *DeliveryWorker) Enqueue(task DeliveryTask) {
	select {
	case w.tasks <- task:
	default:
		logger.Warn("delivery queue full, dropping external delivery",
			"notification_id", task.NotificationID)
	}
}

// Start runs the consumer loop until the context is cancelled.
func (w *DeliveryWorker) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Info("Delivery worker stopped")
				return
			case task := <-w.tasks:
				w.process(task)
			}
		}
	}()
}

func (w *DeliveryWorker) process(task DeliveryTask) {
	if task.Email != "" {
		err := w.provider.SendEmail(&delivery.EmailMessage{
			To:      []string{task.Email},
			Subject: task.Title,
			Body:    task.Message,
			Link:    task.Link,
		})
		if err != nil {
			logger.WithError(apperrors.ErrDeliveryFailure(err, "email")).Warn(
				"email delivery failed", "notification_id", task.NotificationID)
		} else if err := w.notificationRepo.MarkEmailSent(task.NotificationID); err != nil {
			logger.WithError(err).Warn("failed to record email delivery",
				"notification_id", task.NotificationID)
		}
	}

	err := w.provider.SendPush(&delivery.PushMessage{
		UserIDs: []string{task.UserID},
		Title:   task.Title,
		Message: task.Message,
		Link:    task.Link,
	})
	if err != nil {
		logger.WithError(apperrors.ErrDeliveryFailure(err, "push")).Warn(
			"push delivery failed", "notification_id", task.NotificationID)
		return
	}
	if err := w.notificationRepo.MarkPushSent(task.NotificationID); err != nil {
		logger.WithError(err).Warn("failed to record push delivery",
			"notification_id", task.NotificationID)
	}
}
