package service

import (
	"context"
	"encoding/json"
	"fmt"

	"quickpoll/core/constants"
	"quickpoll/core/errors"
	"quickpoll/core/logger"
	"quickpoll/modules/notification/entity"
	"quickpoll/modules/notification/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// PollNotifyPayload is the poll:notify task body. Recipients are participant
// identity keys resolved by the enqueuing side.
type PollNotifyPayload struct {
	PollID     uuid.UUID `json:"poll_id"`
	PollTitle  string    `json:"poll_title"`
	ActorName  string    `json:"actor_name"`
	Recipients []string  `json:"recipients"`
}

// NotificationService fans poll updates out to participant inboxes through
// background jobs. Delivery channels (email etc.) live outside this service;
// it only writes rows.
type NotificationService struct {
	repo   repository.NotificationRepositoryInterface
	client *asynq.Client
}

// NotificationServiceInterface defines the service contract
type NotificationServiceInterface interface {
	EnqueuePollUpdated(ctx context.Context, payload PollNotifyPayload)
	GetNotifications(ctx context.Context, recipient string) ([]entity.Notification, *errors.AppError)
	MarkAsRead(ctx context.Context, id uuid.UUID, recipient string) *errors.AppError
	HandlePollNotifyTask(ctx context.Context, task *asynq.Task) error
}

func NewNotificationService(repo repository.NotificationRepositoryInterface, client *asynq.Client) NotificationServiceInterface {
	return &NotificationService{
		repo:   repo,
		client: client,
	}
}

// EnqueuePollUpdated schedules a poll:notify task. Failures are logged, not
// returned: losing a notification must never fail the schedule write.
func (s *NotificationService) EnqueuePollUpdated(ctx context.Context, payload PollNotifyPayload) {
	if s.client == nil || len(payload.Recipients) == 0 {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error("NotificationService:EnqueuePollUpdated:Marshal", err)
		return
	}

	task := asynq.NewTask(constants.TaskPollNotify, body)
	if _, err := s.client.EnqueueContext(ctx, task, asynq.MaxRetry(3)); err != nil {
		logger.Error("NotificationService:EnqueuePollUpdated:Enqueue", "poll_id", payload.PollID, "error", err)
		return
	}
	logger.Info("NotificationService:EnqueuePollUpdated:Queued",
		"poll_id", payload.PollID, "recipients", len(payload.Recipients))
}

// HandlePollNotifyTask is the asynq worker handler for poll:notify.
func (s *NotificationService) HandlePollNotifyTask(ctx context.Context, task *asynq.Task) error {
	var payload PollNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("poll:notify: invalid payload: %w", err)
	}

	message := fmt.Sprintf("%s updated their availability in %q", payload.ActorName, payload.PollTitle)
	for _, recipient := range payload.Recipients {
		notification := &entity.Notification{
			PollID:    payload.PollID,
			Recipient: recipient,
			Message:   message,
		}
		if err := s.repo.CreateNotification(ctx, notification); err != nil {
			return fmt.Errorf("poll:notify: create notification for %s: %w", recipient, err)
		}
	}

	logger.Info("NotificationService:HandlePollNotifyTask:Done",
		"poll_id", payload.PollID, "recipients", len(payload.Recipients))
	return nil
}

func (s *NotificationService) GetNotifications(ctx context.Context, recipient string) ([]entity.Notification, *errors.AppError) {
	notifications, err := s.repo.GetNotificationsByRecipient(ctx, recipient)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get notifications", err)
	}
	return notifications, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID, recipient string) *errors.AppError {
	if err := s.repo.MarkAsRead(ctx, id, recipient); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to mark notification as read", err)
	}
	return nil
}
