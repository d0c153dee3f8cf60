package repository

import (
	"context"
	"strings"

	"quickpoll/core/database"
	"quickpoll/core/logger"
	"quickpoll/modules/notification/entity"

	"github.com/google/uuid"
)

// NotificationRepository handles notification database operations
type NotificationRepository struct {
	DB database.Database
}

func NewNotificationRepository(db database.Database) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

// NotificationRepositoryInterface defines the repository contract
type NotificationRepositoryInterface interface {
	CreateNotification(ctx context.Context, notification *entity.Notification) error
	GetNotificationsByRecipient(ctx context.Context, recipient string) ([]entity.Notification, error)
	MarkAsRead(ctx context.Context, id uuid.UUID, recipient string) error
}

func (r *NotificationRepository) CreateNotification(ctx context.Context, notification *entity.Notification) error {
	query := `
		INSERT INTO notifications (poll_id, recipient, message, is_read)
		VALUES ($1, $2, $3, FALSE)
	`

	err := r.DB.ExecContext(ctx, query,
		notification.PollID, strings.ToLower(notification.Recipient), notification.Message)
	if err != nil {
		logger.Error("NotificationRepository:CreateNotification", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) GetNotificationsByRecipient(ctx context.Context, recipient string) ([]entity.Notification, error) {
	query := `
		SELECT id, poll_id, recipient, message, is_read, created_at
		FROM notifications
		WHERE recipient = $1
		ORDER BY created_at DESC
	`

	var notifications []entity.Notification
	err := r.DB.SelectContext(ctx, &notifications, query, strings.ToLower(recipient))
	if err != nil {
		logger.Error("NotificationRepository:GetNotificationsByRecipient", err)
		return nil, err
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, id uuid.UUID, recipient string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND recipient = $2`

	err := r.DB.ExecContext(ctx, query, id, strings.ToLower(recipient))
	if err != nil {
		logger.Error("NotificationRepository:MarkAsRead", err)
		return err
	}
	return nil
}
