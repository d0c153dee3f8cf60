package repository

import (
	"context"
	"database/sql"

	"quickpoll/core/database"
	"quickpoll/core/logger"
	"quickpoll/modules/calendar/entity"

	"github.com/google/uuid"
)

// CalendarRepository handles calendar connection database operations
type CalendarRepository struct {
	DB database.Database
}

func NewCalendarRepository(db database.Database) *CalendarRepository {
	return &CalendarRepository{DB: db}
}

// CalendarRepositoryInterface defines the repository contract
type CalendarRepositoryInterface interface {
	CreateConnection(ctx context.Context, conn *entity.CalendarConnection) (*entity.CalendarConnection, error)
	GetConnectionByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (*entity.CalendarConnection, error)
	GetConnectionsByUserID(ctx context.Context, userID uuid.UUID) ([]entity.CalendarConnection, error)
	UpdateConnection(ctx context.Context, conn *entity.CalendarConnection) error
	DeleteConnection(ctx context.Context, userID uuid.UUID, provider string) error
}

func (r *CalendarRepository) CreateConnection(ctx context.Context, conn *entity.CalendarConnection) (*entity.CalendarConnection, error) {
	query := `
		INSERT INTO calendar_connections (user_id, provider, access_token, refresh_token, token_expires_at, calendar_email, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, provider, access_token, refresh_token, token_expires_at, calendar_email, is_active, created_at, updated_at
	`

	var created entity.CalendarConnection
	err := r.DB.GetContext(ctx, &created, query,
		conn.UserID, conn.Provider, conn.AccessToken, conn.RefreshToken,
		conn.TokenExpiresAt, conn.CalendarEmail, conn.IsActive)
	if err != nil {
		logger.Error("CalendarRepository:CreateConnection", err)
		return nil, err
	}
	return &created, nil
}

func (r *CalendarRepository) GetConnectionByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (*entity.CalendarConnection, error) {
	query := `
		SELECT id, user_id, provider, access_token, refresh_token, token_expires_at, calendar_email, is_active, created_at, updated_at
		FROM calendar_connections
		WHERE user_id = $1 AND provider = $2 AND is_active = true
	`

	var conn entity.CalendarConnection
	err := r.DB.GetContext(ctx, &conn, query, userID, provider)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CalendarRepository:GetConnectionByUserAndProvider", err)
		return nil, err
	}
	return &conn, nil
}

func (r *CalendarRepository) GetConnectionsByUserID(ctx context.Context, userID uuid.UUID) ([]entity.CalendarConnection, error) {
	query := `
		SELECT id, user_id, provider, access_token, refresh_token, token_expires_at, calendar_email, is_active, created_at, updated_at
		FROM calendar_connections
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	var connections []entity.CalendarConnection
	err := r.DB.SelectContext(ctx, &connections, query, userID)
	if err != nil {
		logger.Error("CalendarRepository:GetConnectionsByUserID", err)
		return nil, err
	}
	return connections, nil
}

func (r *CalendarRepository) UpdateConnection(ctx context.Context, conn *entity.CalendarConnection) error {
	query := `
		UPDATE calendar_connections
		SET access_token = $2, refresh_token = $3, token_expires_at = $4, calendar_email = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query,
		conn.ID, conn.AccessToken, conn.RefreshToken, conn.TokenExpiresAt, conn.CalendarEmail, conn.IsActive)
	if err != nil {
		logger.Error("CalendarRepository:UpdateConnection", err)
		return err
	}
	return nil
}

func (r *CalendarRepository) DeleteConnection(ctx context.Context, userID uuid.UUID, provider string) error {
	err := r.DB.ExecContext(ctx,
		`DELETE FROM calendar_connections WHERE user_id = $1 AND provider = $2`, userID, provider)
	if err != nil {
		logger.Error("CalendarRepository:DeleteConnection", err)
		return err
	}
	return nil
}
