package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"quickpoll/core/errors"
	"quickpoll/core/logger"
	availentity "quickpoll/modules/availability/entity"
	availsvc "quickpoll/modules/availability/service"
	"quickpoll/modules/calendar/dto"
	"quickpoll/modules/calendar/entity"
	"quickpoll/modules/calendar/repository"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const googleFreeBusyAPI = "https://www.googleapis.com/calendar/v3/freeBusy"

// BusySource supplies external busy time for an owner within a month window.
// The booking page subtracts it from the owner's published availability.
type BusySource interface {
	BusyIntervals(ctx context.Context, userID uuid.UUID, window availentity.MonthWindow) ([]availentity.Interval, *errors.AppError)
}

// CalendarService manages provider connections and fetches busy time from
// Google Calendar's freeBusy endpoint.
type CalendarService struct {
	repo       repository.CalendarRepositoryInterface
	oauth      *oauth2.Config
	httpClient *http.Client
}

// CalendarServiceInterface defines the service contract
type CalendarServiceInterface interface {
	BusySource
	SaveGoogleConnection(ctx context.Context, userID uuid.UUID, req *dto.ConnectGoogleRequest) (*dto.ConnectionResponse, *errors.AppError)
	GetConnections(ctx context.Context, userID uuid.UUID) ([]dto.ConnectionResponse, *errors.AppError)
	DisconnectCalendar(ctx context.Context, userID uuid.UUID, provider string) *errors.AppError
}

func NewCalendarService(repo repository.CalendarRepositoryInterface, oauth *oauth2.Config) CalendarServiceInterface {
	return &CalendarService{
		repo:       repo,
		oauth:      oauth,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SaveGoogleConnection stores or refreshes a Google Calendar connection.
func (s *CalendarService) SaveGoogleConnection(ctx context.Context, userID uuid.UUID, req *dto.ConnectGoogleRequest) (*dto.ConnectionResponse, *errors.AppError) {
	existing, err := s.repo.GetConnectionByUserAndProvider(ctx, userID, entity.ProviderGoogle)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to look up calendar connection", err)
	}

	expiresAt := req.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(time.Hour)
	}

	if existing != nil {
		existing.AccessToken = req.AccessToken
		existing.RefreshToken = req.RefreshToken
		existing.TokenExpiresAt = expiresAt
		existing.CalendarEmail = req.CalendarEmail
		existing.IsActive = true
		if err := s.repo.UpdateConnection(ctx, existing); err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update calendar connection", err)
		}
		resp := toConnectionResponse(existing)
		return &resp, nil
	}

	created, err := s.repo.CreateConnection(ctx, &entity.CalendarConnection{
		UserID:         userID,
		Provider:       entity.ProviderGoogle,
		AccessToken:    req.AccessToken,
		RefreshToken:   req.RefreshToken,
		TokenExpiresAt: expiresAt,
		CalendarEmail:  req.CalendarEmail,
		IsActive:       true,
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to save calendar connection", err)
	}

	logger.Info("CalendarService:SaveGoogleConnection:Success", "user_id", userID, "email", req.CalendarEmail)
	resp := toConnectionResponse(created)
	return &resp, nil
}

func (s *CalendarService) GetConnections(ctx context.Context, userID uuid.UUID) ([]dto.ConnectionResponse, *errors.AppError) {
	connections, err := s.repo.GetConnectionsByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get calendar connections", err)
	}

	result := make([]dto.ConnectionResponse, 0, len(connections))
	for i := range connections {
		result = append(result, toConnectionResponse(&connections[i]))
	}
	return result, nil
}

func (s *CalendarService) DisconnectCalendar(ctx context.Context, userID uuid.UUID, provider string) *errors.AppError {
	if err := s.repo.DeleteConnection(ctx, userID, provider); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to disconnect calendar", err)
	}
	return nil
}

// BusyIntervals fetches the owner's busy time for the window. An owner with no
// active connection is simply never busy; provider outages degrade the same
// way rather than blocking the booking page.
func (s *CalendarService) BusyIntervals(ctx context.Context, userID uuid.UUID, window availentity.MonthWindow) ([]availentity.Interval, *errors.AppError) {
	conn, err := s.repo.GetConnectionByUserAndProvider(ctx, userID, entity.ProviderGoogle)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to look up calendar connection", err)
	}
	if conn == nil {
		return nil, nil
	}

	accessToken, appErr := s.ensureValidToken(ctx, conn)
	if appErr != nil {
		logger.Warn("CalendarService:BusyIntervals:TokenRefreshFailed", "user_id", userID, "error", appErr)
		return nil, nil
	}

	busy, err := s.callFreeBusy(ctx, accessToken, conn.CalendarEmail, window.Start, window.End)
	if err != nil {
		logger.Warn("CalendarService:BusyIntervals:FreeBusyFailed", "user_id", userID, "error", err)
		return nil, nil
	}

	bounds := []availentity.Interval{{Start: window.Start, End: window.End}}
	return availsvc.ClipToBounds(busy, bounds), nil
}

// ensureValidToken returns a usable access token, refreshing through the
// oauth2 token source when the stored one is within 5 minutes of expiry.
func (s *CalendarService) ensureValidToken(ctx context.Context, conn *entity.CalendarConnection) (string, *errors.AppError) {
	if time.Now().Before(conn.TokenExpiresAt.Add(-5 * time.Minute)) {
		return conn.AccessToken, nil
	}

	if s.oauth == nil {
		return "", errors.NewAppError(errors.ErrConfiguration, "Google OAuth is not configured", nil)
	}

	logger.Info("CalendarService:ensureValidToken:Refreshing", "user_id", conn.UserID)

	stale := &oauth2.Token{
		AccessToken:  conn.AccessToken,
		RefreshToken: conn.RefreshToken,
		Expiry:       conn.TokenExpiresAt,
	}
	fresh, err := s.oauth.TokenSource(ctx, stale).Token()
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "Failed to refresh Google token", err)
	}

	conn.AccessToken = fresh.AccessToken
	if fresh.RefreshToken != "" {
		conn.RefreshToken = fresh.RefreshToken
	}
	conn.TokenExpiresAt = fresh.Expiry
	if err := s.repo.UpdateConnection(ctx, conn); err != nil {
		logger.Error("CalendarService:ensureValidToken:Persist", "user_id", conn.UserID, "error", err)
	}

	return fresh.AccessToken, nil
}

func (s *CalendarService) callFreeBusy(ctx context.Context, accessToken, email string, start, end time.Time) ([]availentity.Interval, error) {
	payload := map[string]any{
		"timeMin": start.Format(time.RFC3339),
		"timeMax": end.Format(time.RFC3339),
		"items":   []map[string]string{{"id": email}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, googleFreeBusyAPI, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("google freeBusy API status %d: %s", resp.StatusCode, string(raw))
	}

	var result struct {
		Calendars map[string]struct {
			Busy []struct {
				Start string `json:"start"`
				End   string `json:"end"`
			} `json:"busy"`
		} `json:"calendars"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	var intervals []availentity.Interval
	if cal, ok := result.Calendars[email]; ok {
		for _, b := range cal.Busy {
			bStart, err1 := time.Parse(time.RFC3339, b.Start)
			bEnd, err2 := time.Parse(time.RFC3339, b.End)
			if err1 != nil || err2 != nil {
				continue
			}
			intervals = append(intervals, availentity.Interval{Start: bStart, End: bEnd})
		}
	}
	return availsvc.MergeIntervals(intervals), nil
}

func toConnectionResponse(conn *entity.CalendarConnection) dto.ConnectionResponse {
	return dto.ConnectionResponse{
		ID:            conn.ID.String(),
		Provider:      conn.Provider,
		CalendarEmail: conn.CalendarEmail,
		IsActive:      conn.IsActive,
		ConnectedAt:   conn.CreatedAt.Format(time.RFC3339),
	}
}
