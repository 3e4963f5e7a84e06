// Package audit records authentication and deletion events so account
// owners can review what happened to their data.
package audit

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/bookly/internal/entities"
)

// Store persists and queries audit events.
type Store interface {
	LogEvent(ctx context.Context, event *entities.AuditEvent) error
	GetEvents(ctx context.Context, username string, limit, offset int) ([]entities.AuditEvent, int64, error)
	DeleteOldEvents(ctx context.Context, olderThan time.Time) (int64, error)
}

// Service provides high-level audit logging functionality. Recording never
// fails the request that triggered it; store errors are logged instead.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = s.now()
	}
	if err := s.store.LogEvent(ctx, event); err != nil {
		log.Error().Err(err).
			Str("username", event.Username).
			Str("action", event.Action).
			Msg("failed to log audit event")
	}
}

// LogAuth records a login or registration attempt.
func (s *Service) LogAuth(ctx context.Context, username, action, ipAddr, userAgent string, success bool) {
	event := &entities.AuditEvent{
		Username:  truncate(username, 64),
		EventType: entities.AuditEventAuth,
		Action:    action,
		IPAddress: ipAddr,
		UserAgent: truncate(userAgent, 500),
		Status:    entities.AuditStatusSuccess,
	}
	if !success {
		event.Status = entities.AuditStatusFailed
	}
	s.Log(ctx, event)
}

// LogDelete records the removal of a user, list, or review.
func (s *Service) LogDelete(ctx context.Context, username, entityType, entityID, entityName string) {
	s.Log(ctx, &entities.AuditEvent{
		Username:    username,
		EventType:   entities.AuditEventDelete,
		Action:      entityType + "_delete",
		Description: truncate("Deleted "+entityType+": "+entityName, 500),
		EntityType:  entityType,
		EntityID:    entityID,
		Status:      entities.AuditStatusSuccess,
	})
}

// GetEvents retrieves a page of username's events, most recent first.
func (s *Service) GetEvents(ctx context.Context, username string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.store.GetEvents(ctx, username, limit, offset)
}

// DeleteOldEvents removes events older than retention.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	return s.store.DeleteOldEvents(ctx, s.now().Add(-retention))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
