package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fittrack/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// recentFeedLimit caps the recent-activity feed at the ten newest entries.
const recentFeedLimit = 10

// EventPublisher sends an encoded activity event to the message broker.
type EventPublisher interface {
	PublishActivity(ctx context.Context, body []byte) error
}

// ActivityEvent is the queue message for one ledger append.
type ActivityEvent struct {
	EventID    string                  `json:"event_id"`
	UserID     uint                    `json:"user_id"`
	Category   models.ActivityCategory `json:"category"`
	Action     string                  `json:"action"`
	Details    string                  `json:"details,omitempty"`
	OccurredAt time.Time               `json:"occurred_at"`
}

// ActivityService owns the append-only per-user activity ledger. Appends go
// through the broker when one is configured and fall back to a direct insert
// when publishing fails, so an entry is written at least once either way.
type ActivityService struct {
	db  *gorm.DB
	pub EventPublisher
	hub *RealtimeHub
}

func NewActivityService(db *gorm.DB, pub EventPublisher, hub *RealtimeHub) *ActivityService {
	return &ActivityService{db: db, pub: pub, hub: hub}
}

// Record appends one ledger entry for the user.
func (s *ActivityService) Record(ctx context.Context, userID uint, category models.ActivityCategory, action, details string) error {
	if userID == 0 {
		return fmt.Errorf("invalid user id")
	}
	if !models.ValidCategory(category) {
		return fmt.Errorf("invalid activity category %q", category)
	}
	if action == "" {
		return fmt.Errorf("activity action required")
	}

	event := &ActivityEvent{
		EventID:    uuid.NewString(),
		UserID:     userID,
		Category:   category,
		Action:     action,
		Details:    details,
		OccurredAt: time.Now(),
	}

	if s.pub != nil {
		body, err := json.Marshal(event)
		if err != nil {
			return err
		}
		if err := s.pub.PublishActivity(ctx, body); err == nil {
			s.broadcast(event)
			return nil
		} else {
			log.Warn().Err(err).Msg("activity publish failed, applying directly")
		}
	}

	if err := s.Apply(ctx, event); err != nil {
		return err
	}
	s.broadcast(event)
	return nil
}

// Apply inserts one event into the ledger. Redeliveries of the same event id
// are ignored, so the consumer side stays idempotent.
func (s *ActivityService) Apply(ctx context.Context, event *ActivityEvent) error {
	if event == nil || event.UserID == 0 {
		return nil
	}
	if !models.ValidCategory(event.Category) {
		return nil
	}
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	entry := models.Activity{
		UserID:    event.UserID,
		EventID:   event.EventID,
		Category:  event.Category,
		Action:    event.Action,
		Details:   event.Details,
		Timestamp: event.OccurredAt,
	}
	err := s.db.WithContext(ctx).Create(&entry).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

func (s *ActivityService) broadcast(event *ActivityEvent) {
	if s.hub != nil {
		s.hub.Broadcast(event.UserID, "activity.created", event)
	}
}

// Recent returns the user's newest ledger entries, newest first, capped at
// ten.
func (s *ActivityService) Recent(ctx context.Context, userID uint) ([]models.Activity, error) {
	var entries []models.Activity
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(recentFeedLimit).
		Find(&entries).Error
	return entries, err
}

// ClearAll deletes every ledger entry for the user and returns how many
// were removed.
func (s *ActivityService) ClearAll(ctx context.Context, userID uint) (int64, error) {
	res := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Activity{})
	return res.RowsAffected, res.Error
}
