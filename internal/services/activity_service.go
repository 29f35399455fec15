package services

import (
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/mlutsenko/brewbook-be/internal/models"
	"github.com/rs/zerolog/log"
)

// Broadcaster is the sink for live feed notifications. The websocket hub
// implements it; tests substitute a no-op.
type Broadcaster interface {
	BroadcastActivity(payload []byte)
}

// ActivityServiceProvider defines the interface for the community feed log.
type ActivityServiceProvider interface {
	Record(activityType, level, message string, subjectID *string)
	Recent(limit int) ([]models.Activity, error)
}

// ActivityService appends entries to the feed log and pushes them to
// connected live-feed clients.
type ActivityService struct {
	db  *sql.DB
	hub Broadcaster
}

// NewActivityService creates a new ActivityService. hub may be nil when no
// live feed is attached.
func NewActivityService(db *sql.DB, hub Broadcaster) *ActivityService {
	return &ActivityService{db: db, hub: hub}
}

// Record logs a new activity entry and broadcasts it. Feed logging is
// best-effort: a failure here must never fail the mutation that triggered it,
// so Record returns nothing.
func (s *ActivityService) Record(activityType, level, message string, subjectID *string) {
	activity := models.Activity{
		ID:        uuid.New().String(),
		Type:      activityType,
		Level:     level,
		Message:   message,
		SubjectID: subjectID,
	}

	_, err := s.db.Exec(
		"INSERT INTO activities (id, type, level, message, subject_id) VALUES (?, ?, ?, ?, ?)",
		activity.ID, activity.Type, activity.Level, activity.Message, activity.SubjectID,
	)
	if err != nil {
		log.Warn().Err(err).Str("type", activity.Type).Msg("Failed to record activity")
		return
	}

	if s.hub != nil {
		if payload, err := json.Marshal(activity); err == nil {
			s.hub.BroadcastActivity(payload)
		}
	}
}

// Recent retrieves the most recent activity entries.
func (s *ActivityService) Recent(limit int) ([]models.Activity, error) {
	rows, err := s.db.Query(
		"SELECT id, type, level, message, subject_id, created_at FROM activities ORDER BY created_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var activity models.Activity
		if err := rows.Scan(&activity.ID, &activity.Type, &activity.Level, &activity.Message, &activity.SubjectID, &activity.CreatedAt); err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}
