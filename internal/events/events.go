package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	eventSource  = "lms-service"
	eventVersion = "1.0"
)

// Event is the envelope published to the message broker for downstream
// consumers (notification workers, audit, analytics).
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Event types emitted by the service.
const (
	EventUserRegistered    = "account.user_registered"
	EventRoleChanged       = "account.role_changed"
	EventRoleSyncPending   = "account.role_sync_pending"
	EventCourseCreated     = "course.created"
	EventStudentEnrolled   = "course.student_enrolled"
	EventStudentUnenrolled = "course.student_unenrolled"
	EventHomeworkCreated   = "homework.created"
	EventSubmissionCreated = "homework.submission_created"
	EventSubmissionGraded  = "homework.submission_graded"
	EventNotificationSent  = "course.notification_sent"
)

// NewEvent builds an envelope with identity and timing filled in.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    eventSource,
		Version:   eventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher publishes envelopes to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}
