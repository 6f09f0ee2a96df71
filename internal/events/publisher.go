// Package events publishes domain events to NATS so downstream consumers
// (notification fan-out, analytics) can react without coupling into the
// request path. Publishing is fire-and-forget: a broker outage never fails
// the triggering operation.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Event subjects, relative to the configured prefix.
const (
	SubjectEnrollmentCreated = "enrollment.created"
	SubjectCourseArchived    = "course.archived"
	SubjectSubmissionGraded  = "submission.graded"
)

// Event is the JSON envelope placed on the bus.
type Event struct {
	Subject    string                 `json:"subject"`
	EntityID   uint                   `json:"entity_id"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
}

// Publisher emits domain events. A nil *NATSPublisher is a valid no-op.
type Publisher interface {
	Publish(ctx context.Context, subject string, entityID uint, payload map[string]interface{})
}

// NATSPublisher publishes events onto a NATS connection.
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
	logger zerolog.Logger
	now    func() time.Time
}

// NewNATSPublisher wraps an established NATS connection.
func NewNATSPublisher(conn *nats.Conn, prefix string, logger zerolog.Logger) *NATSPublisher {
	return &NATSPublisher{
		conn:   conn,
		prefix: prefix,
		logger: logger.With().Str("component", "event_publisher").Logger(),
		now:    time.Now,
	}
}

// Publish serializes and emits the event. Errors are logged and swallowed.
func (p *NATSPublisher) Publish(_ context.Context, subject string, entityID uint, payload map[string]interface{}) {
	if p == nil || p.conn == nil {
		return
	}

	event := Event{
		Subject:    subject,
		EntityID:   entityID,
		OccurredAt: p.now().UTC(),
		Payload:    payload,
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Str("subject", subject).Msg("failed to marshal event")
		return
	}

	full := subject
	if p.prefix != "" {
		full = p.prefix + "." + subject
	}

	if err := p.conn.Publish(full, data); err != nil {
		p.logger.Warn().Err(err).Str("subject", full).Msg("failed to publish event")
	}
}
