package event

import (
	"context"
	"log/slog"
	"time"
)

type ApplicationPayload struct {
	ApplicationID string    `json:"applicationId"`
	ApplicantID   string    `json:"applicantId"`
	Email         string    `json:"email"`
	LoanAmount    float64   `json:"loanAmount"`
	TenureMonths  int       `json:"tenureMonths"`
	MaxLoanLimit  int64     `json:"maxLoanLimit"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

type ApplicationSubmittedEvent struct {
	Timestamp time.Time          `json:"timestamp"`
	Payload   ApplicationPayload `json:"payload"`
}

type ApplicationStatusChangedEvent struct {
	ApplicationID string    `json:"applicationId"`
	OldStatus     string    `json:"oldStatus"`
	NewStatus     string    `json:"newStatus"`
	ChangedBy     string    `json:"changedBy"`
	Notes         string    `json:"notes,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// LogPublisher is used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "LogPublisher")}
}

func (p *LogPublisher) PublishApplicationSubmitted(ctx context.Context, event ApplicationSubmittedEvent) error {
	p.logger.DebugContext(ctx, "Application submitted", "routingKey", routingKeyApplicationSubmitted, "applicationId", event.Payload.ApplicationID)
	return nil
}

func (p *LogPublisher) PublishApplicationStatusChanged(ctx context.Context, event ApplicationStatusChangedEvent) error {
	p.logger.DebugContext(ctx, "Application status changed", "routingKey", routingKeyApplicationStatusChanged,
		"applicationId", event.ApplicationID, "oldStatus", event.OldStatus, "newStatus", event.NewStatus)
	return nil
}

var _ EventPublisher = (*LogPublisher)(nil)
