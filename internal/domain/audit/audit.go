package audit

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultActor = "system"
	InitialNotes = "Initial application submission"
)

// Entry is one immutable status transition of a loan application.
type Entry struct {
	ID              uuid.UUID `json:"id"`
	ApplicationID   uuid.UUID `json:"applicationId"`
	StatusChangedTo string    `json:"statusChangedTo"`
	ChangedBy       string    `json:"changedBy"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"timestamp"`
}

func NewEntry(applicationID uuid.UUID, status, actor, notes string) *Entry {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		actor = DefaultActor
	}
	return &Entry{
		ID:              uuid.New(),
		ApplicationID:   applicationID,
		StatusChangedTo: status,
		ChangedBy:       actor,
		Notes:           strings.TrimSpace(notes),
		CreatedAt:       time.Now().UTC(),
	}
}
