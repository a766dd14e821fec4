// Package event holds the event domain model, validation, and the status
// lifecycle rules.
package event

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/louisbranch/eventdesk/internal/platform/errors"
)

// Status is the lifecycle state of an event.
type Status string

const (
	// StatusDraft is the initial state; drafts are never publicly visible.
	StatusDraft Status = "DRAFT"
	// StatusPublished marks an event as publicly visible.
	StatusPublished Status = "PUBLISHED"
	// StatusCancelled is terminal; cancelled events stay publicly visible.
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus converts a wire value into a Status.
func ParseStatus(value string) (Status, error) {
	switch Status(value) {
	case StatusDraft, StatusPublished, StatusCancelled:
		return Status(value), nil
	default:
		return "", fmt.Errorf("invalid status %q", value)
	}
}

// Valid reports whether the status is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusCancelled:
		return true
	default:
		return false
	}
}

// maxTitleLength bounds event titles.
const maxTitleLength = 200

// Event is the canonical private record.
type Event struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	StartAt       time.Time `json:"startAt"`
	EndAt         time.Time `json:"endAt"`
	Location      string    `json:"location"`
	Status        Status    `json:"status"`
	InternalNotes string    `json:"internalNotes,omitempty"`
	CreatedBy     string    `json:"createdBy,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// PublicEvent is the projection exposable without authentication.
// InternalNotes, CreatedBy, and UpdatedAt must never appear here.
type PublicEvent struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	StartAt    time.Time `json:"startAt"`
	EndAt      time.Time `json:"endAt"`
	Location   string    `json:"location"`
	Status     Status    `json:"status"`
	IsUpcoming bool      `json:"isUpcoming"`
}

// Public returns the public projection of the event, deriving IsUpcoming at
// projection time.
func (e Event) Public(now func() time.Time) PublicEvent {
	if now == nil {
		now = time.Now
	}
	return PublicEvent{
		ID:         e.ID,
		Title:      e.Title,
		StartAt:    e.StartAt,
		EndAt:      e.EndAt,
		Location:   e.Location,
		Status:     e.Status,
		IsUpcoming: e.StartAt.After(now()),
	}
}

// PubliclyVisible reports whether the event may be served on the public
// surface. Drafts are categorically unreachable there.
func (e Event) PubliclyVisible() bool {
	return e.Status == StatusPublished || e.Status == StatusCancelled
}

// CreateEventInput describes the fields needed to create an event.
type CreateEventInput struct {
	Title         string
	StartAt       time.Time
	EndAt         time.Time
	Location      string
	Status        Status
	InternalNotes string
	CreatedBy     string
}

// UpdateEventInput describes a partial update. Nil fields are left untouched.
type UpdateEventInput struct {
	Status        *Status
	InternalNotes *string
}

// NewEvent validates input and builds an event with a generated ID and a
// stamped UpdatedAt. Status defaults to DRAFT when unspecified; an explicit
// initial status bypasses transition checking entirely.
func NewEvent(input CreateEventInput, now func() time.Time, idGenerator func() (string, error)) (Event, error) {
	if now == nil {
		now = time.Now
	}

	if err := validateCreateEventInput(input, now); err != nil {
		return Event{}, err
	}

	eventID, err := idGenerator()
	if err != nil {
		return Event{}, fmt.Errorf("generate event id: %w", err)
	}

	status := input.Status
	if status == "" {
		status = StatusDraft
	}

	return Event{
		ID:            eventID,
		Title:         input.Title,
		StartAt:       input.StartAt.UTC(),
		EndAt:         input.EndAt.UTC(),
		Location:      input.Location,
		Status:        status,
		InternalNotes: input.InternalNotes,
		CreatedBy:     input.CreatedBy,
		UpdatedAt:     now().UTC(),
	}, nil
}

// validateCreateEventInput checks every field and reports all violations
// together, not just the first.
func validateCreateEventInput(input CreateEventInput, now func() time.Time) error {
	var violations []apperrors.FieldViolation

	titleLength := utf8.RuneCountInString(input.Title)
	if titleLength == 0 {
		violations = append(violations, apperrors.FieldViolation{Field: "title", Message: "Title cannot be empty"})
	} else if titleLength > maxTitleLength {
		violations = append(violations, apperrors.FieldViolation{Field: "title", Message: "Title cannot exceed 200 characters"})
	}

	switch {
	case input.StartAt.IsZero():
		violations = append(violations, apperrors.FieldViolation{Field: "startAt", Message: "Must be a valid ISO 8601 datetime"})
	case !input.StartAt.After(now()):
		violations = append(violations, apperrors.FieldViolation{Field: "startAt", Message: "Must be in the future"})
	}

	if input.EndAt.IsZero() {
		violations = append(violations, apperrors.FieldViolation{Field: "endAt", Message: "Must be a valid ISO 8601 datetime"})
	} else if !input.StartAt.IsZero() && !input.StartAt.Before(input.EndAt) {
		violations = append(violations, apperrors.FieldViolation{Field: "endAt", Message: "startAt must be before endAt"})
	}

	if strings.TrimSpace(input.Location) == "" {
		violations = append(violations, apperrors.FieldViolation{Field: "location", Message: "Location cannot be empty"})
	}

	if input.Status != "" && !input.Status.Valid() {
		violations = append(violations, apperrors.FieldViolation{Field: "status", Message: "Invalid status value"})
	}

	if input.CreatedBy != "" {
		if _, err := mail.ParseAddress(input.CreatedBy); err != nil {
			violations = append(violations, apperrors.FieldViolation{Field: "createdBy", Message: "Must be a valid email address"})
		}
	}

	if len(violations) > 0 {
		return apperrors.WithDetails(apperrors.CodeValidation, "Validation failed", violations)
	}
	return nil
}

// ApplyUpdate validates and applies a partial update, refreshing UpdatedAt.
// The transition check runs strictly before any field is applied.
func ApplyUpdate(current Event, patch UpdateEventInput, now func() time.Time) (Event, error) {
	if now == nil {
		now = time.Now
	}
	if patch.Status == nil && patch.InternalNotes == nil {
		return Event{}, apperrors.New(apperrors.CodeValidation, "At least one field must be provided")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return Event{}, apperrors.WithDetails(apperrors.CodeValidation, "Validation failed", []apperrors.FieldViolation{
			{Field: "status", Message: "Invalid status value"},
		})
	}

	if patch.Status != nil && *patch.Status != current.Status {
		if err := ValidateTransition(current.Status, *patch.Status); err != nil {
			return Event{}, err
		}
	}

	updated := current
	if patch.Status != nil {
		updated.Status = *patch.Status
	}
	if patch.InternalNotes != nil {
		updated.InternalNotes = *patch.InternalNotes
	}
	updated.UpdatedAt = now().UTC()
	return updated, nil
}
