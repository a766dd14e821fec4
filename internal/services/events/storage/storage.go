// Package storage defines the event persistence contract.
package storage

import (
	"context"
	"errors"

	"github.com/louisbranch/eventdesk/internal/services/events/domain/event"
)

// ErrNotFound reports that no event exists for the given id.
var ErrNotFound = errors.New("event not found")

// ErrAlreadyExists reports an insert with an id that is already present.
var ErrAlreadyExists = errors.New("event already exists")

// EventStore persists event records. List returns the full snapshot in
// insertion order; filtering and pagination happen above the store.
type EventStore interface {
	CreateEvent(ctx context.Context, ev event.Event) error
	UpdateEvent(ctx context.Context, ev event.Event) error
	GetEvent(ctx context.Context, id string) (event.Event, error)
	ListEvents(ctx context.Context) ([]event.Event, error)
	CountEvents(ctx context.Context) (int, error)
	Close() error
}
