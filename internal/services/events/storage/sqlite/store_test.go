package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/eventdesk/internal/services/events/domain/event"
	"github.com/louisbranch/eventdesk/internal/services/events/storage"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

func sampleEvent(id string, startAt time.Time) event.Event {
	return event.Event{
		ID:            id,
		Title:         "Event " + id,
		StartAt:       startAt,
		EndAt:         startAt.Add(2 * time.Hour),
		Location:      "Berlin",
		Status:        event.StatusDraft,
		InternalNotes: "bring badges",
		CreatedBy:     "ops@example.com",
		UpdatedAt:     startAt.Add(-24 * time.Hour),
	}
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestCreateGetEventRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	startAt := time.Date(2026, time.April, 15, 18, 30, 0, 0, time.UTC)
	input := sampleEvent("ev-1", startAt)
	if err := store.CreateEvent(context.Background(), input); err != nil {
		t.Fatalf("create event: %v", err)
	}

	got, err := store.GetEvent(context.Background(), "ev-1")
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if got.Title != input.Title {
		t.Fatalf("title = %q, want %q", got.Title, input.Title)
	}
	if !got.StartAt.Equal(input.StartAt) {
		t.Fatalf("start_at = %v, want %v", got.StartAt, input.StartAt)
	}
	if got.Status != event.StatusDraft {
		t.Fatalf("status = %q, want %q", got.Status, event.StatusDraft)
	}
	if got.InternalNotes != input.InternalNotes {
		t.Fatalf("internal_notes = %q, want %q", got.InternalNotes, input.InternalNotes)
	}
	if got.CreatedBy != input.CreatedBy {
		t.Fatalf("created_by = %q, want %q", got.CreatedBy, input.CreatedBy)
	}
}

func TestCreateEventReturnsAlreadyExistsOnDuplicate(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	startAt := time.Date(2026, time.April, 15, 18, 30, 0, 0, time.UTC)
	if err := store.CreateEvent(context.Background(), sampleEvent("ev-1", startAt)); err != nil {
		t.Fatalf("create event: %v", err)
	}
	err := store.CreateEvent(context.Background(), sampleEvent("ev-1", startAt))
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate create error = %v, want ErrAlreadyExists", err)
	}
}

func TestGetEventMissingReturnsNotFound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	_, err := store.GetEvent(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get missing error = %v, want ErrNotFound", err)
	}
}

func TestUpdateEventReplacesRecord(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	startAt := time.Date(2026, time.April, 15, 18, 30, 0, 0, time.UTC)
	original := sampleEvent("ev-1", startAt)
	if err := store.CreateEvent(context.Background(), original); err != nil {
		t.Fatalf("create event: %v", err)
	}

	updated := original
	updated.Status = event.StatusPublished
	updated.InternalNotes = ""
	updated.UpdatedAt = startAt
	if err := store.UpdateEvent(context.Background(), updated); err != nil {
		t.Fatalf("update event: %v", err)
	}

	got, err := store.GetEvent(context.Background(), "ev-1")
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if got.Status != event.StatusPublished {
		t.Fatalf("status = %q, want %q", got.Status, event.StatusPublished)
	}
	if got.InternalNotes != "" {
		t.Fatalf("internal_notes = %q, want cleared", got.InternalNotes)
	}
	if !got.UpdatedAt.Equal(startAt) {
		t.Fatalf("updated_at = %v, want %v", got.UpdatedAt, startAt)
	}
}

func TestUpdateEventMissingReturnsNotFound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	startAt := time.Date(2026, time.April, 15, 18, 30, 0, 0, time.UTC)
	err := store.UpdateEvent(context.Background(), sampleEvent("missing", startAt))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("update missing error = %v, want ErrNotFound", err)
	}
}

func TestListEventsPreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	base := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	// Insert out of chronological order; listing must follow insertion order.
	for _, id := range []string{"third", "first", "second"} {
		offset := map[string]time.Duration{"first": 0, "second": time.Hour, "third": 2 * time.Hour}[id]
		if err := store.CreateEvent(context.Background(), sampleEvent(id, base.Add(offset))); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	events, err := store.ListEvents(context.Background())
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	want := []string{"third", "first", "second"}
	if len(events) != len(want) {
		t.Fatalf("len = %d, want %d", len(events), len(want))
	}
	for i, id := range want {
		if events[i].ID != id {
			t.Fatalf("events[%d].ID = %q, want %q", i, events[i].ID, id)
		}
	}
}

func TestCountEvents(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	count, err := store.CountEvents(context.Background())
	if err != nil {
		t.Fatalf("count events: %v", err)
	}
	if count != 0 {
		t.Fatalf("count = %d, want 0", count)
	}

	startAt := time.Date(2026, time.April, 15, 18, 30, 0, 0, time.UTC)
	if err := store.CreateEvent(context.Background(), sampleEvent("ev-1", startAt)); err != nil {
		t.Fatalf("create event: %v", err)
	}
	count, err = store.CountEvents(context.Background())
	if err != nil {
		t.Fatalf("count events: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

func TestNilStoreGuards(t *testing.T) {
	t.Parallel()

	var store *Store
	if err := store.Close(); err != nil {
		t.Fatalf("nil close error = %v", err)
	}
	if err := store.CreateEvent(context.Background(), event.Event{ID: "x"}); err == nil {
		t.Fatal("nil store create returned nil error")
	}
	if _, err := store.ListEvents(context.Background()); err == nil {
		t.Fatal("nil store list returned nil error")
	}
}
