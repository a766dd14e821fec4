package query

import (
	"fmt"
	"testing"
	"time"

	"github.com/louisbranch/eventdesk/internal/services/events/domain/event"
)

func makeEvent(id, location string, status event.Status, startAt time.Time) event.Event {
	return event.Event{
		ID:       id,
		Title:    "Event " + id,
		StartAt:  startAt,
		EndAt:    startAt.Add(2 * time.Hour),
		Location: location,
		Status:   status,
	}
}

func TestRunFiltersByLocationSubstring(t *testing.T) {
	t.Parallel()

	snapshot := []event.Event{
		makeEvent("e1", "New York", event.StatusPublished, time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC)),
		makeEvent("e2", "New York", event.StatusPublished, time.Date(2026, 4, 2, 18, 0, 0, 0, time.UTC)),
		makeEvent("e3", "Los Angeles", event.StatusPublished, time.Date(2026, 4, 3, 18, 0, 0, 0, time.UTC)),
	}
	page := Run(snapshot, Params{Locations: []string{"New York"}})
	if page.Pagination.Total != 2 {
		t.Fatalf("total = %d, want 2", page.Pagination.Total)
	}
	for _, ev := range page.Events {
		if ev.Location != "New York" {
			t.Fatalf("unexpected location %q", ev.Location)
		}
	}
}

func TestRunLocationFilterIsCaseInsensitiveOr(t *testing.T) {
	t.Parallel()

	snapshot := []event.Event{
		makeEvent("e1", "Downtown Chicago", event.StatusPublished, time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC)),
		makeEvent("e2", "Boston", event.StatusPublished, time.Date(2026, 4, 2, 18, 0, 0, 0, time.UTC)),
		makeEvent("e3", "Seattle", event.StatusPublished, time.Date(2026, 4, 3, 18, 0, 0, 0, time.UTC)),
	}
	page := Run(snapshot, Params{Locations: []string{"chicago", "BOSTON"}})
	if page.Pagination.Total != 2 {
		t.Fatalf("total = %d, want 2", page.Pagination.Total)
	}
}

func TestRunFiltersByStatusSet(t *testing.T) {
	t.Parallel()

	snapshot := []event.Event{
		makeEvent("e1", "NY", event.StatusDraft, time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC)),
		makeEvent("e2", "NY", event.StatusPublished, time.Date(2026, 4, 2, 18, 0, 0, 0, time.UTC)),
		makeEvent("e3", "NY", event.StatusCancelled, time.Date(2026, 4, 3, 18, 0, 0, 0, time.UTC)),
	}
	page := Run(snapshot, Params{Statuses: []event.Status{event.StatusPublished, event.StatusCancelled}})
	if page.Pagination.Total != 2 {
		t.Fatalf("total = %d, want 2", page.Pagination.Total)
	}
	for _, ev := range page.Events {
		if ev.Status == event.StatusDraft {
			t.Fatal("draft event leaked through status filter")
		}
	}
}

func TestRunDateBoundsAreInclusiveCalendarDays(t *testing.T) {
	t.Parallel()

	snapshot := []event.Event{
		makeEvent("early", "NY", event.StatusPublished, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)),
		makeEvent("late", "NY", event.StatusPublished, time.Date(2026, 4, 2, 23, 59, 59, 999000000, time.UTC)),
		makeEvent("before", "NY", event.StatusPublished, time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)),
		makeEvent("after", "NY", event.StatusPublished, time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC)),
	}
	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

	page := Run(snapshot, Params{DateFrom: from, DateTo: to})
	if page.Pagination.Total != 2 {
		t.Fatalf("total = %d, want 2 (got %+v)", page.Pagination.Total, ids(page.Events))
	}

	// Each bound applies independently.
	onlyFrom := Run(snapshot, Params{DateFrom: from})
	if onlyFrom.Pagination.Total != 3 {
		t.Fatalf("from-only total = %d, want 3", onlyFrom.Pagination.Total)
	}
	onlyTo := Run(snapshot, Params{DateTo: to})
	if onlyTo.Pagination.Total != 3 {
		t.Fatalf("to-only total = %d, want 3", onlyTo.Pagination.Total)
	}
}

func TestRunSortsByStartAtDescendingWithStableTies(t *testing.T) {
	t.Parallel()

	sameStart := time.Date(2026, 4, 5, 10, 0, 0, 0, time.UTC)
	snapshot := []event.Event{
		makeEvent("older", "NY", event.StatusPublished, time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)),
		makeEvent("tie-first", "NY", event.StatusPublished, sameStart),
		makeEvent("tie-second", "NY", event.StatusPublished, sameStart),
		makeEvent("newest", "NY", event.StatusPublished, time.Date(2026, 4, 9, 10, 0, 0, 0, time.UTC)),
	}
	page := Run(snapshot, Params{})
	want := []string{"newest", "tie-first", "tie-second", "older"}
	got := ids(page.Events)
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestRunPaginatesAndClampsLimit(t *testing.T) {
	t.Parallel()

	snapshot := make([]event.Event, 0, 150)
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	for i := range 150 {
		snapshot = append(snapshot, makeEvent(
			fmt.Sprintf("ev-%03d", i),
			"NY", event.StatusPublished, base.Add(time.Duration(i)*time.Hour)))
	}

	page := Run(snapshot, Params{Page: 1, Limit: 200})
	if page.Pagination.Limit != MaxLimit {
		t.Fatalf("limit = %d, want clamped to %d", page.Pagination.Limit, MaxLimit)
	}
	if len(page.Events) != 100 {
		t.Fatalf("events len = %d, want 100", len(page.Events))
	}
	if page.Pagination.Total != 150 {
		t.Fatalf("total = %d, want 150", page.Pagination.Total)
	}
	if page.Pagination.TotalPages != 2 {
		t.Fatalf("totalPages = %d, want 2", page.Pagination.TotalPages)
	}

	second := Run(snapshot, Params{Page: 2, Limit: 200})
	if len(second.Events) != 50 {
		t.Fatalf("second page len = %d, want 50", len(second.Events))
	}
}

func TestRunOutOfRangePageIsEmpty(t *testing.T) {
	t.Parallel()

	snapshot := []event.Event{
		makeEvent("e1", "NY", event.StatusPublished, time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC)),
	}
	page := Run(snapshot, Params{Page: 9})
	if len(page.Events) != 0 {
		t.Fatalf("events len = %d, want 0", len(page.Events))
	}
	if page.Pagination.Total != 1 {
		t.Fatalf("total = %d, want 1", page.Pagination.Total)
	}
}

func TestRunDefaults(t *testing.T) {
	t.Parallel()

	page := Run(nil, Params{})
	if page.Pagination.Page != 1 {
		t.Fatalf("page = %d, want 1", page.Pagination.Page)
	}
	if page.Pagination.Limit != DefaultLimit {
		t.Fatalf("limit = %d, want %d", page.Pagination.Limit, DefaultLimit)
	}
	if page.Pagination.TotalPages != 0 {
		t.Fatalf("totalPages = %d, want 0", page.Pagination.TotalPages)
	}
}

func ids(events []event.Event) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.ID)
	}
	return out
}
