// Package query implements the pure filter, sort, and pagination pipeline
// over an event snapshot.
package query

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/louisbranch/eventdesk/internal/services/events/domain/event"
)

const (
	// DefaultLimit is the page size applied when none is requested.
	DefaultLimit = 20
	// MaxLimit is the ceiling a requested page size is silently clamped to.
	MaxLimit = 100
)

// Params captures one request's filter and pagination inputs. Zero times
// mean an unset date bound; empty slices mean no restriction.
type Params struct {
	DateFrom  time.Time
	DateTo    time.Time
	Locations []string
	Statuses  []event.Status
	Page      int
	Limit     int
}

// Pagination describes the page served, using the effective post-clamp limit.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Page is one page of matching events with its pagination metadata.
type Page struct {
	Events     []event.Event
	Pagination Pagination
}

// normalize applies page/limit defaults and clamps.
func (p Params) normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Run executes the pipeline over the snapshot: filter, stable sort by StartAt
// descending, count pre-pagination, then slice. The snapshot's order is the
// tie-break, so callers must pass events in insertion order. Out-of-range
// pages yield an empty slice, not an error.
func Run(snapshot []event.Event, params Params) Page {
	params = params.normalize()

	filtered := make([]event.Event, 0, len(snapshot))
	for _, ev := range snapshot {
		if !matchDate(ev, params.DateFrom, params.DateTo) {
			continue
		}
		if !matchLocation(ev, params.Locations) {
			continue
		}
		if !matchStatus(ev, params.Statuses) {
			continue
		}
		filtered = append(filtered, ev)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].StartAt.After(filtered[j].StartAt)
	})

	total := len(filtered)
	start := (params.Page - 1) * params.Limit
	end := start + params.Limit
	var events []event.Event
	switch {
	case start >= total:
		events = []event.Event{}
	case end > total:
		events = filtered[start:total]
	default:
		events = filtered[start:end]
	}

	return Page{
		Events: events,
		Pagination: Pagination{
			Page:       params.Page,
			Limit:      params.Limit,
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(params.Limit))),
		},
	}
}

// matchDate keeps events whose StartAt falls within [from 00:00:00,
// to 23:59:59.999999999] in UTC. Either bound is optional and applied
// independently.
func matchDate(ev event.Event, from, to time.Time) bool {
	startAt := ev.StartAt.UTC()
	if !from.IsZero() {
		lower := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
		if startAt.Before(lower) {
			return false
		}
	}
	if !to.IsZero() {
		upper := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
		if !startAt.Before(upper) {
			return false
		}
	}
	return true
}

// matchLocation keeps events whose location contains any supplied substring,
// case-insensitively. An empty filter means no restriction.
func matchLocation(ev event.Event, locations []string) bool {
	if len(locations) == 0 {
		return true
	}
	haystack := strings.ToLower(ev.Location)
	for _, loc := range locations {
		if strings.Contains(haystack, strings.ToLower(loc)) {
			return true
		}
	}
	return false
}

// matchStatus keeps events whose status is a member of the supplied set.
// An empty set means no restriction.
func matchStatus(ev event.Event, statuses []event.Status) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, status := range statuses {
		if ev.Status == status {
			return true
		}
	}
	return false
}
