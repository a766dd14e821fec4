// Package service orchestrates event lifecycle, querying, and summary
// streaming over the storage, cache, and notification collaborators.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/eventdesk/internal/platform/errors"
	"github.com/louisbranch/eventdesk/internal/platform/id"
	"github.com/louisbranch/eventdesk/internal/platform/timeouts"
	"github.com/louisbranch/eventdesk/internal/services/events/domain/event"
	"github.com/louisbranch/eventdesk/internal/services/events/query"
	"github.com/louisbranch/eventdesk/internal/services/events/storage"
	"github.com/louisbranch/eventdesk/internal/services/events/summary"
)

// publicStatuses is the status set every public read is constrained to,
// regardless of client-supplied filters.
var publicStatuses = []event.Status{event.StatusPublished, event.StatusCancelled}

// Config wires the service collaborators. Store is required; everything else
// has a production default.
type Config struct {
	Store     storage.EventStore
	Cache     *summary.Cache
	Generator summary.Generator
	Notifier  Notifier

	Now   func() time.Time
	NewID func() (string, error)
	Sleep summary.Sleeper

	ChunkSize  int
	ChunkDelay time.Duration
}

// Service implements the event operations behind the HTTP surface.
type Service struct {
	store     storage.EventStore
	cache     *summary.Cache
	generator summary.Generator
	notifier  Notifier

	now   func() time.Time
	newID func() (string, error)
	sleep summary.Sleeper

	chunkSize  int
	chunkDelay time.Duration

	tracer trace.Tracer
}

// New validates the config, fills defaults, and returns the service.
func New(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Cache == nil {
		cfg.Cache = summary.NewCache()
	}
	if cfg.Generator == nil {
		cfg.Generator = summary.TextGenerator{}
	}
	if cfg.Notifier == nil {
		cfg.Notifier = LogNotifier{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = id.NewID
	}
	if cfg.Sleep == nil {
		cfg.Sleep = summary.Sleep
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = summary.DefaultChunkSize
	}
	if cfg.ChunkDelay <= 0 {
		cfg.ChunkDelay = summary.DefaultChunkDelay
	}
	return &Service{
		store:      cfg.Store,
		cache:      cfg.Cache,
		generator:  cfg.Generator,
		notifier:   cfg.Notifier,
		now:        cfg.Now,
		newID:      cfg.NewID,
		sleep:      cfg.Sleep,
		chunkSize:  cfg.ChunkSize,
		chunkDelay: cfg.ChunkDelay,
		tracer:     otel.Tracer("eventdesk/events"),
	}, nil
}

// Create validates input, persists the event, and announces its creation.
func (s *Service) Create(ctx context.Context, input event.CreateEventInput) (event.Event, error) {
	ctx, span := s.tracer.Start(ctx, "events.Create")
	defer span.End()

	ev, err := event.NewEvent(input, s.now, s.newID)
	if err != nil {
		return event.Event{}, err
	}
	if err := s.store.CreateEvent(ctx, ev); err != nil {
		return event.Event{}, apperrors.Wrap(apperrors.CodeInternal, "Internal server error", err)
	}
	span.SetAttributes(attribute.String("event.id", ev.ID))

	s.dispatch(func(ctx context.Context) error {
		return s.notifier.EventCreated(ctx, ev)
	})
	return ev, nil
}

// Update applies a partial update, invalidates the summary cache, and
// announces publish/cancel transitions.
func (s *Service) Update(ctx context.Context, eventID string, patch event.UpdateEventInput) (event.Event, error) {
	ctx, span := s.tracer.Start(ctx, "events.Update")
	defer span.End()

	eventID = strings.TrimSpace(eventID)
	current, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return event.Event{}, apperrors.New(apperrors.CodeNotFound, "Event not found")
		}
		return event.Event{}, apperrors.Wrap(apperrors.CodeInternal, "Internal server error", err)
	}

	updated, err := event.ApplyUpdate(current, patch, s.now)
	if err != nil {
		return event.Event{}, err
	}
	if err := s.store.UpdateEvent(ctx, updated); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return event.Event{}, apperrors.New(apperrors.CodeNotFound, "Event not found")
		}
		return event.Event{}, apperrors.Wrap(apperrors.CodeInternal, "Internal server error", err)
	}

	// Any update may change summary inputs; invalidate unconditionally.
	s.cache.Invalidate(updated.ID)

	if current.Status == event.StatusDraft && updated.Status == event.StatusPublished {
		s.dispatch(func(ctx context.Context) error {
			return s.notifier.EventPublished(ctx, updated)
		})
	}
	if current.Status != event.StatusCancelled && updated.Status == event.StatusCancelled {
		s.dispatch(func(ctx context.Context) error {
			return s.notifier.EventCancelled(ctx, updated)
		})
	}
	return updated, nil
}

// List returns the private filtered, sorted, paginated listing.
func (s *Service) List(ctx context.Context, params query.Params) (query.Page, error) {
	ctx, span := s.tracer.Start(ctx, "events.List")
	defer span.End()

	snapshot, err := s.store.ListEvents(ctx)
	if err != nil {
		return query.Page{}, apperrors.Wrap(apperrors.CodeInternal, "Internal server error", err)
	}
	return query.Run(snapshot, params), nil
}

// PublicPage is a public listing page with projections instead of full
// records.
type PublicPage struct {
	Events     []event.PublicEvent `json:"events"`
	Pagination query.Pagination    `json:"pagination"`
}

// PublicList returns the public listing. The status filter is forced to the
// publicly visible set no matter what the caller supplied.
func (s *Service) PublicList(ctx context.Context, params query.Params) (PublicPage, error) {
	ctx, span := s.tracer.Start(ctx, "events.PublicList")
	defer span.End()

	params.Statuses = publicStatuses
	snapshot, err := s.store.ListEvents(ctx)
	if err != nil {
		return PublicPage{}, apperrors.Wrap(apperrors.CodeInternal, "Internal server error", err)
	}
	page := query.Run(snapshot, params)

	projections := make([]event.PublicEvent, 0, len(page.Events))
	for _, ev := range page.Events {
		projections = append(projections, ev.Public(s.now))
	}
	return PublicPage{Events: projections, Pagination: page.Pagination}, nil
}

// GetPublicByID returns the public projection of a visible event. Draft and
// missing ids are indistinguishable to the caller.
func (s *Service) GetPublicByID(ctx context.Context, eventID string) (event.PublicEvent, error) {
	ctx, span := s.tracer.Start(ctx, "events.GetPublicByID")
	defer span.End()

	ev, err := s.store.GetEvent(ctx, strings.TrimSpace(eventID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return event.PublicEvent{}, apperrors.New(apperrors.CodeNotFound, "Event not found")
		}
		return event.PublicEvent{}, apperrors.Wrap(apperrors.CodeInternal, "Internal server error", err)
	}
	if !ev.PubliclyVisible() {
		return event.PublicEvent{}, apperrors.New(apperrors.CodeNotFound, "Event not found")
	}
	return ev.Public(s.now), nil
}

// SummaryStream is a prepared summary emission. CacheHit is known before the
// first frame so transports can expose it in response headers.
type SummaryStream struct {
	CacheHit bool

	eventID string
	hash    string
	chunks  []string
	text    string

	cache *summary.Cache
	sleep summary.Sleeper
	delay time.Duration
}

// StreamSummary resolves the event, consults the cache, and prepares the
// chunk sequence. Generation happens here so transport headers can reflect
// the cache outcome before any frame is written.
func (s *Service) StreamSummary(ctx context.Context, eventID string) (*SummaryStream, error) {
	ctx, span := s.tracer.Start(ctx, "events.StreamSummary")
	defer span.End()

	ev, err := s.GetPublicByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	hash := summary.Hash(ev)
	if text, ok := s.cache.Get(ev.ID, hash); ok {
		span.SetAttributes(attribute.Bool("summary.cache_hit", true))
		return &SummaryStream{
			CacheHit: true,
			eventID:  ev.ID,
			hash:     hash,
			chunks:   []string{text},
			text:     text,
			cache:    s.cache,
			sleep:    s.sleep,
		}, nil
	}

	genCtx, cancel := context.WithTimeout(ctx, timeouts.SummaryGeneration)
	defer cancel()
	text, err := s.generator.Generate(genCtx, ev)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Internal server error", err)
	}
	span.SetAttributes(attribute.Bool("summary.cache_hit", false))
	return &SummaryStream{
		eventID: ev.ID,
		hash:    hash,
		chunks:  summary.Chunk(text, s.chunkSize),
		text:    text,
		cache:   s.cache,
		sleep:   s.sleep,
		delay:   s.chunkDelay,
	}, nil
}

// Emit sends each chunk through sink with the configured delay after it. The
// reassembled text is committed to the cache only after every chunk was
// delivered; a sink error or context cancellation skips the commit.
func (st *SummaryStream) Emit(ctx context.Context, sink func(chunk string) error) error {
	for _, chunk := range st.chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sink(chunk); err != nil {
			return err
		}
		if st.delay > 0 {
			if err := st.sleep(ctx, st.delay); err != nil {
				return err
			}
		}
	}
	if !st.CacheHit {
		st.cache.Set(st.eventID, st.hash, st.text)
	}
	return nil
}

// dispatch runs a notification task detached from the request. Failures are
// logged and never surfaced or retried.
func (s *Service) dispatch(task func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.Notify)
		defer cancel()
		if err := task(ctx); err != nil {
			log.Printf("notification failed: %v", err)
		}
	}()
}
