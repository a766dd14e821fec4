// Package rest exposes the event service over HTTP: a bearer-protected
// administrative surface and an open public surface including the SSE
// summary stream and the iCalendar feed.
package rest

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/louisbranch/eventdesk/internal/platform/errors"
	"github.com/louisbranch/eventdesk/internal/services/events/domain/event"
	"github.com/louisbranch/eventdesk/internal/services/events/service"
)

// Handler routes event HTTP traffic to the service.
type Handler struct {
	service    *service.Service
	adminToken string
}

// New validates dependencies and returns the handler.
func New(svc *service.Service, adminToken string) (*Handler, error) {
	if svc == nil {
		return nil, fmt.Errorf("service is required")
	}
	if strings.TrimSpace(adminToken) == "" {
		return nil, fmt.Errorf("admin token is required")
	}
	return &Handler{service: svc, adminToken: adminToken}, nil
}

// Routes builds the full mux with request-id and logging middleware applied.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /events", h.requireAdmin(http.HandlerFunc(h.createEvent)))
	mux.Handle("PATCH /events/{id}", h.requireAdmin(http.HandlerFunc(h.updateEvent)))
	mux.Handle("GET /events", h.requireAdmin(http.HandlerFunc(h.listEvents)))

	mux.HandleFunc("GET /public/events", h.listPublicEvents)
	mux.HandleFunc("GET /public/events/{id}/summary", h.streamSummary)
	mux.HandleFunc("GET /public/events.ics", h.calendarFeed)
	mux.HandleFunc("GET /healthz", h.health)

	return withRequestID(withRequestLogging(mux))
}

// requireAdmin rejects requests without the configured bearer token.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authorization := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(authorization, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(h.adminToken)) != 1 {
			writeError(w, r, apperrors.New(apperrors.CodeUnauthorized, "Invalid or missing authentication token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

type createEventRequest struct {
	Title         string `json:"title"`
	StartAt       string `json:"startAt"`
	EndAt         string `json:"endAt"`
	Location      string `json:"location"`
	Status        string `json:"status"`
	InternalNotes string `json:"internalNotes"`
	CreatedBy     string `json:"createdBy"`
}

func (h *Handler) createEvent(w http.ResponseWriter, r *http.Request) {
	var body createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, apperrors.New(apperrors.CodeValidation, "Invalid JSON body"))
		return
	}

	// Unparseable datetimes become zero values; the domain reports them
	// alongside any other violations so the caller sees everything at once.
	startAt, _ := parseDatetime(body.StartAt)
	endAt, _ := parseDatetime(body.EndAt)

	ev, err := h.service.Create(r.Context(), event.CreateEventInput{
		Title:         body.Title,
		StartAt:       startAt,
		EndAt:         endAt,
		Location:      body.Location,
		Status:        event.Status(body.Status),
		InternalNotes: body.InternalNotes,
		CreatedBy:     body.CreatedBy,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, ev)
}

type updateEventRequest struct {
	Status        *string `json:"status"`
	InternalNotes *string `json:"internalNotes"`
}

func (h *Handler) updateEvent(w http.ResponseWriter, r *http.Request) {
	var body updateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, apperrors.New(apperrors.CodeValidation, "Invalid JSON body"))
		return
	}

	patch := event.UpdateEventInput{InternalNotes: body.InternalNotes}
	if body.Status != nil {
		status := event.Status(*body.Status)
		patch.Status = &status
	}

	ev, err := h.service.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, ev)
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r, false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := h.service.List(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, page)
}

func (h *Handler) listPublicEvents(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r, true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := h.service.PublicList(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, page)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// parseDatetime accepts RFC 3339 with or without fractional seconds.
func parseDatetime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, err
	}
	return parsed, nil
}
