package rest

import (
	"net/http"

	ics "github.com/arran4/golang-ical"

	"github.com/louisbranch/eventdesk/internal/services/events/domain/event"
	"github.com/louisbranch/eventdesk/internal/services/events/query"
)

// calendarFeed serves the publicly visible events as an iCalendar document.
func (h *Handler) calendarFeed(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.PublicList(r.Context(), query.Params{Limit: query.MaxLimit})
	if err != nil {
		writeError(w, r, err)
		return
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//eventdesk//EN")
	for _, ev := range page.Events {
		entry := cal.AddEvent(ev.ID)
		entry.SetSummary(ev.Title)
		entry.SetLocation(ev.Location)
		entry.SetStartAt(ev.StartAt)
		entry.SetEndAt(ev.EndAt)
		entry.SetDtStampTime(ev.StartAt)
		if ev.Status == event.StatusCancelled {
			entry.SetStatus(ics.ObjectStatusCancelled)
		} else {
			entry.SetStatus(ics.ObjectStatusConfirmed)
		}
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	if _, err := w.Write([]byte(cal.Serialize())); err != nil {
		return
	}
}
