package rest

import (
	"fmt"
	"net/http"
)

// streamSummary delivers the event summary as Server-Sent Events. The cache
// outcome header must be written before the first frame, so the stream is
// fully prepared before any byte goes out.
func (h *Handler) streamSummary(w http.ResponseWriter, r *http.Request) {
	stream, err := h.service.StreamSummary(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	cacheStatus := "MISS"
	if stream.CacheHit {
		cacheStatus = "HIT"
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Summary-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	err = stream.Emit(r.Context(), func(chunk string) error {
		if _, err := fmt.Fprintf(w, "data: %s\n\n", chunk); err != nil {
			return err
		}
		return rc.Flush()
	})
	if err != nil {
		// Headers are already sent; nothing to report to the client.
		return
	}
}
