// Package summary produces event summaries and supports their chunked,
// cache-backed delivery.
package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/eventdesk/internal/services/events/domain/event"
)

// DefaultChunkSize groups this many words per streamed chunk.
const DefaultChunkSize = 3

// DefaultChunkDelay is the pause between chunk emissions, simulating
// incremental generation.
const DefaultChunkDelay = 50 * time.Millisecond

// Generator produces summary text from a public event projection. The
// streaming pipeline is indifferent to which implementation is wired.
type Generator interface {
	Generate(ctx context.Context, ev event.PublicEvent) (string, error)
}

// TextGenerator is the default strategy: a deterministic paragraph derived
// purely from the projection, with no external calls.
type TextGenerator struct{}

// Generate builds the summary paragraph referencing title, date, time,
// location, and the upcoming/past framing.
func (TextGenerator) Generate(_ context.Context, ev event.PublicEvent) (string, error) {
	start := ev.StartAt.UTC()
	date := start.Format("Monday, January 2, 2006")
	clock := start.Format("03:04 PM")

	framing := "past"
	closing := "Check out our other upcoming events!"
	if ev.IsUpcoming {
		framing = "upcoming"
		closing = "Register now to secure your spot."
	}

	text := fmt.Sprintf(
		"Join us for %q on %s at %s in %s. This %s event promises an unforgettable experience. Don't miss out on this opportunity to be part of something special! %s",
		ev.Title, date, clock, ev.Location, framing, closing,
	)
	return text, nil
}

// Chunk splits text on whitespace into groups of size words, preserving
// order. Every chunk except the last keeps one trailing space so the frames
// concatenate back to the original text.
func Chunk(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	words := strings.Split(text, " ")
	chunks := make([]string, 0, (len(words)+size-1)/size)
	for i := 0; i < len(words); i += size {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		chunk := strings.Join(words[i:end], " ")
		if end < len(words) {
			chunk += " "
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

// Sleeper suspends progress between chunk emissions. It must honor context
// cancellation so a disconnected consumer stops the stream promptly.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the production Sleeper: a timer bounded by the context.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
