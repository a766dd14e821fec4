package service

import (
	"context"
	"log"

	"github.com/louisbranch/eventdesk/internal/services/events/domain/event"
)

// Notifier receives lifecycle announcements. Implementations must tolerate
// being called from detached goroutines after the originating request ends.
type Notifier interface {
	EventCreated(ctx context.Context, ev event.Event) error
	EventPublished(ctx context.Context, ev event.Event) error
	EventCancelled(ctx context.Context, ev event.Event) error
}

// LogNotifier writes lifecycle announcements to the process log. It stands in
// for a real delivery channel such as email or a message broker.
type LogNotifier struct{}

func (LogNotifier) EventCreated(_ context.Context, ev event.Event) error {
	log.Printf("notification: event created id=%s title=%q", ev.ID, ev.Title)
	return nil
}

func (LogNotifier) EventPublished(_ context.Context, ev event.Event) error {
	log.Printf("notification: event published id=%s title=%q", ev.ID, ev.Title)
	return nil
}

func (LogNotifier) EventCancelled(_ context.Context, ev event.Event) error {
	log.Printf("notification: event cancelled id=%s title=%q", ev.ID, ev.Title)
	return nil
}
