// Package app wires the events runtime and HTTP lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/louisbranch/eventdesk/internal/platform/timeouts"
	"github.com/louisbranch/eventdesk/internal/services/events/api/rest"
	"github.com/louisbranch/eventdesk/internal/services/events/service"
	eventsqlite "github.com/louisbranch/eventdesk/internal/services/events/storage/sqlite"
	"github.com/louisbranch/eventdesk/internal/services/events/summary"
)

// Config holds the events server configuration.
type Config struct {
	Addr       string
	DBPath     string
	AdminToken string

	// OpenAI switches the summary generator to the chat-completions backed
	// strategy when fully configured.
	OpenAI summary.OpenAIConfig
}

// Server hosts the events HTTP API and storage lifecycle.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	store      *eventsqlite.Store
}

// New creates a configured events server listening on cfg.Addr.
func New(cfg Config) (*Server, error) {
	if strings.TrimSpace(cfg.AdminToken) == "" {
		return nil, fmt.Errorf("admin token is required")
	}
	dbPath := cfg.DBPath
	if strings.TrimSpace(dbPath) == "" {
		dbPath = filepath.Join("data", "events.db")
	}

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}

	store, err := openEventStore(dbPath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	var generator summary.Generator
	if strings.TrimSpace(cfg.OpenAI.APIKey) != "" {
		generator, err = summary.NewOpenAIGenerator(cfg.OpenAI)
		if err != nil {
			_ = listener.Close()
			_ = store.Close()
			return nil, fmt.Errorf("configure summary generator: %w", err)
		}
	}

	svc, err := service.New(service.Config{
		Store:     store,
		Generator: generator,
	})
	if err != nil {
		_ = listener.Close()
		_ = store.Close()
		return nil, fmt.Errorf("init event service: %w", err)
	}

	handler, err := rest.New(svc, cfg.AdminToken)
	if err != nil {
		_ = listener.Close()
		_ = store.Close()
		return nil, fmt.Errorf("init http handler: %w", err)
	}

	httpServer := &http.Server{
		Handler:           otelhttp.NewHandler(handler.Routes(), "events.http"),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	return &Server{
		listener:   listener,
		httpServer: httpServer,
		store:      store,
	}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves an events server until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the HTTP server until context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("events server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http: %w", err)
		}
		err := <-serveErr
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases events server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		_ = s.httpServer.Shutdown(shutdownCtx)
		cancel()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close event store: %v", err)
		}
	}
}

func openEventStore(path string) (*eventsqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := eventsqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open events sqlite store: %w", err)
	}
	return store, nil
}
