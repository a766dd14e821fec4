// Package timeouts defines shared timeout constants used across the service.
// Centralizing these values prevents drift between boundaries and makes the
// durations discoverable.
package timeouts

import "time"

// ReadHeader limits how long the HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long the HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// Notify caps the time allowed for one detached notification dispatch.
const Notify = 10 * time.Second

// SummaryGeneration caps a single summary-generation call, including
// remote generator round trips.
const SummaryGeneration = 30 * time.Second
