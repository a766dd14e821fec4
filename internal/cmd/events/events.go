// Package events parses configuration and runs the events API server.
package events

import (
	"context"
	"flag"
	"fmt"

	platformcmd "github.com/louisbranch/eventdesk/internal/platform/cmd"
	"github.com/louisbranch/eventdesk/internal/services/events/app"
	"github.com/louisbranch/eventdesk/internal/services/events/summary"
)

// Config holds the events command configuration. Environment values are
// defaults; flags override them.
type Config struct {
	Addr        string `env:"EVENTDESK_HTTP_ADDR" envDefault:":8080"`
	DBPath      string `env:"EVENTDESK_DB_PATH" envDefault:"data/events.db"`
	AdminToken  string `env:"EVENTDESK_ADMIN_TOKEN"`
	OpenAIKey   string `env:"EVENTDESK_OPENAI_API_KEY"`
	OpenAIURL   string `env:"EVENTDESK_OPENAI_URL" envDefault:"https://api.openai.com/v1/chat/completions"`
	OpenAIModel string `env:"EVENTDESK_OPENAI_MODEL" envDefault:"gpt-4o-mini"`
}

// ParseConfig loads env defaults and layers flags on top.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env config: %w", err)
	}

	fs.StringVar(&cfg.Addr, "http-addr", cfg.Addr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the events server with telemetry configured.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceEvents, func(ctx context.Context) error {
		return app.Run(ctx, app.Config{
			Addr:       cfg.Addr,
			DBPath:     cfg.DBPath,
			AdminToken: cfg.AdminToken,
			OpenAI: summary.OpenAIConfig{
				APIKey: cfg.OpenAIKey,
				URL:    cfg.OpenAIURL,
				Model:  cfg.OpenAIModel,
			},
		})
	})
}
