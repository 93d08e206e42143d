package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/thiblahute/pitivi-old/internal/metrics"
	"github.com/thiblahute/pitivi-old/internal/preview"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Port      int  `short:"p" help:"Override the configured preview port"`
	NoMetrics bool `help:"Disable the /metrics endpoint"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	m, err := loadManifest(root)
	if err != nil {
		return err
	}
	if s.Port != 0 {
		m.Serve.Port = s.Port
	}
	if s.NoMetrics {
		m.Serve.Metrics = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := preview.NewServer(m, metrics.NewRecorder(nil))
	return server.Run(ctx)
}
