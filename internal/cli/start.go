package cli

import (
	"context"
	"log/slog"

	"github.com/yamashi/xmake/internal/config"
	"github.com/yamashi/xmake/internal/paths"
	"github.com/yamashi/xmake/internal/server"
)

// Represents the 'xmaked start' command.
type StartCmd struct{}

// Executes the start command.
//
// Loads the persisted configuration, applies flag overrides, starts the
// server, and blocks until the context is cancelled (e.g. via SIGINT or
// SIGTERM).
func (c *StartCmd) Run(ctx context.Context) error {
	configPath := RootCmd.Config
	if configPath == "" {
		configPath = paths.ConfigFile()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if RootCmd.Listen != "" {
		cfg.Listen = RootCmd.Listen
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Listen:        cfg.Listen,
		VCSClient:     cfg.VCSClient,
		WorkspaceRoot: cfg.WorkspaceRoot,
	})
	if err != nil {
		return err
	}

	if err := srv.Start(); err != nil {
		return err
	}

	slog.Info("xmaked is running")

	<-ctx.Done()

	slog.Info("shutting down")
	return srv.Stop()
}
