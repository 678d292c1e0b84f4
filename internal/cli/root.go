package cli

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/yamashi/xmake/internal"
)

// Represents the root command for the xmaked daemon.
var RootCmd struct {
	Quiet   bool       `short:"q" help:"Suppress informational output."`
	Verbose bool       `short:"v" help:"Enable verbose output."`
	Debug   bool       `short:"d" help:"Enable debug output."`
	Config  string     `short:"c" help:"Override the default configuration file path." placeholder:"PATH"`
	Listen  string     `short:"l" help:"Override the configured listen address." placeholder:"HOST:PORT"`
	Start   StartCmd   `cmd:"" help:"Start the daemon."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("The xmake remote build daemon.\n\nListens for build clients and coordinates their remote build sessions."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Configures the global log level based on CLI flags.
//
// The default handler reads its level from [internal.LogLevel], so adjusting
// the level variable is enough; the handler itself is not replaced.
func configureLogger() {
	if RootCmd.Quiet {
		internal.SetQuiet(true)
	}
	if RootCmd.Debug {
		internal.SetDebug(true)
	}
	if RootCmd.Verbose {
		internal.SetVerbose(true)
	}

	switch {
	case internal.IsDebug():
		internal.LogLevel().Set(slog.LevelDebug)
	case internal.IsQuiet():
		internal.LogLevel().Set(slog.LevelWarn)
	default:
		internal.LogLevel().Set(slog.LevelInfo)
	}
}
