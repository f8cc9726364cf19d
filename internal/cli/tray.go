package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/petems/listen-transcriber/internal/permissions"
	"github.com/petems/listen-transcriber/internal/tray"
)

func NewTrayCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "tray",
		Short: "Run the menu bar app",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTray(cmd.Context(), deps)
		},
	}
}

func runTray(ctx context.Context, deps *Dependencies) error {
	ui := tray.New(deps.Config, deps.Logger, deps.Version, deps.Commit)
	s := deps.NewSession(ui)
	ui.SetSession(s)

	// reported through the status line, capture attempts surface the rest
	permissions.Ensure(s)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps.Logger.Info().Str("version", deps.Version).Msg("Listen Transcriber starting...")

	// Run blocks on the main thread until Quit; closing the session happens on exit
	return ui.Run(ctx)
}
