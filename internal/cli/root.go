package cli

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/petems/listen-transcriber/internal/config"
	"github.com/petems/listen-transcriber/internal/session"
	"github.com/petems/listen-transcriber/internal/tray"
)

// Session is the orchestrator surface used by the commands
type Session interface {
	tray.Session
}

type Dependencies struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Version string
	Commit  string

	// NewSession builds an orchestrator reporting to status
	NewSession func(status session.StatusUpdater) Session

	Out     io.Writer
	Verbose bool
}

func (d *Dependencies) out() io.Writer {
	if d.Out != nil {
		return d.Out
	}
	return os.Stdout
}

// isTerminal is replaced in tests
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "listen-transcriber",
		Short: "Record meeting audio and transcribe it locally",
		Long: "Records system audio (optionally with the microphone) through ffmpeg and transcribes it with whisper.cpp.\n" +
			"Without a subcommand the menu bar app is started.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTray(cmd.Context(), deps)
		},
	}

	rootCmd.Version = deps.Version
	rootCmd.SetVersionTemplate("listen-transcriber " + deps.Version + " (" + deps.Commit + ")\n")
	rootCmd.PersistentFlags().BoolVarP(&deps.Verbose, "verbose", "v", false, "Print every status change")

	rootCmd.AddCommand(NewTrayCmd(deps))
	rootCmd.AddCommand(NewDevicesCmd(deps))
	rootCmd.AddCommand(NewRecordCmd(deps))
	rootCmd.AddCommand(NewTranscribeCmd(deps))
	rootCmd.AddCommand(NewModelCmd(deps))
	rootCmd.AddCommand(NewDoctorCmd(deps))

	return rootCmd
}
