package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/petems/listen-transcriber/internal/capture"
	"github.com/petems/listen-transcriber/internal/cli"
	"github.com/petems/listen-transcriber/internal/config"
	"github.com/petems/listen-transcriber/internal/inject"
	"github.com/petems/listen-transcriber/internal/logging"
	"github.com/petems/listen-transcriber/internal/notify"
	"github.com/petems/listen-transcriber/internal/output"
	"github.com/petems/listen-transcriber/internal/process"
	"github.com/petems/listen-transcriber/internal/session"
	"github.com/petems/listen-transcriber/internal/whisper"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

func main() {
	if err := run(); err != nil {
		formatter := output.NewFormatter(os.Stderr)
		formatter.Error(err.Error())
		os.Exit(1)
	}
}

func run() error {
	// Load config from XDG/Library/AppData
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logging.NewWithLevel(cfg.LogLevel)
	runner := process.NewRunner(log)

	deps := &cli.Dependencies{
		Config:  cfg,
		Logger:  log,
		Version: Version,
		Commit:  Commit,
	}
	deps.NewSession = func(status session.StatusUpdater) cli.Session {
		// A missing engine is reported when it is first launched
		ffmpeg := resolve(log, "ffmpeg", cfg.CaptureBinary, cfg.Capture.Binary)
		whisperCLI := resolve(log, "whisper-cli", cfg.WhisperBinary, cfg.Whisper.Binary)

		return session.New(session.Config{
			Capture:     capture.NewFFmpeg(ffmpeg, cfg.Capture.Format, runner, log),
			Transcriber: whisper.NewCLI(whisperCLI, runner, log),
			Models:      whisper.NewDownloader(cfg.Whisper.ModelBaseURL, log),
			Clipboard:   inject.New(),
			Notifier:    notify.New(cfg.Notifications, log),
			Preferences: cfg,
			Status:      status,
			Logger:      log,

			OutputFolder:      cfg.OutputFolder,
			IncludeMicrophone: cfg.IncludeMicrophone,
			Settings: session.Settings{
				Model:    cfg.ModelSize(),
				Language: cfg.Language(),
				UseGPU:   cfg.Whisper.UseGPU,
			},
			StopTimeout:      cfg.StopTimeout(),
			CopyOnTranscribe: cfg.CopyToClipboard,
		})
	}

	return cli.NewRootCmd(deps).Execute()
}

func resolve(log zerolog.Logger, what string, lookup func() (string, error), configured string) string {
	path, err := lookup()
	if err != nil {
		log.Warn().Err(err).Str("binary", configured).Msgf("%s not found", what)
		return configured
	}
	log.Debug().Str("path", path).Msgf("Using %s", what)
	return path
}
