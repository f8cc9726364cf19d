package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/petems/listen-transcriber/internal/output"
	"github.com/petems/listen-transcriber/internal/session"
)

type recordOptions struct {
	name        string
	noTimestamp bool
	device      int
	mic         bool
	transcribe  bool
	copy        bool
}

// pollInterval is how often a foreground recording checks for an unexpected exit
var pollInterval = 500 * time.Millisecond

func NewRecordCmd(deps *Dependencies) *cobra.Command {
	opts := recordOptions{}

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record in the foreground until Ctrl+C",
		Long:  "Record the detected loopback device (or the one given with --device) until interrupted.\nUse --transcribe to transcribe the recording once it is saved.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runRecord(cmd.Context(), ctx, deps, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.name, "name", "n", deps.Config.Recording.BaseName, "Recording name")
	cmd.Flags().BoolVar(&opts.noTimestamp, "no-timestamp", !deps.Config.Recording.AppendTimestamp, "Do not append a timestamp to the name")
	cmd.Flags().IntVarP(&opts.device, "device", "d", -1, "Capture device index (see 'devices')")
	cmd.Flags().BoolVarP(&opts.mic, "mic", "m", deps.Config.IncludeMicrophone, "Prefer the microphone aggregate device")
	cmd.Flags().BoolVarP(&opts.transcribe, "transcribe", "t", false, "Transcribe after the recording stops")
	cmd.Flags().BoolVar(&opts.copy, "copy", deps.Config.CopyToClipboard, "Copy the transcript to the clipboard")

	return cmd
}

// runRecord records until interrupt is done. ctx bounds the work that
// follows the interrupt.
func runRecord(ctx, interrupt context.Context, deps *Dependencies, opts recordOptions) error {
	f := output.NewFormatter(deps.out())
	s, closeSession := openSession(deps, f)
	defer closeSession()

	if err := s.SetIncludeMicrophone(opts.mic); err != nil {
		return err
	}
	if opts.device >= 0 {
		if err := s.SelectDevice(opts.device); err != nil {
			return err
		}
	} else if _, err := s.DetectDevices().Wait(interrupt); err != nil {
		return err
	}
	st := s.State()
	if st.SelectedDevice == nil {
		if st.Status != "" {
			f.Warning(st.Status)
		}
		return errors.New("no capture device selected, pass --device (see 'listen-transcriber devices')")
	}

	paths, err := s.StartRecording(session.StartOptions{
		BaseName:        opts.name,
		AppendTimestamp: !opts.noTimestamp,
	})
	if err != nil {
		return err
	}
	started := time.Now()
	f.RecordingStarted(paths.AudioPath, st.SelectedDeviceName())
	if isTerminal() {
		f.StopHint()
	}

	if !waitForInterrupt(interrupt, s, pollInterval) {
		return errors.New(s.State().Status)
	}

	stopCtx, cancel := context.WithTimeout(ctx, deps.Config.StopTimeout()+10*time.Second)
	defer cancel()
	if err := s.StopRecording(stopCtx); err != nil {
		return err
	}
	f.RecordingStopped(paths.AudioPath, time.Since(started))

	if !opts.transcribe {
		return nil
	}
	return transcribe(ctx, s, f, paths.AudioPath, opts.copy)
}

// waitForInterrupt blocks until ctx is done (true) or the recording ended on
// its own (false)
func waitForInterrupt(ctx context.Context, s Session, poll time.Duration) bool {
	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return true
		case <-ticker.C:
			if !s.State().Recording {
				return false
			}
		}
	}
}

func transcribe(ctx context.Context, s Session, f *output.Formatter, audioPath string, copyResult bool) error {
	f.Transcribing(filepath.Base(audioPath))
	res, err := s.TranscribeLastAudio().Wait(ctx)
	if err != nil {
		if errors.Is(err, session.ErrModelMissing) {
			f.Info("Download the model with: listen-transcriber model download")
		}
		return err
	}
	f.TranscribeDone(res.TranscriptPath)

	if copyResult {
		if _, err := s.CopyTranscript(); err != nil {
			f.Warning("Could not copy transcript: " + err.Error())
			return nil
		}
		f.Success("Transcript copied to clipboard")
	}
	return nil
}
