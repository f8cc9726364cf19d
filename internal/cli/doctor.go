package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/petems/listen-transcriber/internal/config"
	"github.com/petems/listen-transcriber/internal/logging"
	"github.com/petems/listen-transcriber/internal/output"
	"github.com/petems/listen-transcriber/internal/permissions"
	"github.com/petems/listen-transcriber/internal/whisper"
)

// checkPermissions is replaced in tests
var checkPermissions = permissions.Check

func NewDoctorCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check prerequisites",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := output.NewFormatter(deps.out())
			if !runDoctor(deps.Config, f) {
				f.Warning("\nSome prerequisites are missing.")
				return nil
			}
			f.Success("\nAll prerequisites met. Ready to record!")
			return nil
		},
	}
}

func runDoctor(cfg *config.Config, f *output.Formatter) bool {
	ok := true

	if path, err := cfg.CaptureBinary(); err != nil {
		f.SetupCheck("ffmpeg", false, "not found. Install with: brew install ffmpeg")
		ok = false
	} else {
		f.SetupCheck("ffmpeg", true, path)
	}

	if path, err := cfg.WhisperBinary(); err != nil {
		f.SetupCheck("whisper-cli", false, "not found. Install with: brew install whisper-cpp")
		ok = false
	} else {
		f.SetupCheck("whisper-cli", true, path)
	}

	spec := whisper.ModelSpec{Size: cfg.ModelSize()}
	if whisper.Exists(spec, cfg.ModelsPath()) {
		f.SetupCheck("Model", true, spec.Path(cfg.ModelsPath()))
	} else {
		f.SetupCheck("Model", false, spec.FileName()+" missing. Run: listen-transcriber model download")
		ok = false
	}

	rep := checkPermissions()
	f.SetupCheck("Microphone access", rep.Microphone == permissions.Authorized, rep.Microphone.String())
	f.SetupCheck("Screen recording access", rep.ScreenCapture == permissions.Authorized, rep.ScreenCapture.String())
	if !rep.Granted() {
		ok = false
	}

	if info, err := os.Stat(cfg.OutputFolder); err == nil && info.IsDir() {
		f.SetupCheck("Output folder", true, cfg.OutputFolder)
	} else {
		f.SetupCheck("Output folder", true, cfg.OutputFolder+" (created on first recording)")
	}

	f.SetupCheck("Config", true, cfg.File())
	f.SetupCheck("Log", true, logging.Path())

	return ok
}
