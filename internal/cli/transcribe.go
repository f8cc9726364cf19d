package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/petems/listen-transcriber/internal/output"
	"github.com/petems/listen-transcriber/internal/whisper"
)

type transcribeOptions struct {
	model    string
	language string
	gpu      bool
	download bool
	copy     bool
}

func NewTranscribeCmd(deps *Dependencies) *cobra.Command {
	opts := transcribeOptions{}

	cmd := &cobra.Command{
		Use:   "transcribe <audio-file>",
		Short: "Transcribe an existing audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			f := output.NewFormatter(deps.out())
			s, closeSession := openSession(deps, f)
			defer closeSession()

			if err := applySettings(s, opts); err != nil {
				return err
			}
			if opts.download {
				f.Downloading(s.State().Settings.ModelSpec().FileName())
				path, err := s.EnsureModel().Wait(ctx)
				if err != nil {
					return err
				}
				f.ModelReady(path)
			}
			if err := s.ChooseAudio(args[0]); err != nil {
				return err
			}
			return transcribe(ctx, s, f, args[0], opts.copy)
		},
	}

	cmd.Flags().StringVar(&opts.model, "model", deps.Config.Whisper.Model, "Model size (small, medium)")
	cmd.Flags().StringVarP(&opts.language, "language", "l", deps.Config.Whisper.Language, "Spoken language (auto, es, en)")
	cmd.Flags().BoolVar(&opts.gpu, "gpu", deps.Config.Whisper.UseGPU, "Run on the GPU")
	cmd.Flags().BoolVar(&opts.download, "download", false, "Download the model first if it is missing")
	cmd.Flags().BoolVar(&opts.copy, "copy", deps.Config.CopyToClipboard, "Copy the transcript to the clipboard")

	return cmd
}

func applySettings(s Session, opts transcribeOptions) error {
	size, err := whisper.ParseModelSize(opts.model)
	if err != nil {
		return err
	}
	lang, err := whisper.ParseLanguage(opts.language)
	if err != nil {
		return err
	}
	if err := s.SetModel(size); err != nil {
		return err
	}
	if err := s.SetLanguage(lang); err != nil {
		return err
	}
	return s.SetUseGPU(opts.gpu)
}
