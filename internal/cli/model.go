package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/petems/listen-transcriber/internal/output"
	"github.com/petems/listen-transcriber/internal/whisper"
)

func NewModelCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Manage Whisper models",
	}
	cmd.AddCommand(newModelDownloadCmd(deps))
	cmd.AddCommand(newModelListCmd(deps))
	return cmd
}

func newModelDownloadCmd(deps *Dependencies) *cobra.Command {
	var size string

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the selected model into the models folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			m, err := whisper.ParseModelSize(size)
			if err != nil {
				return err
			}

			f := output.NewFormatter(deps.out())
			s, closeSession := openSession(deps, f)
			defer closeSession()

			if err := s.SetModel(m); err != nil {
				return err
			}
			f.Downloading(whisper.ModelSpec{Size: m}.FileName())
			path, err := s.EnsureModel().Wait(ctx)
			if err != nil {
				return err
			}
			f.ModelReady(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&size, "size", "s", deps.Config.Whisper.Model, "Model size (small, medium)")

	return cmd
}

func newModelListCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show which models are downloaded",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := output.NewFormatter(deps.out())
			dir := deps.Config.ModelsPath()
			for _, size := range whisper.ModelSizes {
				spec := whisper.ModelSpec{Size: size}
				if whisper.Exists(spec, dir) {
					f.SetupCheck(string(size), true, spec.Path(dir))
				} else {
					f.SetupCheck(string(size), false, "not downloaded")
				}
			}
			return nil
		},
	}
}
