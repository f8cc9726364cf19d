package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/petems/listen-transcriber/internal/output"
)

func NewDevicesCmd(deps *Dependencies) *cobra.Command {
	var mic bool

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List capture devices and the one that would be recorded",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := output.NewFormatter(deps.out())
			s, closeSession := openSession(deps, f)
			defer closeSession()

			if err := s.SetIncludeMicrophone(mic); err != nil {
				return err
			}
			catalog, err := s.DetectDevices().Wait(cmd.Context())
			if err != nil {
				return err
			}
			st := s.State()
			if len(catalog) == 0 {
				return errors.New(st.Status)
			}

			f.DeviceListHeader()
			for _, d := range catalog {
				f.DeviceListItem(d, st.SelectedDevice != nil && *st.SelectedDevice == d.Index)
			}
			if st.Failed {
				f.Warning(st.Status)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&mic, "mic", "m", deps.Config.IncludeMicrophone, "Prefer the microphone aggregate device")

	return cmd
}
