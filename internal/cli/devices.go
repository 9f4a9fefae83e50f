package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/ashrafosman/localscribe/internal/audio"
	"github.com/ashrafosman/localscribe/internal/output"
)

func NewDevicesCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List available audio capture devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := output.NewFormatter(os.Stdout)

			devices := audio.ListDevices(context.Background(), deps.Config.WhisperPath)

			f.DeviceListHeader()
			for _, d := range devices {
				f.DeviceListItem(d.ID, d.Name)
			}
			return nil
		},
	}
}
