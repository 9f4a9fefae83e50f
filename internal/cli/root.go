package cli

import (
	"github.com/spf13/cobra"

	"github.com/ashrafosman/localscribe/config"
	"github.com/ashrafosman/localscribe/internal/app"
	"github.com/ashrafosman/localscribe/internal/version"
)

type Dependencies struct {
	App    *app.App
	Config *config.Config
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "localscribe",
		Short: "Record meetings, transcribe, and summarize",
		Long:  "Records meetings with whisper.cpp (or a remote transcription API), streams the live transcript, and produces an AI summary.",
	}

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.Full() + "\n")

	rootCmd.AddCommand(NewRecordCmd(deps))
	rootCmd.AddCommand(NewListCmd(deps))
	rootCmd.AddCommand(NewDevicesCmd(deps))
	rootCmd.AddCommand(NewPromptsCmd(deps))
	rootCmd.AddCommand(NewDoctorCmd(deps))

	return rootCmd
}
