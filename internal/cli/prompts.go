package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ashrafosman/localscribe/internal/output"
)

func NewPromptsCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "prompts",
		Short: "List available summary prompt templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := output.NewFormatter(os.Stdout)

			available := deps.App.Meetings.Prompts().List()
			if len(available) == 0 {
				f.Info("no prompt templates found; the built-in meeting prompt will be used")
				return nil
			}

			f.PromptListHeader()
			for _, p := range available {
				f.PromptListItem(p.ID, p.Name)
			}
			return nil
		},
	}
}
