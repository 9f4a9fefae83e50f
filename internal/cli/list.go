package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ashrafosman/localscribe/internal/output"
)

func NewListCmd(deps *Dependencies) *cobra.Command {
	var showHistory bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded meetings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(deps, showHistory)
		},
	}

	cmd.Flags().BoolVar(&showHistory, "history", false, "Show session history instead of files")

	return cmd
}

func runList(deps *Dependencies, showHistory bool) error {
	f := output.NewFormatter(os.Stdout)

	if showHistory {
		if deps.App.History == nil {
			f.Info("no history database configured")
			return nil
		}
		entries, err := deps.App.History.Recent(50)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			f.Info("no recorded sessions yet")
			return nil
		}
		for _, e := range entries {
			f.HistoryItem(e.Name, e.Status, e.StartedAt)
		}
		return nil
	}

	files, err := deps.App.Meetings.ListFiles()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		f.Info("no recorded meetings yet")
		return nil
	}

	f.MeetingListHeader()
	for _, file := range files {
		f.MeetingListItem(file.Name, file.Date, file.Size, file.SummaryPath != "")
	}
	return nil
}
