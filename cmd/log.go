package cmd

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/arineng/foreman-ptable/internal/config"
	"github.com/arineng/foreman-ptable/internal/state"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "List recorded apply runs",
	Run: func(cmd *cobra.Command, args []string) {
		history := state.NewManager(config.StateDir())

		runs, err := history.Runs()
		if err != nil {
			pterm.Error.Printf("Could not load history: %v\n", err)
			os.Exit(1)
		}

		if len(runs) == 0 {
			pterm.Info.Println("No runs recorded yet.")
			return
		}

		rows := pterm.TableData{{"RUN", "TIME", "STATUS", "CHANGES"}}
		for _, run := range runs {
			rows = append(rows, []string{
				shortID(run.ID),
				run.Timestamp.Format("2006-01-02 15:04:05"),
				run.Status,
				fmt.Sprintf("%d", len(run.Changes)),
			})
		}

		if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
			pterm.Error.Printf("Render error: %v\n", err)
			os.Exit(1)
		}
	},
}

// shortID abbreviates a run id for display. History files can be edited
// by hand, so the id may be shorter than the usual uuid.
func shortID(id string) string {
	if len(id) < 8 {
		return id
	}
	return id[:8]
}

func init() {
	rootCmd.AddCommand(logCmd)
}
