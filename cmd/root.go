package cmd

import (
	"log/slog"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/arineng/foreman-ptable/internal/core"
)

var rootCmd = &cobra.Command{
	Use:   "fptctl",
	Short: "Declarative management of Foreman partition tables",
	Long: `fptctl reconciles partition table resources in a Foreman inventory
against a desired-state file: it creates, updates or deletes them so the
live state converges, and reports what changed.`,
}

var verboseCount int

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	// PTerm output to Stderr (to keep Stdout clean for piping)
	pterm.SetDefaultOutput(os.Stderr)
	pterm.Success.Writer = os.Stderr
	pterm.Info.Writer = os.Stderr
	pterm.Error.Writer = os.Stderr
	pterm.Warning.Writer = os.Stderr
	pterm.DefaultHeader.Writer = os.Stderr

	rootCmd.PersistentFlags().StringP("config", "c", "fptctl.yaml", "desired-state file path")
	rootCmd.PersistentFlags().CountVarP(&verboseCount, "verbose", "v", "Increase verbosity level (-v, -vv, -vvv)")
}

// newLogger maps the -v count onto log levels.
func newLogger() core.Logger {
	level := core.LevelInfo
	switch {
	case verboseCount >= 2:
		level = core.LevelTrace
	case verboseCount == 1:
		level = core.LevelDebug
	}
	return core.NewDefaultLogger(os.Stderr, level)
}
