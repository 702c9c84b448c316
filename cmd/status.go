package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/arineng/foreman-ptable/internal/config"
	"github.com/arineng/foreman-ptable/internal/core"
	"github.com/arineng/foreman-ptable/internal/foreman"
	"github.com/arineng/foreman-ptable/internal/ptable"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show live vs desired state per partition table",
	Run: func(cmd *cobra.Command, args []string) {
		cfgFile, _ := cmd.Flags().GetString("config")

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		config.LoadEnv()
		cfg, err := config.Load(cfgFile)
		if err != nil {
			pterm.Error.Printf("Configuration error: %v\n", err)
			os.Exit(1)
		}

		rctx := core.NewRunContext(ctx, true, newLogger())
		rec := ptable.NewReconciler(foreman.NewHTTPClient(cfg.Settings()))

		rows, err := statusRows(rctx, rec, cfg.Ptables)
		if err != nil {
			pterm.Error.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
			pterm.Error.Printf("Render error: %v\n", err)
			os.Exit(1)
		}
	},
}

// statusRows builds one table row per definition. Entries whose `when:`
// condition does not hold are rendered as skipped, matching what apply
// and plan would do with them.
func statusRows(rctx *core.RunContext, rec *ptable.Reconciler, defs []ptable.Definition) (pterm.TableData, error) {
	rows := pterm.TableData{{"NAME", "DESIRED", "LIVE", "STATUS"}}

	for i := range defs {
		def := &defs[i]

		if def.When != "" {
			shouldRun, err := core.EvaluateCondition(def.When, rctx)
			if err != nil {
				return nil, fmt.Errorf("[%s] condition: %w", def.Name, err)
			}
			if !shouldRun {
				rows = append(rows, []string{def.Name, def.DesiredState().String(), "-", "skipped (condition not met)"})
				continue
			}
		}

		action, err := rec.Plan(rctx, def)
		if err != nil {
			return nil, err
		}

		live := "absent"
		if action.Existing != nil {
			live = fmt.Sprintf("present (id %d)", action.Existing.ID)
		}

		status := "in sync"
		if action.Action != "noop" {
			status = "pending " + action.Action
		}

		rows = append(rows, []string{def.Name, def.DesiredState().String(), live, status})
	}

	return rows, nil
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
