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

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show pending changes without applying them",
	Long: `Runs the same lookups and decision tree as apply but never mutates
Foreman. Pending layout changes are shown as a line diff.`,
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

		pending := 0
		for i := range cfg.Ptables {
			def := &cfg.Ptables[i]

			if def.When != "" {
				shouldRun, err := core.EvaluateCondition(def.When, rctx)
				if err != nil {
					pterm.Error.Printf("[%s] condition: %v\n", def.Name, err)
					os.Exit(1)
				}
				if !shouldRun {
					continue
				}
			}

			action, err := rec.Plan(rctx, def)
			if err != nil {
				pterm.Error.Printf("Error: %v\n", err)
				os.Exit(1)
			}

			if action.Action == "noop" {
				rctx.Logger.Debug(fmt.Sprintf("[%s] in sync", def.Name))
				continue
			}

			pending++
			pterm.Info.Printf("[%s] %s\n", def.Name, action.Action)
			if action.Diff != "" {
				fmt.Fprint(rctx.Stdout, action.Diff)
			}
		}

		if pending == 0 {
			pterm.Success.Println("No changes. Live state matches the desired state.")
		} else {
			pterm.Warning.Printf("%d change(s) pending. Run 'fptctl apply' to converge.\n", pending)
		}
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}
