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
	"github.com/arineng/foreman-ptable/internal/state"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Reconcile partition tables against the desired-state file",
	Long: `Reads the desired-state file and converges every declared partition
table: missing ones are created, drifted layouts updated, absent ones
deleted. Nothing is touched when live state already matches.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfgFile, _ := cmd.Flags().GetString("config")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		config.LoadEnv()
		cfg, err := config.Load(cfgFile)
		if err != nil {
			pterm.Error.Printf("Configuration error: %v\n", err)
			os.Exit(1)
		}

		rctx := core.NewRunContext(ctx, dryRun, newLogger())
		rec := ptable.NewReconciler(foreman.NewHTTPClient(cfg.Settings()))

		run := state.NewRun(cfgFile, dryRun)
		history := state.NewManager(config.StateDir())

		changed := 0
		for i := range cfg.Ptables {
			def := &cfg.Ptables[i]

			if ctx.Err() != nil {
				exitInterrupted(run, history)
			}

			if def.When != "" {
				shouldRun, err := core.EvaluateCondition(def.When, rctx)
				if err != nil {
					exitFailed(run, history, fmt.Errorf("[%s] condition: %w", def.Name, err))
				}
				if !shouldRun {
					rctx.Logger.Debug(fmt.Sprintf("[%s] Skipped (condition not met)", def.Name))
					continue
				}
			}

			res, _ := rec.Apply(rctx, def)
			if res.Failed {
				if ctx.Err() != nil {
					exitInterrupted(run, history)
				}
				exitFailed(run, history, res.Error)
			}

			if res.Changed {
				changed++
				rctx.Logger.Info(fmt.Sprintf("[%s] %s", def.Name, res.Message))
				run.Changes = append(run.Changes, state.RunChange{Name: def.Name, Action: res.Action})
			} else {
				rctx.Logger.Debug(fmt.Sprintf("[%s] %s", def.Name, res.Message))
			}
		}

		if err := history.Append(run); err != nil {
			pterm.Warning.Printf("Failed to save run history: %v\n", err)
		}

		if changed == 0 {
			pterm.Success.Println("Already in desired state.")
		} else if dryRun {
			pterm.Success.Printf("%d change(s) pending (dry-run, nothing applied).\n", changed)
		} else {
			pterm.Success.Printf("%d change(s) applied.\n", changed)
		}
	},
}

func exitFailed(run state.Run, history *state.Manager, err error) {
	run.Status = "failed"
	_ = history.Append(run)
	pterm.Error.Printf("Error: %v\n", err)
	os.Exit(1)
}

func exitInterrupted(run state.Run, history *state.Manager) {
	run.Status = "failed"
	_ = history.Append(run)
	pterm.Error.Println("Interrupted.")
	os.Exit(130) // SIGINT exit code convention
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().Bool("dry-run", false, "Preview decisions without mutating Foreman")
}
