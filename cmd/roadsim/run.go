package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-roadsim/pkg/clock"
	"github.com/dd0wney/cluso-roadsim/pkg/logging"
	"github.com/dd0wney/cluso-roadsim/pkg/validation"
)

const defaultLogFile = "roadsim.log"

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Drive the car interactively in the terminal",
		Long: `Opens a terminal view of the road graph. Arrow keys, hjkl or WASD move the
car one step along the roads. Logs go to a file because the view owns the
terminal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logPath := validation.DefaultOr(cfg.LogFile, defaultLogFile)
			logger, closer, err := logging.NewFileLogger(logPath, cfg.Level())
			if err != nil {
				return err
			}
			defer closer.Close()

			env, err := newRun(cmd.Context(), cfg, logger, clock.NewReal(), startOption(cmd)...)
			if err != nil {
				return err
			}
			defer env.sim.Close()

			p := tea.NewProgram(newModel(env.sim, env.runID), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("terminal view: %w", err)
			}

			final := env.sim.Snapshot()
			env.logger.Info("run finished",
				logging.TotalCost(final.TotalCost),
				logging.String("status", final.StatusText))
			return nil
		},
	}
}
