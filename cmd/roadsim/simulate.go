package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-roadsim/pkg/clock"
	"github.com/dd0wney/cluso-roadsim/pkg/logging"
	"github.com/dd0wney/cluso-roadsim/pkg/simulation"
)

// step is one parsed script command: a move, or a wait of one tick interval
type step struct {
	dir   simulation.Direction
	wait  bool
	count int
}

var scriptMoves = map[rune]simulation.Direction{
	'U': simulation.Up,
	'D': simulation.Down,
	'L': simulation.Left,
	'R': simulation.Right,
}

// parseScript reads a move script such as "RRUU." or "4R50.": U, D, L and R
// move one step, '.' waits one tick, and a leading count repeats the command.
// Whitespace is ignored.
func parseScript(script string) ([]step, error) {
	var (
		steps  []step
		digits strings.Builder
	)
	for i, r := range script {
		switch {
		case unicode.IsSpace(r):
			continue
		case unicode.IsDigit(r):
			digits.WriteRune(r)
			continue
		}

		count := 1
		if digits.Len() > 0 {
			n, err := strconv.Atoi(digits.String())
			if err != nil || n < 1 {
				return nil, fmt.Errorf("script position %d: bad repeat count %q", i, digits.String())
			}
			count = n
			digits.Reset()
		}

		if r == '.' {
			steps = append(steps, step{wait: true, count: count})
			continue
		}
		dir, ok := scriptMoves[unicode.ToUpper(r)]
		if !ok {
			return nil, fmt.Errorf("script position %d: unknown command %q", i, r)
		}
		steps = append(steps, step{dir: dir, count: count})
	}
	if digits.Len() > 0 {
		return nil, fmt.Errorf("script ends with a dangling count %q", digits.String())
	}
	return steps, nil
}

// scriptResult summarises a headless run
type scriptResult struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
	Ticks    int `json:"ticks"`
}

// playScript applies steps to sim, advancing vc one tick interval per wait
func playScript(sim *simulation.Simulation, vc *clock.Virtual, steps []step) scriptResult {
	var res scriptResult
	interval := sim.Config().TickInterval
	for _, st := range steps {
		for i := 0; i < st.count; i++ {
			if st.wait {
				vc.Advance(interval)
				res.Ticks++
				continue
			}
			if _, ok := sim.ApplyDirection(st.dir); ok {
				res.Accepted++
			} else {
				res.Rejected++
			}
		}
	}
	return res
}

// jsonLines writes one JSON document per line and keeps the first error
type jsonLines struct {
	enc *json.Encoder
	err error
}

func newJSONLines(w io.Writer) *jsonLines {
	return &jsonLines{enc: json.NewEncoder(w)}
}

func (j *jsonLines) write(v any) {
	if j.err == nil {
		j.err = j.enc.Encode(v)
	}
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate SCRIPT",
		Short: "Run a move script headlessly on a virtual clock",
		Long: `Runs a script of moves without a terminal view and prints every snapshot
as a JSON line. U, D, L and R move one step, '.' waits one tick interval of
virtual time, and a leading number repeats a command:

  roadsim simulate --start 3 "4R50."`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := parseScript(args[0])
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			withGraph, _ := cmd.Flags().GetBool("full")
			withMetrics, _ := cmd.Flags().GetBool("metrics")

			out := newJSONLines(cmd.OutOrStdout())
			logger := logging.NewJSONLogger(cmd.ErrOrStderr(), cfg.Level())
			vc := clock.NewVirtual(time.Unix(0, 0))

			observer := simulation.WithObserver(func(snap simulation.Snapshot) {
				if !withGraph {
					snap = snap.Compact()
				}
				out.write(snap)
			})
			env, err := newRun(cmd.Context(), cfg, logger, vc, append(startOption(cmd), observer)...)
			if err != nil {
				return err
			}
			defer env.sim.Close()

			if withGraph {
				out.write(env.sim.Snapshot())
			}
			res := playScript(env.sim, vc, steps)
			env.logger.Info("script finished",
				logging.Int("accepted", res.Accepted),
				logging.Int("rejected", res.Rejected),
				logging.Int("ticks", res.Ticks))

			if withMetrics {
				samples, err := env.metrics.Summary()
				if err != nil {
					return fmt.Errorf("gather metrics: %w", err)
				}
				out.write(map[string]any{"run_id": env.runID, "result": res, "metrics": samples})
			}
			return out.err
		},
	}
	cmd.Flags().Bool("full", false, "Print the initial snapshot and include the graph in every snapshot")
	cmd.Flags().Bool("metrics", false, "Print gathered metrics after the script")
	return cmd
}
