// Package sweep repeats one scenario's experiment across increasing
// agent-count prefixes.
//
// Failure policy differs from the experiment layer on purpose: a failed
// scale point is recorded and later points still run, while inside one
// point any segment failure kills that point outright.
package sweep

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/CTroy2003/mcpf-lacam3/internal/experiment"
	"github.com/CTroy2003/mcpf-lacam3/internal/result"
	"github.com/CTroy2003/mcpf-lacam3/internal/scenario"
	"github.com/CTroy2003/mcpf-lacam3/internal/solver"
)

// DefaultAgentCounts are the multi-scale truncations used when the
// config does not override them.
var DefaultAgentCounts = []int{100, 200, 300, 400, 500}

type Opts struct {
	Solver          solver.Solver
	SolverLabel     string
	MapPath         string
	ScenPath        string
	Agents          []scenario.Agent
	AgentCounts     []int
	Seed            int
	TotalTimeoutSec int
	OutDir          string
	Command         string
}

// Run executes one experiment per agent count, ascending, each on the
// file-order prefix of the parsed agents. Writes
// multi_scale_summary.json/.txt into OutDir and returns every point,
// failed ones included.
func Run(ctx context.Context, opts *Opts) ([]result.ScalePoint, error) {
	counts := append([]int(nil), opts.AgentCounts...)
	if len(counts) == 0 {
		counts = append(counts, DefaultAgentCounts...)
	}
	sort.Ints(counts)

	var points []result.ScalePoint
	for _, count := range counts {
		fmt.Printf("\n%s\n", header(fmt.Sprintf("STARTING EXPERIMENT WITH %d AGENTS", count)))

		agents := scenario.Prefix(opts.Agents, count)
		outDir := filepath.Join(opts.OutDir, fmt.Sprintf("exp_%d_agents", count))

		summary, err := experiment.Run(ctx, &experiment.Opts{
			Solver:          opts.Solver,
			SolverLabel:     opts.SolverLabel,
			MapPath:         opts.MapPath,
			ScenPath:        opts.ScenPath,
			Agents:          agents,
			Seed:            opts.Seed,
			TotalTimeoutSec: opts.TotalTimeoutSec,
			OutDir:          outDir,
			Command:         opts.Command,
		})
		if err != nil {
			fmt.Printf("\nFAILED: %d agents - %v\n", count, err)
			points = append(points, result.ScalePoint{AgentCount: count, Error: err.Error()})
			continue
		}
		fmt.Printf("\nCOMPLETED: %d agents - Runtime: %.0fms, Cost: %d\n",
			count, summary.Global.TotalRuntimeMS, summary.Global.TotalCost)
		points = append(points, result.ScalePoint{AgentCount: count, Summary: summary})
	}

	if err := result.WriteSweepSummary(opts.OutDir, points); err != nil {
		return points, err
	}
	timestamp := time.Now().Format(time.RFC3339)
	if err := result.WriteSweepText(opts.OutDir, opts.Command, timestamp, points); err != nil {
		return points, err
	}
	return points, nil
}

func header(s string) string {
	line := strings.Repeat("=", 60)
	return line + "\n" + s + "\n" + line
}
