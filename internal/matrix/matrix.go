// Package matrix runs the cross product of maps, waypoint
// configurations and agent counts as isolated experiments.
//
// Each cell re-invokes this binary's run subcommand as a child process
// under a wall-clock guard, so a wedged or crashing experiment can
// never take the matrix down with it. The guard is independent of the
// per-segment budget inside the cell.
package matrix

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/CTroy2003/mcpf-lacam3/internal/config"
	"github.com/CTroy2003/mcpf-lacam3/internal/result"
)

type Runner struct {
	Cfg *config.Config
	// SelfExe is the harness binary spawned per cell.
	SelfExe string
	// ConfigPath is forwarded to each cell invocation.
	ConfigPath string
}

// ScenFile resolves the scenario file for one map and waypoint config,
// following the <name>-random-<suffix>.scen dataset convention.
func ScenFile(m config.Map, wp config.WaypointConfig) string {
	return filepath.Join(m.ScenDir, fmt.Sprintf("%s-random-%s.scen", m.Name, wp.Suffix))
}

// CheckPrerequisites verifies the solver and every map and scenario
// file exist before any cell runs, listing all missing paths at once.
func (r *Runner) CheckPrerequisites() error {
	var missing []string
	if r.Cfg.Solver.Mode != "docker" {
		if _, err := os.Stat(r.Cfg.Solver.Exe); err != nil {
			missing = append(missing, r.Cfg.Solver.Exe)
		}
	}
	for _, m := range r.Cfg.Maps {
		if _, err := os.Stat(m.File); err != nil {
			missing = append(missing, m.File)
		}
		for _, wp := range r.Cfg.WaypointConfigs {
			scen := ScenFile(m, wp)
			if _, err := os.Stat(scen); err != nil {
				missing = append(missing, scen)
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required files:\n  %s", strings.Join(missing, "\n  "))
	}
	return nil
}

// Run executes every cell sequentially and returns all results. Only
// setup failures (unwritable results dir) abort the matrix; cell
// failures are classified and recorded.
func (r *Runner) Run(ctx context.Context) ([]result.MatrixCell, error) {
	baseDir := filepath.Join(r.Cfg.Results.Dir, "comprehensive")
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating results dir: %w", err)
	}

	total := len(r.Cfg.Maps) * len(r.Cfg.WaypointConfigs) * len(r.Cfg.AgentCounts)
	fmt.Printf("Starting comprehensive testing: %d experiments\n", total)

	var cells []result.MatrixCell
	n := 0
	for _, m := range r.Cfg.Maps {
		for _, wp := range r.Cfg.WaypointConfigs {
			for _, count := range r.Cfg.AgentCounts {
				n++
				fmt.Printf("\n[%d/%d] %s | %dwp | %d agents\n", n, total, m.Name, wp.Waypoints, count)
				cell := r.runCell(ctx, baseDir, m, wp, count)
				cells = append(cells, cell)
				if cell.Status == result.StatusSuccess {
					fmt.Printf("  SUCCESS: cost=%d, runtime=%.0fms\n",
						cell.Data.Global.TotalCost, cell.Data.Global.TotalRuntimeMS)
				} else {
					fmt.Printf("  FAILED: %s\n", cell.Status)
				}
			}
		}
	}
	return cells, nil
}

func (r *Runner) runCell(ctx context.Context, baseDir string, m config.Map, wp config.WaypointConfig, count int) result.MatrixCell {
	cell := result.MatrixCell{Map: m.Name, Waypoints: wp.Waypoints, AgentCount: count}
	outDir := filepath.Join(baseDir, fmt.Sprintf("%s_%dwp_%dagents", m.Name, wp.Waypoints, count))

	guard := time.Duration(r.Cfg.Timeouts.CellGuardSec) * time.Second
	cellCtx, cancel := context.WithTimeout(ctx, guard)
	defer cancel()

	cmd := exec.CommandContext(cellCtx, r.SelfExe, "run",
		"--config", r.ConfigPath,
		"--map", m.File,
		"--scen", ScenFile(m, wp),
		"--num", strconv.Itoa(count),
		"--out", outDir,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	cell.WallTimeS = time.Since(start).Seconds()

	switch {
	case cellCtx.Err() == context.DeadlineExceeded:
		cell.Status = result.StatusTimeout
		cell.WallTimeS = guard.Seconds()
		cell.Error = fmt.Sprintf("experiment timed out after %s", guard)
	case err != nil:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cell.Status = result.StatusFailed
			cell.Error = stderr.String()
			cell.Stdout = stdout.String()
		} else {
			cell.Status = result.StatusError
			cell.Error = err.Error()
		}
	default:
		summary, rerr := result.ReadExperimentSummary(filepath.Join(outDir, result.ExperimentSummaryFile))
		if rerr != nil {
			cell.Status = result.StatusNoSummary
			cell.Error = "summary file not found"
		} else {
			cell.Status = result.StatusSuccess
			cell.Data = summary
		}
	}
	return cell
}
