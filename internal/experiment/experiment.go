// Package experiment drives the segment chain for one agent set.
//
// Segments run strictly in order: an agent must finish segment i before
// segment i+1's start coordinates are meaningful, so there is never more
// than one solver child in flight. A single segment failure forfeits the
// whole experiment; the caller decides what to do with the typed error.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CTroy2003/mcpf-lacam3/internal/result"
	"github.com/CTroy2003/mcpf-lacam3/internal/scenario"
	"github.com/CTroy2003/mcpf-lacam3/internal/segment"
	"github.com/CTroy2003/mcpf-lacam3/internal/solver"
)

type Opts struct {
	Solver solver.Solver
	// SolverLabel identifies the backend (exe path or image) in reports.
	SolverLabel string
	MapPath     string
	ScenPath    string
	Agents      []scenario.Agent
	Seed        int
	// TotalTimeoutSec is divided evenly across segments.
	TotalTimeoutSec int
	OutDir          string
	// Command is the invocation recorded in experiment metadata.
	Command string
}

// Run executes every segment of one experiment and writes
// waypoint_summary.json/.txt into OutDir. All transient scenario and
// artifact files live in a per-run temp dir released on every exit
// path; only the copied per-segment plans and summaries survive.
func Run(ctx context.Context, opts *Opts) (*result.ExperimentSummary, error) {
	if len(opts.Agents) == 0 {
		return nil, fmt.Errorf("no agents in experiment")
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "mcpf-segments-")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	numAgents := len(opts.Agents)
	numSegments := segment.NumSegments(opts.Agents)
	maxWaypoints := numSegments - 1
	perSegment := segment.PerSegmentTimeout(opts.TotalTimeoutSec, numSegments)

	fmt.Printf("Found %d agents with up to %d waypoints each\n", numAgents, maxWaypoints)
	fmt.Printf("Total timeout: %ds, Per-segment timeout: %ds (%d segments)\n",
		opts.TotalTimeoutSec, perSegment, numSegments)

	runID := uuid.NewString()
	mapName := filepath.Base(opts.MapPath)
	mapWidth, mapHeight := scenario.MapDimensions(opts.MapPath)

	info := result.ExperimentInfo{
		RunID:             runID,
		MapFile:           opts.MapPath,
		ScenarioFile:      opts.ScenPath,
		NumAgents:         numAgents,
		MaxWaypoints:      maxWaypoints,
		TotalSegments:     numSegments,
		Command:           opts.Command,
		Timestamp:         time.Now().Format(time.RFC3339),
		Solver:            opts.SolverLabel,
		TotalTimeoutSec:   opts.TotalTimeoutSec,
		PerSegmentTimeout: perSegment,
	}

	wallStart := time.Now()
	var segments []result.SegmentResult
	totalCost := 0
	var totalRuntime time.Duration

	for i := 0; i < numSegments; i++ {
		fmt.Printf("\n--- Segment %d ---\n", i)

		scenText := segment.Build(opts.Agents, i, mapName, mapWidth, mapHeight)
		scenPath := filepath.Join(tmpDir, fmt.Sprintf("segment-%d-%s.scen", i, runID[:8]))
		if err := os.WriteFile(scenPath, []byte(scenText), 0o644); err != nil {
			return nil, fmt.Errorf("writing segment %d scenario: %w", i, err)
		}
		outPath := filepath.Join(tmpDir, fmt.Sprintf("segment-%d-%s.yaml", i, runID[:8]))

		outcome, err := opts.Solver.Solve(ctx, &solver.Instance{
			MapPath:    opts.MapPath,
			ScenPath:   scenPath,
			OutPath:    outPath,
			NumAgents:  numAgents,
			Seed:       opts.Seed,
			TimeoutSec: perSegment,
		})
		if err != nil {
			writeFailureReport(opts.OutDir, i, err)
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}

		planFile := filepath.Join(opts.OutDir, fmt.Sprintf("segment_%d.yaml", i))
		if err := copyFile(outPath, planFile); err != nil {
			return nil, fmt.Errorf("saving segment %d plan: %w", i, err)
		}

		segments = append(segments, result.SegmentResult{
			Segment:   i,
			Cost:      outcome.Cost,
			Makespan:  outcome.Makespan,
			RuntimeMS: float64(outcome.Runtime.Milliseconds()),
			Solved:    outcome.Solved,
			PlanFile:  planFile,
		})
		totalCost += outcome.Cost
		totalRuntime += outcome.Runtime

		fmt.Printf("seg %d  runtime=%dms  cost=%d\n", i, outcome.Runtime.Milliseconds(), outcome.Cost)
	}

	wallClock := time.Since(wallStart)
	transitions := 0
	for i := range opts.Agents {
		transitions += opts.Agents[i].K()
	}
	summary := aggregate(info, segments, totalCost, transitions, totalRuntime, wallClock)

	fmt.Printf("\n--- Global Summary ---\n")
	fmt.Printf("Total segment runtime: %.0fms\n", summary.Global.TotalRuntimeMS)
	fmt.Printf("Total segment cost: %d\n", summary.Global.TotalCost)
	fmt.Printf("Wall-clock time: %.0fms\n", summary.Global.WallClockMS)

	if err := result.WriteExperimentSummary(opts.OutDir, summary); err != nil {
		return nil, err
	}
	if err := result.WriteExperimentText(opts.OutDir, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

func aggregate(info result.ExperimentInfo, segments []result.SegmentResult, totalCost, transitions int, totalRuntime, wallClock time.Duration) *result.ExperimentSummary {
	maxMakespan := 0
	allSolved := true
	for _, seg := range segments {
		if seg.Makespan > maxMakespan {
			maxMakespan = seg.Makespan
		}
		allSolved = allSolved && seg.Solved
	}

	runtimeMS := float64(totalRuntime.Milliseconds())
	wallMS := float64(wallClock.Milliseconds())
	numSegments := len(segments)

	perf := result.PerformanceMetrics{}
	if numSegments > 0 {
		perf.AvgRuntimePerSegmentMS = runtimeMS / float64(numSegments)
		perf.AvgCostPerSegment = float64(totalCost) / float64(numSegments)
	}
	if info.NumAgents > 0 {
		perf.AvgCostPerAgent = float64(totalCost) / float64(info.NumAgents)
	}
	if wallMS > 0 {
		perf.CostEfficiency = float64(totalCost) / wallMS
	}

	return &result.ExperimentSummary{
		Info: info,
		Global: result.GlobalResults{
			TotalCost:         totalCost,
			TotalRuntimeMS:    runtimeMS,
			WallClockMS:       wallMS,
			MaxMakespan:       maxMakespan,
			NumSegments:       numSegments,
			AllSegmentsSolved: allSolved,
			EndTime:           time.Now().Format(time.RFC3339),
		},
		Segments: segments,
		Agents: result.AgentSummary{
			TotalAgents:          info.NumAgents,
			MaxWaypointsPerAgent: info.MaxWaypoints,
			TotalTransitions:     transitions,
			TotalPathSegments:    info.TotalSegments * info.NumAgents,
		},
		Performance: perf,
	}
}

// writeFailureReport leaves a best-effort trace of the aborted segment
// next to where the summary would have gone. Never fatal.
func writeFailureReport(dir string, segmentIdx int, cause error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Segment %d failed: %v\n", segmentIdx, cause)
	var exitErr *solver.ExitError
	if errors.As(cause, &exitErr) {
		fmt.Fprintf(&b, "\ncommand: %s\n", exitErr.Cmd)
		fmt.Fprintf(&b, "\n--- stdout ---\n%s\n", exitErr.Stdout)
		fmt.Fprintf(&b, "\n--- stderr ---\n%s\n", exitErr.Stderr)
	}
	if err := os.WriteFile(filepath.Join(dir, "experiment_error.txt"), []byte(b.String()), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "warning: writing failure report: %v\n", err)
	}
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
