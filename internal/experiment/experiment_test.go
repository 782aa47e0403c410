package experiment_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/CTroy2003/mcpf-lacam3/internal/experiment"
	"github.com/CTroy2003/mcpf-lacam3/internal/result"
	"github.com/CTroy2003/mcpf-lacam3/internal/scenario"
	"github.com/CTroy2003/mcpf-lacam3/internal/solver"
)

// stubSolver returns scripted outcomes per segment and records every
// instance it is handed.
type stubSolver struct {
	outcomes  []stubOutcome
	instances []solver.Instance
}

type stubOutcome struct {
	cost     int
	makespan int
	solved   bool
	err      error
}

func (s *stubSolver) Solve(ctx context.Context, inst *solver.Instance) (*solver.Outcome, error) {
	i := len(s.instances)
	s.instances = append(s.instances, *inst)
	if i >= len(s.outcomes) {
		return nil, fmt.Errorf("unexpected segment %d", i)
	}
	o := s.outcomes[i]
	if o.err != nil {
		return nil, o.err
	}
	// The orchestrator copies the artifact out of the temp dir.
	content := fmt.Sprintf("soc=%d\nmakespan=%d\nsolved=1\n", o.cost, o.makespan)
	if err := os.WriteFile(inst.OutPath, []byte(content), 0o644); err != nil {
		return nil, err
	}
	return &solver.Outcome{
		Cost:     o.cost,
		Makespan: o.makespan,
		Solved:   o.solved,
		Runtime:  10 * time.Millisecond,
	}, nil
}

func testAgents() []scenario.Agent {
	return []scenario.Agent{
		{
			Bucket:    0,
			Start:     scenario.Cell{Row: 1, Col: 1},
			Goal:      scenario.Cell{Row: 8, Col: 8},
			Waypoints: []scenario.Cell{{Row: 4, Col: 4}, {Row: 6, Col: 6}},
		},
		{
			Bucket: 1,
			Start:  scenario.Cell{Row: 2, Col: 2},
			Goal:   scenario.Cell{Row: 7, Col: 7},
		},
	}
}

func TestRunAggregates(t *testing.T) {
	stub := &stubSolver{outcomes: []stubOutcome{
		{cost: 10, makespan: 5, solved: true},
		{cost: 20, makespan: 9, solved: true},
		{cost: 5, makespan: 3, solved: true},
	}}
	outDir := t.TempDir()

	summary, err := experiment.Run(context.Background(), &experiment.Opts{
		Solver:          stub,
		SolverLabel:     "stub",
		MapPath:         "maze.map",
		ScenPath:        "maze.scen",
		Agents:          testAgents(),
		Seed:            42,
		TotalTimeoutSec: 9,
		OutDir:          outDir,
		Command:         "test run",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(stub.instances) != 3 {
		t.Fatalf("expected 3 segment invocations, got %d", len(stub.instances))
	}
	for i, inst := range stub.instances {
		if inst.NumAgents != 2 {
			t.Errorf("segment %d: num agents %d, want 2", i, inst.NumAgents)
		}
		if inst.TimeoutSec != 3 {
			t.Errorf("segment %d: timeout %ds, want 9/3=3", i, inst.TimeoutSec)
		}
	}

	g := summary.Global
	if g.TotalCost != 35 {
		t.Errorf("total cost: got %d, want 35", g.TotalCost)
	}
	if g.MaxMakespan != 9 {
		t.Errorf("max makespan: got %d, want 9", g.MaxMakespan)
	}
	if g.NumSegments != 3 {
		t.Errorf("num segments: got %d, want 3", g.NumSegments)
	}
	if !g.AllSegmentsSolved {
		t.Error("expected all segments solved")
	}
	if summary.Agents.TotalTransitions != 2 {
		t.Errorf("transitions: got %d, want 2", summary.Agents.TotalTransitions)
	}
	if got := summary.Performance.AvgCostPerAgent; got != 17.5 {
		t.Errorf("cost/agent: got %f, want 17.5", got)
	}

	sum := 0
	for _, seg := range summary.Segments {
		sum += seg.Cost
	}
	if sum != g.TotalCost {
		t.Errorf("total cost %d != sum of segment costs %d", g.TotalCost, sum)
	}

	for _, name := range []string{"waypoint_summary.json", "waypoint_summary.txt", "segment_0.yaml", "segment_1.yaml", "segment_2.yaml"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing output artifact %s", name)
		}
	}

	reread, err := result.ReadExperimentSummary(filepath.Join(outDir, "waypoint_summary.json"))
	if err != nil {
		t.Fatalf("ReadExperimentSummary: %v", err)
	}
	if reread.Global.TotalCost != g.TotalCost {
		t.Errorf("persisted summary disagrees: %d != %d", reread.Global.TotalCost, g.TotalCost)
	}
}

// A failure mid-chain forfeits the whole experiment: no summary may be
// written and no later segment may run.
func TestRunFailFast(t *testing.T) {
	stub := &stubSolver{outcomes: []stubOutcome{
		{cost: 10, makespan: 5, solved: true},
		{err: &solver.ExitError{Code: 1, Stderr: "boom"}},
		{cost: 5, makespan: 3, solved: true},
	}}
	outDir := t.TempDir()

	_, err := experiment.Run(context.Background(), &experiment.Opts{
		Solver:          stub,
		MapPath:         "maze.map",
		ScenPath:        "maze.scen",
		Agents:          testAgents(),
		TotalTimeoutSec: 9,
		OutDir:          outDir,
	})
	if err == nil {
		t.Fatal("expected experiment to fail")
	}
	var exitErr *solver.ExitError
	if !errors.As(err, &exitErr) {
		t.Errorf("expected ExitError in chain, got %v", err)
	}
	if len(stub.instances) != 2 {
		t.Errorf("expected no segment after the failure, got %d invocations", len(stub.instances))
	}
	if _, err := os.Stat(filepath.Join(outDir, "waypoint_summary.json")); err == nil {
		t.Error("partial summary must not be written after a failure")
	}
	if _, err := os.Stat(filepath.Join(outDir, "experiment_error.txt")); err != nil {
		t.Error("expected a best-effort failure report")
	}
}

func TestRunNoAgents(t *testing.T) {
	_, err := experiment.Run(context.Background(), &experiment.Opts{
		Solver: &stubSolver{},
		OutDir: t.TempDir(),
	})
	if err == nil {
		t.Fatal("expected error for empty agent set")
	}
}
