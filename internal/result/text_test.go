package result_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CTroy2003/mcpf-lacam3/internal/result"
)

func samplePoints() []result.ScalePoint {
	return []result.ScalePoint{
		{
			AgentCount: 100,
			Summary: &result.ExperimentSummary{
				Info: result.ExperimentInfo{NumAgents: 100},
				Global: result.GlobalResults{
					TotalCost: 5000, TotalRuntimeMS: 2500,
					MaxMakespan: 80, NumSegments: 3, AllSegmentsSolved: true,
				},
				Performance: result.PerformanceMetrics{
					AvgRuntimePerSegmentMS: 833.3,
					AvgCostPerSegment:      1666.7,
					AvgCostPerAgent:        50.0,
					CostEfficiency:         2.0,
				},
			},
		},
		{AgentCount: 200, Error: "segment 1: solver timed out after 33s"},
	}
}

func TestSweepTable(t *testing.T) {
	var buf bytes.Buffer
	result.SweepTable(&buf, samplePoints())
	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + separator + 2 rows, got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[2], "yes") || !strings.Contains(lines[2], "5000") {
		t.Errorf("solved row malformed: %q", lines[2])
	}
	if !strings.Contains(lines[3], "N/A") || !strings.Contains(lines[3], "no") {
		t.Errorf("failed row must show N/A columns: %q", lines[3])
	}
}

func TestWriteSweepText(t *testing.T) {
	dir := t.TempDir()
	err := result.WriteSweepText(dir, "mcpf run --multi-scale", "2026-08-23T10:00:00Z", samplePoints())
	if err != nil {
		t.Fatalf("WriteSweepText: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "multi_scale_summary.txt"))
	if err != nil {
		t.Fatalf("reading sweep text: %v", err)
	}
	out := string(data)
	for _, want := range []string{
		"Multi-Scale LACAM Results Summary",
		"Command: mcpf run --multi-scale",
		"Detailed Results:",
		"Failed: segment 1: solver timed out after 33s",
		"Performance Metrics (Average across all experiments):",
		"Avg Cost per Agent: 50.0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("sweep text missing %q", want)
		}
	}
}

func TestWriteSweepTextAllFailed(t *testing.T) {
	dir := t.TempDir()
	points := []result.ScalePoint{{AgentCount: 100, Error: "boom"}}
	if err := result.WriteSweepText(dir, "cmd", "ts", points); err != nil {
		t.Fatalf("WriteSweepText: %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "multi_scale_summary.txt"))
	if strings.Contains(string(data), "Performance Metrics") {
		t.Error("no solved points, averages section must be omitted")
	}
}

func TestExperimentSummaryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := &result.ExperimentSummary{
		Info:   result.ExperimentInfo{RunID: "abc", NumAgents: 10, TotalSegments: 2},
		Global: result.GlobalResults{TotalCost: 77, AllSegmentsSolved: true},
		Segments: []result.SegmentResult{
			{Segment: 0, Cost: 40, Solved: true},
			{Segment: 1, Cost: 37, Solved: true},
		},
	}
	if err := result.WriteExperimentSummary(dir, s); err != nil {
		t.Fatalf("WriteExperimentSummary: %v", err)
	}
	got, err := result.ReadExperimentSummary(filepath.Join(dir, result.ExperimentSummaryFile))
	if err != nil {
		t.Fatalf("ReadExperimentSummary: %v", err)
	}
	if got.Info.RunID != "abc" || got.Global.TotalCost != 77 || len(got.Segments) != 2 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}
