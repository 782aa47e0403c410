package result

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Human-readable companions to the JSON artifacts. Layouts follow the
// established report shapes so downstream tooling that greps these
// files keeps working.

func WriteExperimentText(dir string, s *ExperimentSummary) error {
	var b strings.Builder
	b.WriteString("Multi-Waypoint LACAM Results Summary\n")
	b.WriteString(strings.Repeat("=", 40) + "\n\n")
	fmt.Fprintf(&b, "Experiment Date: %s\n", s.Info.Timestamp)
	fmt.Fprintf(&b, "Map: %s\n", s.Info.MapFile)
	fmt.Fprintf(&b, "Scenario: %s\n", s.Info.ScenarioFile)
	fmt.Fprintf(&b, "Command: %s\n\n", s.Info.Command)

	b.WriteString("Agent Configuration:\n")
	fmt.Fprintf(&b, "  Total Agents: %d\n", s.Agents.TotalAgents)
	fmt.Fprintf(&b, "  Max Waypoints per Agent: %d\n", s.Agents.MaxWaypointsPerAgent)
	fmt.Fprintf(&b, "  Total Path Segments: %d\n\n", s.Agents.TotalPathSegments)

	b.WriteString("Global Results:\n")
	fmt.Fprintf(&b, "  Total Cost (SOC): %d\n", s.Global.TotalCost)
	fmt.Fprintf(&b, "  Max Makespan: %d\n", s.Global.MaxMakespan)
	fmt.Fprintf(&b, "  Total Runtime: %.0fms\n", s.Global.TotalRuntimeMS)
	fmt.Fprintf(&b, "  Wall-Clock Time: %.0fms\n", s.Global.WallClockMS)
	fmt.Fprintf(&b, "  All Segments Solved: %v\n\n", s.Global.AllSegmentsSolved)

	b.WriteString("Performance Metrics:\n")
	fmt.Fprintf(&b, "  Avg Runtime per Segment: %.1fms\n", s.Performance.AvgRuntimePerSegmentMS)
	fmt.Fprintf(&b, "  Avg Cost per Segment: %.1f\n", s.Performance.AvgCostPerSegment)
	fmt.Fprintf(&b, "  Avg Cost per Agent: %.1f\n\n", s.Performance.AvgCostPerAgent)

	b.WriteString("Segment Breakdown:\n")
	for _, seg := range s.Segments {
		fmt.Fprintf(&b, "  Segment %d: cost=%d, makespan=%d, runtime=%.0fms, solved=%v\n",
			seg.Segment, seg.Cost, seg.Makespan, seg.RuntimeMS, seg.Solved)
	}
	return os.WriteFile(filepath.Join(dir, "waypoint_summary.txt"), []byte(b.String()), 0o644)
}

// SweepTable renders the per-scale-point summary table shared by the
// console output and the sweep text report.
func SweepTable(w io.Writer, points []ScalePoint) {
	fmt.Fprintln(w, "| Agents | Runtime | Total Cost | Cost/Agent | Segments | Success |")
	fmt.Fprintln(w, "|--------|---------|------------|------------|----------|---------|")
	for _, p := range points {
		if p.Summary == nil {
			fmt.Fprintf(w, "| %6d | %7s | %10s | %10s | %8s | %7s |\n",
				p.AgentCount, "N/A", "N/A", "N/A", "N/A", "no")
			continue
		}
		g := p.Summary.Global
		fmt.Fprintf(w, "| %6d | %6.2fs | %10d | %10.1f | %8d | %7s |\n",
			p.AgentCount, g.TotalRuntimeMS/1000, g.TotalCost,
			p.Summary.Performance.AvgCostPerAgent, g.NumSegments,
			yesNo(g.AllSegmentsSolved))
	}
}

func WriteSweepText(dir, command, timestamp string, points []ScalePoint) error {
	var b strings.Builder
	b.WriteString("Multi-Scale LACAM Results Summary\n")
	b.WriteString(strings.Repeat("=", 40) + "\n\n")
	fmt.Fprintf(&b, "Experiment Date: %s\n", timestamp)
	fmt.Fprintf(&b, "Command: %s\n\n", command)

	b.WriteString("Experiment Results Summary:\n")
	SweepTable(&b, points)

	b.WriteString("\nDetailed Results:\n")
	for _, p := range points {
		fmt.Fprintf(&b, "  Agents: %d\n", p.AgentCount)
		if p.Summary == nil {
			fmt.Fprintf(&b, "    Failed: %s\n\n", p.Error)
			continue
		}
		g := p.Summary.Global
		fmt.Fprintf(&b, "    Total Cost: %d\n", g.TotalCost)
		fmt.Fprintf(&b, "    Max Makespan: %d\n", g.MaxMakespan)
		fmt.Fprintf(&b, "    Total Runtime: %.0fms\n", g.TotalRuntimeMS)
		fmt.Fprintf(&b, "    Wall-Clock Time: %.0fms\n", g.WallClockMS)
		fmt.Fprintf(&b, "    All Segments Solved: %v\n", g.AllSegmentsSolved)
		fmt.Fprintf(&b, "    Num Segments: %d\n\n", g.NumSegments)
	}

	if solved := solvedPoints(points); len(solved) > 0 {
		b.WriteString("Performance Metrics (Average across all experiments):\n")
		var runtime, cost, costPerAgent, efficiency float64
		for _, p := range solved {
			runtime += p.Summary.Performance.AvgRuntimePerSegmentMS
			cost += p.Summary.Performance.AvgCostPerSegment
			costPerAgent += p.Summary.Performance.AvgCostPerAgent
			efficiency += p.Summary.Performance.CostEfficiency
		}
		n := float64(len(solved))
		fmt.Fprintf(&b, "  Avg Runtime per Segment: %.1fms\n", runtime/n)
		fmt.Fprintf(&b, "  Avg Cost per Segment: %.1f\n", cost/n)
		fmt.Fprintf(&b, "  Avg Cost per Agent: %.1f\n", costPerAgent/n)
		fmt.Fprintf(&b, "  Avg Cost Efficiency (cost/ms): %.4f\n", efficiency/n)
	}
	return os.WriteFile(filepath.Join(dir, "multi_scale_summary.txt"), []byte(b.String()), 0o644)
}

func solvedPoints(points []ScalePoint) []ScalePoint {
	var out []ScalePoint
	for _, p := range points {
		if p.Summary != nil {
			out = append(out, p)
		}
	}
	return out
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
