package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/CTroy2003/mcpf-lacam3/internal/result"
)

// Render re-renders a stored matrix report in the requested format.
// dir is the directory holding comprehensive_report.json.
func Render(dir, format string, w io.Writer) error {
	cells, err := result.ReadMatrixReport(filepath.Join(dir, result.MatrixReportFile))
	if err != nil {
		return err
	}
	switch format {
	case "markdown":
		return writeMarkdown(cells, w)
	case "json":
		return writeJSON(cells, w)
	default:
		return writeTable(cells, w)
	}
}

// WriteMatrixText writes comprehensive_summary.txt: header, success
// rate, fixed-width results table and a per-map performance analysis.
func WriteMatrixText(dir string, cells []result.MatrixCell) error {
	var b strings.Builder
	b.WriteString("COMPREHENSIVE LACAM TESTING REPORT\n")
	b.WriteString(strings.Repeat("=", 80) + "\n\n")
	fmt.Fprintf(&b, "Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&b, "Total Experiments: %d\n\n", len(cells))

	successful := 0
	for _, c := range cells {
		if c.Status == result.StatusSuccess {
			successful++
		}
	}
	if len(cells) > 0 {
		fmt.Fprintf(&b, "Success Rate: %d/%d (%.1f%%)\n\n",
			successful, len(cells), float64(successful)/float64(len(cells))*100)
	}

	b.WriteString("RESULTS SUMMARY\n")
	b.WriteString(strings.Repeat("-", 100) + "\n")
	fmt.Fprintf(&b, "%-20s %-3s %-7s %-10s %-10s %-12s %-12s\n",
		"Map", "WP", "Agents", "Status", "Runtime", "Cost", "Cost/Agent")
	b.WriteString(strings.Repeat("-", 100) + "\n")
	for _, c := range cells {
		name := c.Map
		if len(name) > 19 {
			name = name[:19]
		}
		runtime, cost, costPerAgent := "N/A", "N/A", "N/A"
		if c.Status == result.StatusSuccess {
			runtime = fmt.Sprintf("%.0fms", c.Data.Global.TotalRuntimeMS)
			cost = fmt.Sprintf("%d", c.Data.Global.TotalCost)
			costPerAgent = fmt.Sprintf("%.1f", c.Data.Performance.AvgCostPerAgent)
		}
		fmt.Fprintf(&b, "%-20s %-3d %-7d %-10s %-10s %-12s %-12s\n",
			name, c.Waypoints, c.AgentCount, c.Status, runtime, cost, costPerAgent)
	}

	b.WriteString("\n\nPERFORMANCE ANALYSIS BY MAP\n")
	b.WriteString(strings.Repeat("-", 50) + "\n")
	for _, mapName := range mapOrder(cells) {
		fmt.Fprintf(&b, "\n%s:\n", mapName)
		for _, wp := range waypointOrder(cells, mapName) {
			var costPerAgent, runtime float64
			n := 0
			for _, c := range cells {
				if c.Map == mapName && c.Waypoints == wp && c.Status == result.StatusSuccess {
					costPerAgent += c.Data.Performance.AvgCostPerAgent
					runtime += c.Data.Global.TotalRuntimeMS
					n++
				}
			}
			if n > 0 {
				fmt.Fprintf(&b, "  %dwp: Avg cost/agent=%.1f, Avg runtime=%.0fms\n",
					wp, costPerAgent/float64(n), runtime/float64(n))
			}
		}
	}

	return os.WriteFile(filepath.Join(dir, "comprehensive_summary.txt"), []byte(b.String()), 0o644)
}

// mapOrder returns distinct map names in first-seen order.
func mapOrder(cells []result.MatrixCell) []string {
	seen := map[string]bool{}
	var names []string
	for _, c := range cells {
		if !seen[c.Map] {
			seen[c.Map] = true
			names = append(names, c.Map)
		}
	}
	return names
}

func waypointOrder(cells []result.MatrixCell, mapName string) []int {
	seen := map[int]bool{}
	var wps []int
	for _, c := range cells {
		if c.Map == mapName && !seen[c.Waypoints] {
			seen[c.Waypoints] = true
			wps = append(wps, c.Waypoints)
		}
	}
	return wps
}

func writeTable(cells []result.MatrixCell, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MAP\tWP\tAGENTS\tSTATUS\tRUNTIME\tCOST\tCOST/AGENT")
	fmt.Fprintln(tw, strings.Repeat("-", 80))
	for _, c := range cells {
		if c.Status == result.StatusSuccess {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%.0fms\t%d\t%.1f\n",
				c.Map, c.Waypoints, c.AgentCount, c.Status,
				c.Data.Global.TotalRuntimeMS, c.Data.Global.TotalCost,
				c.Data.Performance.AvgCostPerAgent)
		} else {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%s\tN/A\tN/A\tN/A\n",
				c.Map, c.Waypoints, c.AgentCount, c.Status)
		}
	}
	return tw.Flush()
}

func writeMarkdown(cells []result.MatrixCell, w io.Writer) error {
	fmt.Fprintln(w, "| Map | WP | Agents | Status | Runtime | Cost | Cost/Agent |")
	fmt.Fprintln(w, "|---|---|---|---|---|---|---|")
	for _, c := range cells {
		if c.Status == result.StatusSuccess {
			fmt.Fprintf(w, "| %s | %d | %d | %s | %.0fms | %d | %.1f |\n",
				c.Map, c.Waypoints, c.AgentCount, c.Status,
				c.Data.Global.TotalRuntimeMS, c.Data.Global.TotalCost,
				c.Data.Performance.AvgCostPerAgent)
		} else {
			fmt.Fprintf(w, "| %s | %d | %d | %s | N/A | N/A | N/A |\n",
				c.Map, c.Waypoints, c.AgentCount, c.Status)
		}
	}
	return nil
}

func writeJSON(cells []result.MatrixCell, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cells)
}
