package segment_test

import (
	"strings"
	"testing"

	"github.com/CTroy2003/mcpf-lacam3/internal/scenario"
	"github.com/CTroy2003/mcpf-lacam3/internal/segment"
)

var twoWaypointAgent = scenario.Agent{
	Bucket: 0,
	Start:  scenario.Cell{Row: 1, Col: 1},
	Goal:   scenario.Cell{Row: 9, Col: 9},
	Waypoints: []scenario.Cell{
		{Row: 3, Col: 3},
		{Row: 6, Col: 6},
	},
}

func TestBounds(t *testing.T) {
	a := twoWaypointAgent
	tests := []struct {
		name        string
		idx         int
		start, goal scenario.Cell
	}{
		{"segment 0 starts at true start", 0, scenario.Cell{Row: 1, Col: 1}, scenario.Cell{Row: 3, Col: 3}},
		{"middle segment links waypoints", 1, scenario.Cell{Row: 3, Col: 3}, scenario.Cell{Row: 6, Col: 6}},
		{"last segment ends at true goal", 2, scenario.Cell{Row: 6, Col: 6}, scenario.Cell{Row: 9, Col: 9}},
		{"past K the agent is parked", 3, scenario.Cell{Row: 9, Col: 9}, scenario.Cell{Row: 9, Col: 9}},
		{"far past K still parked", 7, scenario.Cell{Row: 9, Col: 9}, scenario.Cell{Row: 9, Col: 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, goal := segment.Bounds(a, tt.idx)
			if start != tt.start || goal != tt.goal {
				t.Errorf("Bounds(%d) = %v -> %v, want %v -> %v", tt.idx, start, goal, tt.start, tt.goal)
			}
		})
	}
}

func TestBoundsNoWaypoints(t *testing.T) {
	a := scenario.Agent{
		Start: scenario.Cell{Row: 2, Col: 2},
		Goal:  scenario.Cell{Row: 5, Col: 5},
	}
	start, goal := segment.Bounds(a, 0)
	if start != a.Start || goal != a.Goal {
		t.Errorf("K=0 segment 0 = %v -> %v, want start -> goal", start, goal)
	}
	start, goal = segment.Bounds(a, 1)
	if start != a.Goal || goal != a.Goal {
		t.Errorf("K=0 segment 1 = %v -> %v, want parked at goal", start, goal)
	}
}

func TestNumSegments(t *testing.T) {
	k0 := scenario.Agent{}
	k2 := twoWaypointAgent
	tests := []struct {
		name   string
		agents []scenario.Agent
		want   int
	}{
		{"no agents", nil, 0},
		{"single K=0 agent", []scenario.Agent{k0}, 1},
		{"max K wins", []scenario.Agent{k0, k2}, 3},
		{"order irrelevant", []scenario.Agent{k2, k0}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := segment.NumSegments(tt.agents); got != tt.want {
				t.Errorf("NumSegments = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPerSegmentTimeout(t *testing.T) {
	tests := []struct {
		total, segments, want int
	}{
		{100, 3, 33},
		{100, 1, 100},
		{5, 10, 1},
		{1, 1, 1},
		{9, 9, 1},
		{10, 3, 3},
	}
	for _, tt := range tests {
		if got := segment.PerSegmentTimeout(tt.total, tt.segments); got != tt.want {
			t.Errorf("PerSegmentTimeout(%d, %d) = %d, want %d", tt.total, tt.segments, got, tt.want)
		}
	}
}

// Mirrors the canonical two-agent case: agent A has one waypoint, agent
// B has none, so the experiment has exactly two segments.
func TestBuildTwoAgents(t *testing.T) {
	a := scenario.Agent{
		Bucket:    0,
		Start:     scenario.Cell{Row: 1, Col: 1},
		Goal:      scenario.Cell{Row: 8, Col: 8},
		Waypoints: []scenario.Cell{{Row: 4, Col: 5}},
	}
	b := scenario.Agent{
		Bucket: 1,
		Start:  scenario.Cell{Row: 2, Col: 2},
		Goal:   scenario.Cell{Row: 7, Col: 7},
	}
	agents := []scenario.Agent{a, b}

	if got := segment.NumSegments(agents); got != 2 {
		t.Fatalf("NumSegments = %d, want 2", got)
	}

	seg0 := segment.Build(agents, 0, "maze.map", 128, 128)
	want0 := "version 1\n" +
		"0\tmaze.map\t128\t128\t1\t1\t4\t5\t7\n" + // A: start -> wp1
		"1\tmaze.map\t128\t128\t2\t2\t7\t7\t10\n" // B: start -> goal
	if seg0 != want0 {
		t.Errorf("segment 0:\ngot:\n%swant:\n%s", seg0, want0)
	}

	seg1 := segment.Build(agents, 1, "maze.map", 128, 128)
	want1 := "version 1\n" +
		"0\tmaze.map\t128\t128\t4\t5\t8\t8\t7\n" + // A: wp1 -> goal
		"1\tmaze.map\t128\t128\t7\t7\t7\t7\t0\n" // B: parked, zero-length
	if seg1 != want1 {
		t.Errorf("segment 1:\ngot:\n%swant:\n%s", seg1, want1)
	}
}

func TestBuildOptimalLengthIsManhattan(t *testing.T) {
	a := scenario.Agent{
		Bucket: 3,
		Start:  scenario.Cell{Row: 10, Col: 2},
		Goal:   scenario.Cell{Row: 4, Col: 9},
	}
	out := segment.Build([]scenario.Agent{a}, 0, "m.map", 32, 32)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 line, got %d", len(lines))
	}
	// |10-4| + |2-9| = 13
	if !strings.HasSuffix(lines[1], "\t13") {
		t.Errorf("expected Manhattan distance 13, got line %q", lines[1])
	}
}
