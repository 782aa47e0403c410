// Package segment decomposes waypoint routes into point-to-point
// sub-instances and divides the experiment time budget among them.
package segment

import (
	"fmt"
	"strings"

	"github.com/CTroy2003/mcpf-lacam3/internal/scenario"
)

// NumSegments is max(K)+1 over the agent set: one segment per waypoint
// transition plus the final leg to the goal. Zero agents means zero
// segments.
func NumSegments(agents []scenario.Agent) int {
	if len(agents) == 0 {
		return 0
	}
	max := 0
	for i := range agents {
		if k := agents[i].K(); k > max {
			max = k
		}
	}
	return max + 1
}

// Bounds computes one agent's start and goal for segment idx.
//
// Segment 0 runs from the true start to the first waypoint (or straight
// to the goal when K=0). Segment i in [1,K] runs from waypoint i-1 to
// waypoint i, except the last which runs to the goal. Past its own K the
// agent is parked: start and goal both equal the true goal, a trivial
// zero-length instance for the solver.
func Bounds(a scenario.Agent, idx int) (start, goal scenario.Cell) {
	k := a.K()
	switch {
	case idx == 0:
		start = a.Start
		if k > 0 {
			goal = a.Waypoints[0]
		} else {
			goal = a.Goal
		}
	case idx <= k:
		start = a.Waypoints[idx-1]
		if idx < k {
			goal = a.Waypoints[idx]
		} else {
			goal = a.Goal
		}
	default:
		start = a.Goal
		goal = a.Goal
	}
	return start, goal
}

// Build serializes a synthetic single-segment scenario in plain movingai
// scen format (no waypoint fields), one line per agent. The optimal
// length field is recomputed as the Manhattan distance of the segment's
// endpoints; it is a hint only and never validated by the solver.
func Build(agents []scenario.Agent, idx int, mapName string, mapWidth, mapHeight int) string {
	var b strings.Builder
	b.WriteString("version 1\n")
	for i := range agents {
		start, goal := Bounds(agents[i], idx)
		opt := manhattan(start, goal)
		fmt.Fprintf(&b, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			agents[i].Bucket, mapName, mapWidth, mapHeight,
			start.Row, start.Col, goal.Row, goal.Col, opt)
	}
	return b.String()
}

// PerSegmentTimeout divides a total budget (seconds) evenly across
// segments, never dropping below one second per segment.
func PerSegmentTimeout(totalSec, numSegments int) int {
	if numSegments < 1 {
		return totalSec
	}
	per := totalSec / numSegments
	if per < 1 {
		per = 1
	}
	return per
}

func manhattan(a, b scenario.Cell) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
