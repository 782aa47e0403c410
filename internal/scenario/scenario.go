// Package scenario reads waypoint-augmented MAPF scenario files.
//
// The format extends the movingai scen format: each tab-delimited line
// carries the standard nine fields (bucket, map, width, height, start
// row/col, goal row/col, optimal length) followed by a waypoint count K
// and 2*K waypoint coordinates.
package scenario

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

type Cell struct {
	Row int
	Col int
}

// Agent is one scenario line. Immutable after parsing.
type Agent struct {
	Bucket    int
	Start     Cell
	Goal      Cell
	Waypoints []Cell
}

// K is the agent's waypoint count.
func (a *Agent) K() int {
	return len(a.Waypoints)
}

// Parse reads a waypoint scenario file. An optional leading "version"
// header line is skipped. In lenient mode malformed lines are skipped
// with a warning, matching the movingai ecosystem's tolerance for hand
// edited scen files; in strict mode any malformed line fails the whole
// parse with a line-numbered error.
func Parse(path string, strict bool) ([]Agent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scenario %s: %w", path, err)
	}
	defer f.Close()

	var agents []Agent
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if lineNo == 1 && strings.HasPrefix(line, "version") {
			continue
		}
		agent, err := parseLine(line)
		if err != nil {
			if strict {
				return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
			}
			log.Printf("warning: %s:%d: skipping line: %v", path, lineNo, err)
			continue
		}
		agents = append(agents, agent)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	return agents, nil
}

func parseLine(line string) (Agent, error) {
	parts := strings.Split(line, "\t")
	if len(parts) < 10 {
		return Agent{}, fmt.Errorf("expected at least 10 fields, got %d", len(parts))
	}

	fields := make([]int, 0, len(parts))
	idx := []int{0, 4, 5, 6, 7, 9}
	for _, i := range idx {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return Agent{}, fmt.Errorf("field %d %q is not an integer", i, parts[i])
		}
		fields = append(fields, n)
	}
	bucket := fields[0]
	start := Cell{Row: fields[1], Col: fields[2]}
	goal := Cell{Row: fields[3], Col: fields[4]}
	k := fields[5]
	if k < 0 {
		return Agent{}, fmt.Errorf("negative waypoint count %d", k)
	}
	if len(parts) < 10+2*k {
		return Agent{}, fmt.Errorf("declared %d waypoints but only %d trailing fields", k, len(parts)-10)
	}

	waypoints := make([]Cell, 0, k)
	for j := 0; j < k; j++ {
		row, err := strconv.Atoi(strings.TrimSpace(parts[10+2*j]))
		if err != nil {
			return Agent{}, fmt.Errorf("waypoint %d row %q is not an integer", j, parts[10+2*j])
		}
		col, err := strconv.Atoi(strings.TrimSpace(parts[10+2*j+1]))
		if err != nil {
			return Agent{}, fmt.Errorf("waypoint %d col %q is not an integer", j, parts[10+2*j+1])
		}
		waypoints = append(waypoints, Cell{Row: row, Col: col})
	}

	return Agent{Bucket: bucket, Start: start, Goal: goal, Waypoints: waypoints}, nil
}

// Prefix returns the first n agents in file order. Scale-truncated runs
// always use a prefix of the parsed sequence, never a resample.
func Prefix(agents []Agent, n int) []Agent {
	if n < 0 {
		n = 0
	}
	if n > len(agents) {
		n = len(agents)
	}
	return agents[:n]
}

// MapDimensions scans a movingai .map header for its width and height.
// Any failure falls back to 128x128 with a warning; dimensions are only
// a hint field in generated scenario lines.
func MapDimensions(path string) (width, height int) {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("warning: reading map %s: %v, using default 128x128", path, err)
		return 128, 128
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if v, ok := strings.CutPrefix(line, "height "); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				height = n
			}
		} else if v, ok := strings.CutPrefix(line, "width "); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				width = n
			}
		}
		if width > 0 && height > 0 {
			return width, height
		}
	}
	log.Printf("warning: could not parse map dimensions from %s, using default 128x128", path)
	return 128, 128
}
