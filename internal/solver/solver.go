// Package solver invokes an external MAPF solver on one segment
// instance and interprets its output artifact.
//
// The solver is opaque: a binary (or container image entrypoint) taking
// --map, --scen, --num, --seed, --time_limit_sec and --output flags,
// signalling success by exit code 0 and writing a text artifact with
// soc=, makespan= and solved= lines. Backends implement Solver so
// orchestration never touches process details.
package solver

import (
	"context"
	"fmt"
	"time"
)

// Instance is one point-to-point sub-problem handed to a backend.
type Instance struct {
	MapPath    string
	ScenPath   string
	OutPath    string
	NumAgents  int
	Seed       int
	TimeoutSec int
}

// Outcome is a successfully solved instance. Failures are reported as
// typed errors, never as zero-valued outcomes.
type Outcome struct {
	Cost     int
	Makespan int
	Solved   bool
	Runtime  time.Duration
}

type Solver interface {
	Solve(ctx context.Context, inst *Instance) (*Outcome, error)
}

// ExitError reports a solver child that exited non-zero. Captured
// output is kept for the failure report.
type ExitError struct {
	Code   int
	Cmd    string
	Stdout string
	Stderr string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("solver exited with code %d", e.Code)
}

// TimeoutError reports a solver child that exceeded its per-segment
// allotment (plus grace) and was killed.
type TimeoutError struct {
	LimitSec int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("solver timed out after %ds", e.LimitSec)
}

// ArtifactError reports a solver that exited 0 but produced no readable
// artifact, or an artifact without the mandatory soc= line. Distinct
// from failure so reports can flag the data-quality gap.
type ArtifactError struct {
	Path    string
	Missing bool
	Reason  string
}

func (e *ArtifactError) Error() string {
	if e.Missing {
		return fmt.Sprintf("solver artifact %s missing: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("solver artifact %s malformed: %s", e.Path, e.Reason)
}
