package solver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const defaultGraceSec = 10

// Exec runs the solver as a native child process.
type Exec struct {
	// Path to the solver executable.
	Path string
	// GraceSec is added on top of the instance timeout before the child
	// is killed, giving the solver room to flush its artifact after its
	// own internal deadline fires. Zero means the default of 10s.
	GraceSec int
	// Lenient restores the original zero-default artifact handling.
	Lenient bool
}

var _ Solver = (*Exec)(nil)

func (e *Exec) Solve(ctx context.Context, inst *Instance) (*Outcome, error) {
	grace := e.GraceSec
	if grace <= 0 {
		grace = defaultGraceSec
	}
	runCtx, cancel := context.WithTimeout(ctx, time.Duration(inst.TimeoutSec+grace)*time.Second)
	defer cancel()

	args := []string{
		"--map", inst.MapPath,
		"--scen", inst.ScenPath,
		"--num", strconv.Itoa(inst.NumAgents),
		"--seed", strconv.Itoa(inst.Seed),
		"--time_limit_sec", strconv.Itoa(inst.TimeoutSec),
		"--output", inst.OutPath,
	}
	cmd := exec.CommandContext(runCtx, e.Path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	runtime := time.Since(start)

	if runCtx.Err() == context.DeadlineExceeded {
		return nil, &TimeoutError{LimitSec: inst.TimeoutSec}
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ExitError{
				Code:   exitErr.ExitCode(),
				Cmd:    e.Path + " " + strings.Join(args, " "),
				Stdout: stdout.String(),
				Stderr: stderr.String(),
			}
		}
		return nil, fmt.Errorf("starting solver %s: %w", e.Path, err)
	}

	art, err := ParseArtifact(inst.OutPath, e.Lenient)
	if err != nil {
		return nil, err
	}
	return &Outcome{
		Cost:     art.Cost,
		Makespan: art.Makespan,
		Solved:   art.Solved,
		Runtime:  runtime,
	}, nil
}
