package solver

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/moby/moby/api/types/container"
	"github.com/moby/moby/api/types/mount"
	"github.com/moby/moby/client"
)

// Container runs the solver image in a Docker container. The image's
// entrypoint must honor the same flag contract as the native binary;
// map, scenario and output directories are bind-mounted so the artifact
// lands on the host where ParseArtifact can read it.
type Container struct {
	Image    string
	GraceSec int
	Lenient  bool
}

var _ Solver = (*Container)(nil)

func (c *Container) Solve(ctx context.Context, inst *Instance) (*Outcome, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("creating docker client: %w", err)
	}
	defer cli.Close()

	grace := c.GraceSec
	if grace <= 0 {
		grace = defaultGraceSec
	}

	mapAbs, err := filepath.Abs(inst.MapPath)
	if err != nil {
		return nil, fmt.Errorf("resolving map path: %w", err)
	}
	scenAbs, err := filepath.Abs(inst.ScenPath)
	if err != nil {
		return nil, fmt.Errorf("resolving scenario path: %w", err)
	}
	outAbs, err := filepath.Abs(inst.OutPath)
	if err != nil {
		return nil, fmt.Errorf("resolving output path: %w", err)
	}

	args := []string{
		"--map", "/bench/map/" + filepath.Base(mapAbs),
		"--scen", "/bench/scen/" + filepath.Base(scenAbs),
		"--num", strconv.Itoa(inst.NumAgents),
		"--seed", strconv.Itoa(inst.Seed),
		"--time_limit_sec", strconv.Itoa(inst.TimeoutSec),
		"--output", "/bench/out/" + filepath.Base(outAbs),
	}

	mounts := []mount.Mount{
		{Type: mount.TypeBind, Source: filepath.Dir(mapAbs), Target: "/bench/map", ReadOnly: true},
		{Type: mount.TypeBind, Source: filepath.Dir(scenAbs), Target: "/bench/scen", ReadOnly: true},
		{Type: mount.TypeBind, Source: filepath.Dir(outAbs), Target: "/bench/out"},
	}

	createResp, err := cli.ContainerCreate(ctx, client.ContainerCreateOptions{
		Config: &container.Config{
			Image:  c.Image,
			Cmd:    args,
			Labels: map[string]string{"mcpf-lacam3": "true"},
		},
		HostConfig: &container.HostConfig{Mounts: mounts},
		Name:       "mcpf-" + uuid.NewString()[:8],
	})
	if err != nil {
		return nil, fmt.Errorf("creating solver container: %w", err)
	}
	containerID := createResp.ID
	defer func() {
		cli.ContainerRemove(context.Background(), containerID, client.ContainerRemoveOptions{Force: true})
	}()

	start := time.Now()
	if _, err := cli.ContainerStart(ctx, containerID, client.ContainerStartOptions{}); err != nil {
		return nil, fmt.Errorf("starting solver container: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, time.Duration(inst.TimeoutSec+grace)*time.Second)
	defer cancel()

	waitResult := cli.ContainerWait(waitCtx, containerID, client.ContainerWaitOptions{
		Condition: container.WaitConditionNotRunning,
	})
	var status int64
wait:
	for {
		select {
		case werr := <-waitResult.Error:
			if werr == nil {
				// No error on this channel; keep waiting for the result.
				continue
			}
			cli.ContainerKill(context.Background(), containerID, client.ContainerKillOptions{Signal: "SIGKILL"})
			if waitCtx.Err() == context.DeadlineExceeded {
				return nil, &TimeoutError{LimitSec: inst.TimeoutSec}
			}
			return nil, fmt.Errorf("waiting for solver container: %w", werr)
		case st := <-waitResult.Result:
			status = st.StatusCode
			break wait
		}
	}
	runtime := time.Since(start)

	if status != 0 {
		return nil, &ExitError{
			Code:   int(status),
			Cmd:    c.Image,
			Stderr: containerLogs(cli, containerID),
		}
	}

	art, err := ParseArtifact(outAbs, c.Lenient)
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

// containerLogs fetches combined output for the failure report. The
// stream keeps Docker's multiplexing headers; good enough diagnostics.
func containerLogs(cli *client.Client, id string) string {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	rc, err := cli.ContainerLogs(ctx, id, client.ContainerLogsOptions{ShowStdout: true, ShowStderr: true, Tail: "100"})
	if err != nil {
		return ""
	}
	defer rc.Close()
	data, _ := io.ReadAll(io.LimitReader(rc, 64*1024))
	return string(data)
}
