package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/CTroy2003/mcpf-lacam3/internal/config"
	"github.com/CTroy2003/mcpf-lacam3/internal/experiment"
	"github.com/CTroy2003/mcpf-lacam3/internal/result"
	"github.com/CTroy2003/mcpf-lacam3/internal/scenario"
	"github.com/CTroy2003/mcpf-lacam3/internal/solver"
	"github.com/CTroy2003/mcpf-lacam3/internal/sweep"
	"github.com/spf13/cobra"
)

var (
	flagMap        string
	flagScen       string
	flagNum        int
	flagMultiScale bool
	flagSeed       int
	flagTimeout    int
	flagOut        string
	flagStrictScen bool
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one waypoint experiment or a multi-scale sweep",
		RunE:  runExperiment,
	}
	cmd.Flags().StringVar(&flagMap, "map", "", "map file path")
	cmd.Flags().StringVar(&flagScen, "scen", "", "waypoint scenario file path")
	cmd.Flags().IntVar(&flagNum, "num", 0, "number of agents (0 = all agents in the scenario)")
	cmd.Flags().BoolVar(&flagMultiScale, "multi-scale", false, "sweep the configured agent counts")
	cmd.Flags().IntVar(&flagSeed, "seed", -1, "random seed (overrides config)")
	cmd.Flags().IntVar(&flagTimeout, "timeout", 0, "total timeout in seconds, divided among segments (overrides config)")
	cmd.Flags().StringVar(&flagOut, "out", "", "output directory for results")
	cmd.Flags().BoolVar(&flagStrictScen, "strict-scen", false, "fail on malformed scenario lines instead of skipping them")
	cmd.MarkFlagRequired("map")
	cmd.MarkFlagRequired("scen")
	cmd.MarkFlagRequired("out")
	return cmd
}

func runExperiment(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	seed := cfg.Solver.Seed
	if flagSeed >= 0 {
		seed = flagSeed
	}
	timeout := cfg.Timeouts.TotalSec
	if flagTimeout > 0 {
		timeout = flagTimeout
	}
	strict := flagStrictScen || cfg.Parse.Strict

	agents, err := scenario.Parse(flagScen, strict)
	if err != nil {
		return err
	}
	if len(agents) == 0 {
		return fmt.Errorf("no agents found in scenario file %s", flagScen)
	}

	slv, label := solverFromConfig(cfg)
	command := strings.Join(os.Args, " ")
	ctx := context.Background()

	if flagMultiScale {
		counts := cfg.AgentCounts
		if len(counts) == 0 {
			counts = sweep.DefaultAgentCounts
		}
		fmt.Printf("Running multi-scale experiments with agent counts: %v\n", counts)
		points, err := sweep.Run(ctx, &sweep.Opts{
			Solver:          slv,
			SolverLabel:     label,
			MapPath:         flagMap,
			ScenPath:        flagScen,
			Agents:          agents,
			AgentCounts:     counts,
			Seed:            seed,
			TotalTimeoutSec: timeout,
			OutDir:          flagOut,
			Command:         command,
		})
		if err != nil {
			return err
		}
		fmt.Printf("\n%s\nMULTI-SCALE EXPERIMENT SUMMARY\n%s\n",
			strings.Repeat("=", 80), strings.Repeat("=", 80))
		result.SweepTable(os.Stdout, points)
		return nil
	}

	num := flagNum
	if num <= 0 || num > len(agents) {
		num = len(agents)
	}
	fmt.Printf("Running single experiment with %d agents\n", num)
	_, err = experiment.Run(ctx, &experiment.Opts{
		Solver:          slv,
		SolverLabel:     label,
		MapPath:         flagMap,
		ScenPath:        flagScen,
		Agents:          scenario.Prefix(agents, num),
		Seed:            seed,
		TotalTimeoutSec: timeout,
		OutDir:          flagOut,
		Command:         command,
	})
	return err
}

// solverFromConfig picks the backend. The label names the backend in
// experiment metadata.
func solverFromConfig(cfg *config.Config) (solver.Solver, string) {
	if cfg.Solver.Mode == "docker" {
		return &solver.Container{
			Image:    cfg.Solver.Image,
			GraceSec: cfg.Solver.GraceSec,
			Lenient:  cfg.Solver.LenientArtifact,
		}, cfg.Solver.Image
	}
	return &solver.Exec{
		Path:     cfg.Solver.Exe,
		GraceSec: cfg.Solver.GraceSec,
		Lenient:  cfg.Solver.LenientArtifact,
	}, cfg.Solver.Exe
}
