package cmd

import (
	"fmt"

	"github.com/CTroy2003/mcpf-lacam3/internal/config"
	"github.com/CTroy2003/mcpf-lacam3/internal/matrix"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured maps, waypoint configs and agent counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if cfg.Solver.Mode == "docker" {
				fmt.Printf("Solver: image %s\n", cfg.Solver.Image)
			} else {
				fmt.Printf("Solver: %s\n", cfg.Solver.Exe)
			}
			fmt.Println("\nMaps:")
			for _, m := range cfg.Maps {
				fmt.Printf("  - %s (%s)\n", m.Name, m.File)
			}
			fmt.Println("\nWaypoint configs:")
			for _, m := range cfg.Maps {
				for _, wp := range cfg.WaypointConfigs {
					fmt.Printf("  - %dwp: %s\n", wp.Waypoints, matrix.ScenFile(m, wp))
				}
			}
			fmt.Printf("\nAgent counts: %v\n", cfg.AgentCounts)
			return nil
		},
	}
}
