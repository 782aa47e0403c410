package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mcpf",
		Short: "Benchmark harness for multi-waypoint MAPF solvers",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "mcpf.yaml", "config file path")
	root.AddCommand(newRunCmd())
	root.AddCommand(newMatrixCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newListCmd())
	return root
}
