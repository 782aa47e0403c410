package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/CTroy2003/mcpf-lacam3/internal/config"
	"github.com/CTroy2003/mcpf-lacam3/internal/matrix"
	"github.com/CTroy2003/mcpf-lacam3/internal/report"
	"github.com/CTroy2003/mcpf-lacam3/internal/result"
	"github.com/spf13/cobra"
)

var flagBaseDir string

func newMatrixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Run the full map x waypoint-config x agent-count cross product",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if err := config.ValidateMatrix(cfg); err != nil {
				return fmt.Errorf("invalid config %s: %w", cfgFile, err)
			}
			if flagBaseDir != "" {
				cfg.Results.Dir = flagBaseDir
			}

			selfExe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("resolving own executable: %w", err)
			}
			cfgAbs, err := filepath.Abs(cfgFile)
			if err != nil {
				return fmt.Errorf("resolving config path: %w", err)
			}

			runner := &matrix.Runner{Cfg: cfg, SelfExe: selfExe, ConfigPath: cfgAbs}
			if err := runner.CheckPrerequisites(); err != nil {
				return err
			}

			cells, err := runner.Run(context.Background())
			if err != nil {
				return err
			}

			reportDir := filepath.Join(cfg.Results.Dir, "comprehensive")
			if err := result.WriteMatrixReport(reportDir, cells); err != nil {
				return err
			}
			if err := report.WriteMatrixText(reportDir, cells); err != nil {
				return err
			}
			fmt.Printf("\nComprehensive report saved to: %s\n",
				filepath.Join(reportDir, result.MatrixReportFile))
			fmt.Printf("Summary report saved to: %s\n\n",
				filepath.Join(reportDir, "comprehensive_summary.txt"))

			return report.Render(reportDir, "table", os.Stdout)
		},
	}
	cmd.Flags().StringVar(&flagBaseDir, "base-dir", "", "results directory (overrides config)")
	return cmd
}
