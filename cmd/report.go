package cmd

import (
	"os"
	"path/filepath"

	"github.com/CTroy2003/mcpf-lacam3/internal/config"
	"github.com/CTroy2003/mcpf-lacam3/internal/report"
	"github.com/spf13/cobra"
)

var flagFormat string

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [report-dir]",
		Short: "Re-render a stored comprehensive report",
		RunE: func(cmd *cobra.Command, args []string) error {
			var dir string
			if len(args) > 0 {
				dir = args[0]
			} else {
				cfg, err := config.Load(cfgFile)
				if err != nil {
					return err
				}
				dir = filepath.Join(cfg.Results.Dir, "comprehensive")
			}
			return report.Render(dir, flagFormat, os.Stdout)
		},
	}
	cmd.Flags().StringVar(&flagFormat, "format", "table", "output format (table, markdown, json)")
	return cmd
}
