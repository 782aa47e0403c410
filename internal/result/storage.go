package result

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	ExperimentSummaryFile = "waypoint_summary.json"
	SweepSummaryFile      = "multi_scale_summary.json"
	MatrixReportFile      = "comprehensive_report.json"
)

func WriteExperimentSummary(dir string, s *ExperimentSummary) error {
	return writeJSON(filepath.Join(dir, ExperimentSummaryFile), s)
}

func ReadExperimentSummary(path string) (*ExperimentSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading summary: %w", err)
	}
	var s ExperimentSummary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing summary %s: %w", path, err)
	}
	return &s, nil
}

func WriteSweepSummary(dir string, points []ScalePoint) error {
	return writeJSON(filepath.Join(dir, SweepSummaryFile), points)
}

func WriteMatrixReport(dir string, cells []MatrixCell) error {
	return writeJSON(filepath.Join(dir, MatrixReportFile), cells)
}

func ReadMatrixReport(path string) ([]MatrixCell, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading matrix report: %w", err)
	}
	var cells []MatrixCell
	if err := json.Unmarshal(data, &cells); err != nil {
		return nil, fmt.Errorf("parsing matrix report %s: %w", path, err)
	}
	return cells, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating result dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, data, 0o644)
}
