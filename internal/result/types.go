package result

// SegmentResult records one solved segment. Append-only: segments are
// never revisited once recorded.
type SegmentResult struct {
	Segment   int     `json:"segment_id"`
	Cost      int     `json:"cost"`
	Makespan  int     `json:"makespan"`
	RuntimeMS float64 `json:"runtime_ms"`
	Solved    bool    `json:"solved"`
	PlanFile  string  `json:"output_file"`
}

type ExperimentInfo struct {
	RunID             string `json:"run_id"`
	MapFile           string `json:"map_file"`
	ScenarioFile      string `json:"scenario_file"`
	NumAgents         int    `json:"num_agents"`
	MaxWaypoints      int    `json:"max_waypoints"`
	TotalSegments     int    `json:"total_segments"`
	Command           string `json:"command"`
	Timestamp         string `json:"timestamp"`
	Solver            string `json:"exe_path"`
	TotalTimeoutSec   int    `json:"total_timeout"`
	PerSegmentTimeout int    `json:"per_segment_timeout"`
}

type GlobalResults struct {
	TotalCost         int     `json:"total_cost"`
	TotalRuntimeMS    float64 `json:"total_runtime_ms"`
	WallClockMS       float64 `json:"wall_clock_time_ms"`
	MaxMakespan       int     `json:"max_makespan"`
	NumSegments       int     `json:"num_segments"`
	AllSegmentsSolved bool    `json:"all_segments_solved"`
	EndTime           string  `json:"end_time"`
}

type AgentSummary struct {
	TotalAgents          int `json:"total_agents"`
	MaxWaypointsPerAgent int `json:"max_waypoints_per_agent"`
	TotalTransitions     int `json:"total_waypoint_to_waypoint_transitions"`
	TotalPathSegments    int `json:"total_path_segments"`
}

type PerformanceMetrics struct {
	AvgRuntimePerSegmentMS float64 `json:"avg_runtime_per_segment_ms"`
	AvgCostPerSegment      float64 `json:"avg_cost_per_segment"`
	AvgCostPerAgent        float64 `json:"avg_cost_per_agent"`
	// CostEfficiency is total cost per wall-clock millisecond.
	CostEfficiency float64 `json:"cost_efficiency"`
}

// ExperimentSummary aggregates all segments of one agent-count run.
type ExperimentSummary struct {
	Info        ExperimentInfo     `json:"experiment_info"`
	Global      GlobalResults      `json:"global_results"`
	Segments    []SegmentResult    `json:"segment_results"`
	Agents      AgentSummary       `json:"agent_summary"`
	Performance PerformanceMetrics `json:"performance_metrics"`
}

// ScalePoint is one agent-count entry of a scale sweep. Exactly one of
// Summary and Error is set.
type ScalePoint struct {
	AgentCount int                `json:"agent_count"`
	Summary    *ExperimentSummary `json:"result,omitempty"`
	Error      string             `json:"error,omitempty"`
}

type CellStatus string

const (
	StatusSuccess   CellStatus = "success"
	StatusNoSummary CellStatus = "no_summary"
	StatusFailed    CellStatus = "failed"
	StatusTimeout   CellStatus = "timeout"
	StatusError     CellStatus = "error"
)

// MatrixCell is one map x waypoint-config x agent-count experiment.
// Cells are failure-isolated: a non-success status never aborts the
// rest of the matrix.
type MatrixCell struct {
	Map        string             `json:"map"`
	Waypoints  int                `json:"waypoints"`
	AgentCount int                `json:"agent_count"`
	Status     CellStatus         `json:"status"`
	WallTimeS  float64            `json:"wall_time"`
	Data       *ExperimentSummary `json:"data,omitempty"`
	Error      string             `json:"error,omitempty"`
	Stdout     string             `json:"stdout,omitempty"`
}
