package models

// Counters are the performance counters from spec §3. Every field except
// ProgressRatio only grows within a run.
type Counters struct {
	Solutions            int64 `json:"solutions"`
	Guesses              int64 `json:"guesses"`
	NodesSearched        int64 `json:"nodesSearched"`
	ConstraintsProcessed int64 `json:"constraintsProcessed"`
	ValuesTried          int64 `json:"valuesTried"`
	Backtracks           int64 `json:"backtracks"`
	BranchesIgnored      int64 `json:"branchesIgnored"`
	ProgressRatio        float64 `json:"progressRatio"`
}

// StateSnapshot is the payload delivered to every progress/termination
// callback (spec §6.3).
type StateSnapshot struct {
	RunID     string    `json:"runId"`
	Counters  Counters  `json:"counters"`
	TimeMs    int64     `json:"timeMs"`
	Done      bool      `json:"done"`
	Aborted   bool      `json:"aborted"`
	Sample    *Solution `json:"sample,omitempty"`
	Pencilmark *PencilmarkMask `json:"pencilmark,omitempty"`
}
