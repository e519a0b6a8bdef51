package workflow

import (
	"time"
)

// NodeStatus represents the status of a single node attempt.
type NodeStatus string

const (
	// NodeStatusPending indicates the node has not started yet.
	NodeStatusPending NodeStatus = "pending"
	// NodeStatusRunning indicates the node's processor is in flight.
	NodeStatusRunning NodeStatus = "running"
	// NodeStatusCompleted indicates the processor returned successfully.
	NodeStatusCompleted NodeStatus = "completed"
	// NodeStatusFailed indicates the processor returned an error.
	NodeStatusFailed NodeStatus = "failed"
	// NodeStatusSkipped indicates the node was deliberately not run.
	NodeStatusSkipped NodeStatus = "skipped"
)

// ExecutionStatus represents the status of a whole workflow run.
type ExecutionStatus string

const (
	// ExecutionStatusPending indicates the run has been created but not started.
	ExecutionStatusPending ExecutionStatus = "pending"
	// ExecutionStatusRunning indicates the run is in progress.
	ExecutionStatusRunning ExecutionStatus = "running"
	// ExecutionStatusCompleted indicates the run finished without a fatal error.
	ExecutionStatusCompleted ExecutionStatus = "completed"
	// ExecutionStatusFailed indicates the run was aborted or rejected.
	ExecutionStatusFailed ExecutionStatus = "failed"
	// ExecutionStatusCancelled indicates the run was cancelled cooperatively.
	ExecutionStatusCancelled ExecutionStatus = "cancelled"
)

// NodeExecution records one attempted node within a run. It is created
// fresh per attempt, mutated only by the engine and the processor invoked
// for that node, and immutable once appended to the run's history.
type NodeExecution struct {
	NodeID      string         `json:"node_id"`
	WorkflowID  string         `json:"workflow_id"`
	ExecutionID string         `json:"execution_id"`
	Input       map[string]any `json:"input,omitempty"`
	Output      map[string]any `json:"output,omitempty"`
	Status      NodeStatus     `json:"status"`
	StartTime   time.Time      `json:"start_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Error       string         `json:"error,omitempty"`
	Logs        []string       `json:"logs,omitempty"`
}

// AppendLog adds a timestamped log line to the node's attempt record.
func (ne *NodeExecution) AppendLog(line string) {
	ne.Logs = append(ne.Logs, time.Now().UTC().Format(time.RFC3339Nano)+" "+line)
}

// Duration returns the wall-clock time the attempt took. Zero until the
// attempt has ended.
func (ne *NodeExecution) Duration() time.Duration {
	if ne.EndTime.IsZero() {
		return 0
	}
	return ne.EndTime.Sub(ne.StartTime)
}

// Execution is the complete account of one workflow run: per-node status,
// timing, logs, and errors. It is created at run start, finalized at run
// end, and immutable thereafter.
type Execution struct {
	ID          string          `json:"id"`
	WorkflowID  string          `json:"workflow_id"`
	Status      ExecutionStatus `json:"status"`
	StartTime   time.Time       `json:"start_time"`
	EndTime     time.Time       `json:"end_time,omitempty"`
	TriggerData map[string]any  `json:"trigger_data,omitempty"`
	// NodeExecutions is append-only, in execution order.
	NodeExecutions []*NodeExecution `json:"node_executions"`
	Error          string           `json:"error,omitempty"`
}

// NodeExecution returns the recorded attempt for the given node, if any.
func (e *Execution) NodeExecution(nodeID string) (*NodeExecution, bool) {
	for _, ne := range e.NodeExecutions {
		if ne.NodeID == nodeID {
			return ne, true
		}
	}
	return nil, false
}

// CompletedOutputs returns the attempts that completed, keyed by node id.
// The input router consumes this view when resolving downstream inputs.
func (e *Execution) CompletedOutputs() map[string]*NodeExecution {
	completed := make(map[string]*NodeExecution)
	for _, ne := range e.NodeExecutions {
		if ne.Status == NodeStatusCompleted {
			completed[ne.NodeID] = ne
		}
	}
	return completed
}

// Duration returns the wall-clock time the run took. Zero until finalized.
func (e *Execution) Duration() time.Duration {
	if e.EndTime.IsZero() {
		return 0
	}
	return e.EndTime.Sub(e.StartTime)
}
