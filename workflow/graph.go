package workflow

import "time"

// ErrorHandling selects the workflow-level error policy applied when a
// node's processor fails.
type ErrorHandling string

const (
	// ErrorHandlingStop aborts the remaining execution order immediately.
	ErrorHandlingStop ErrorHandling = "stop"
	// ErrorHandlingContinue records the failure and proceeds to the next node.
	ErrorHandlingContinue ErrorHandling = "continue"
	// ErrorHandlingRetry behaves like continue at the engine layer; retry
	// consumption is a processor-level concern (see RetryProcessor).
	ErrorHandlingRetry ErrorHandling = "retry"
)

// Connection is a directed data-flow edge from one node's named output
// port to another node's named input port. Endpoint ids are validated by
// Validate, not enforced at construction.
type Connection struct {
	ID           string `json:"id" yaml:"id"`
	SourceNodeID string `json:"source_node_id" yaml:"source_node_id"`
	TargetNodeID string `json:"target_node_id" yaml:"target_node_id"`
	SourceOutput string `json:"source_output" yaml:"source_output"`
	TargetInput  string `json:"target_input" yaml:"target_input"`
}

// Settings holds workflow-level execution policy.
type Settings struct {
	ErrorHandling ErrorHandling `json:"error_handling" yaml:"error_handling"`
	// MaxExecutionTime bounds the whole run's wall clock; 0 means no limit.
	MaxExecutionTime time.Duration `json:"max_execution_time,omitempty" yaml:"max_execution_time,omitempty"`
	// MaxRetries caps retry attempts for processors that honor it.
	MaxRetries int `json:"max_retries,omitempty" yaml:"max_retries,omitempty"`
}

// Workflow is a directed graph of typed automation nodes connected by
// data-flow edges, plus global variables and execution settings. It is
// owned and mutated only by the builder collaborator between runs; the
// engine treats it as read-only.
type Workflow struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	// Nodes is kept in insertion order, which is not the execution order.
	Nodes       []Node         `json:"nodes" yaml:"nodes"`
	Connections []Connection   `json:"connections,omitempty" yaml:"connections,omitempty"`
	Variables   map[string]any `json:"variables,omitempty" yaml:"variables,omitempty"`
	Settings    Settings       `json:"settings" yaml:"settings"`
}

// NodeByID returns the node with the given id, if present.
func (w *Workflow) NodeByID(id string) (Node, bool) {
	for _, n := range w.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// TriggerNodes returns the workflow's trigger nodes in insertion order.
func (w *Workflow) TriggerNodes() []Node {
	var triggers []Node
	for _, n := range w.Nodes {
		if n.Type == NodeTypeTrigger {
			triggers = append(triggers, n)
		}
	}
	return triggers
}

// ConnectionsInto returns the connections targeting the given node, in
// connection-list order.
func (w *Workflow) ConnectionsInto(nodeID string) []Connection {
	var conns []Connection
	for _, c := range w.Connections {
		if c.TargetNodeID == nodeID {
			conns = append(conns, c)
		}
	}
	return conns
}

// ConnectionsOutOf returns the connections originating at the given node,
// in connection-list order.
func (w *Workflow) ConnectionsOutOf(nodeID string) []Connection {
	var conns []Connection
	for _, c := range w.Connections {
		if c.SourceNodeID == nodeID {
			conns = append(conns, c)
		}
	}
	return conns
}
