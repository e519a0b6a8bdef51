package workflow

import "fmt"

// ValidationResult carries the outcome of a structural workflow check.
// Diagnostics are returned as data, never raised, so a builder UI can
// display all issues at once.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Validate checks a workflow for structural integrity before execution.
// All checks are independent and cumulative; nothing short-circuits:
//
//  1. at least one trigger node exists
//  2. no circular dependency among the forward edges
//  3. every connection endpoint resolves to an existing node
//  4. node ids are unique within the workflow
//
// Validate performs no mutation and is deterministic: running it twice on
// the same workflow yields identical error lists.
//
// The scheduler deliberately does not reject cycles; it silently truncates
// them. Callers must run Validate before trusting an execution order.
func Validate(wf *Workflow) ValidationResult {
	var errs []string

	if len(wf.TriggerNodes()) == 0 {
		errs = append(errs, "workflow must have at least one trigger node")
	}

	if hasCycle(wf) {
		errs = append(errs, "workflow contains circular dependencies")
	}

	nodeIDs := make(map[string]bool, len(wf.Nodes))
	for _, n := range wf.Nodes {
		if nodeIDs[n.ID] {
			errs = append(errs, fmt.Sprintf("duplicate node id: %s", n.ID))
		}
		nodeIDs[n.ID] = true
	}

	for _, c := range wf.Connections {
		if !nodeIDs[c.SourceNodeID] {
			errs = append(errs, fmt.Sprintf("connection %s references missing source node: %s", c.ID, c.SourceNodeID))
		}
		if !nodeIDs[c.TargetNodeID] {
			errs = append(errs, fmt.Sprintf("connection %s references missing target node: %s", c.ID, c.TargetNodeID))
		}
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// dfs colors for cycle detection.
const (
	colorWhite = iota // unvisited
	colorGray         // on the recursion stack
	colorBlack        // fully explored
)

// hasCycle runs a three-color depth-first search over the forward edges
// (source to target) and reports whether any back-edge reaches a node
// currently on the recursion stack.
func hasCycle(wf *Workflow) bool {
	color := make(map[string]int, len(wf.Nodes))

	targets := make(map[string][]string, len(wf.Connections))
	for _, c := range wf.Connections {
		targets[c.SourceNodeID] = append(targets[c.SourceNodeID], c.TargetNodeID)
	}

	var visit func(nodeID string) bool
	visit = func(nodeID string) bool {
		color[nodeID] = colorGray
		for _, next := range targets[nodeID] {
			switch color[next] {
			case colorGray:
				return true
			case colorWhite:
				if visit(next) {
					return true
				}
			}
		}
		color[nodeID] = colorBlack
		return false
	}

	for _, n := range wf.Nodes {
		if color[n.ID] == colorWhite && visit(n.ID) {
			return true
		}
	}
	return false
}
