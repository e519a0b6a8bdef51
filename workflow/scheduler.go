package workflow

// ExecutionOrder computes the node execution order for a run in two
// phases. First the set of nodes reachable from any trigger is collected
// by following connections forward. Then the reachable nodes are emitted
// in dependency-first post-order: a node is appended only after every
// reachable source feeding it, so for an acyclic graph every connection's
// source precedes its target in the result.
//
// The traversal tolerates disconnected or malformed graphs: a visited set
// guards re-entry, so a cyclic dependency terminates silently instead of
// looping, each node appearing at most once. That silence is exactly why
// Validate must be run before trusting the order (see Engine's
// WithPreflightValidation). Nodes unreachable from any trigger, and
// connection endpoints that resolve to no node, never appear.
//
// For a fixed workflow the output is fully deterministic: nodes are
// seeded in node-list insertion order and dependencies are visited in
// connection-list order.
func ExecutionOrder(wf *Workflow) []string {
	reachable := reachableFromTriggers(wf)

	order := make([]string, 0, len(reachable))
	visited := make(map[string]bool, len(reachable))

	var visit func(nodeID string)
	visit = func(nodeID string) {
		if visited[nodeID] {
			return
		}
		visited[nodeID] = true

		// Dependencies first: every reachable source feeding this node.
		for _, conn := range wf.Connections {
			if conn.TargetNodeID == nodeID && reachable[conn.SourceNodeID] {
				visit(conn.SourceNodeID)
			}
		}
		order = append(order, nodeID)
	}

	for _, n := range wf.Nodes {
		if reachable[n.ID] {
			visit(n.ID)
		}
	}
	return order
}

// reachableFromTriggers returns the set of node ids reachable from any
// trigger node by following connections source to target. Only ids that
// resolve to actual nodes are included.
func reachableFromTriggers(wf *Workflow) map[string]bool {
	nodes := make(map[string]bool, len(wf.Nodes))
	for _, n := range wf.Nodes {
		nodes[n.ID] = true
	}

	reachable := make(map[string]bool, len(wf.Nodes))
	var expand func(nodeID string)
	expand = func(nodeID string) {
		if reachable[nodeID] || !nodes[nodeID] {
			return
		}
		reachable[nodeID] = true
		for _, conn := range wf.Connections {
			if conn.SourceNodeID == nodeID {
				expand(conn.TargetNodeID)
			}
		}
	}

	for _, n := range wf.Nodes {
		if n.Type == NodeTypeTrigger {
			expand(n.ID)
		}
	}
	return reachable
}
