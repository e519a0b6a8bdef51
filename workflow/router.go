package workflow

// ResolveInputs assembles the input payload for a node about to execute.
// The payload is composed in this order, later entries overwriting earlier
// ones per key, wholesale and shallow:
//
//  1. connection-routed outputs: for each connection targeting the node,
//     if the source node completed, the value at the source's output port
//     is copied under the connection's target input port. A source that
//     failed, was skipped, or has not run yet contributes nothing; a
//     missing upstream value is never an error at this stage.
//  2. workflow-level global variables.
//  3. for trigger nodes, the run's external trigger payload.
//
// Trigger data therefore always wins for trigger nodes, and variables win
// over routed outputs on a colliding key.
func ResolveInputs(node Node, wf *Workflow, completed map[string]*NodeExecution, triggerData map[string]any) map[string]any {
	input := make(map[string]any)

	for _, conn := range wf.ConnectionsInto(node.ID) {
		source, ok := completed[conn.SourceNodeID]
		if !ok || source.Status != NodeStatusCompleted {
			continue
		}
		if value, ok := source.Output[conn.SourceOutput]; ok {
			input[conn.TargetInput] = value
		}
	}

	for k, v := range wf.Variables {
		input[k] = v
	}

	if node.Type == NodeTypeTrigger {
		for k, v := range triggerData {
			input[k] = v
		}
	}

	return input
}
