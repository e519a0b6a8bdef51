package testutil

import (
	"context"
	"sync"

	"github.com/flowmill/flowmill/workflow"
)

// StaticProcessor is a deterministic processor returning a fixed output.
type StaticProcessor struct {
	Output map[string]any
}

// Execute implements workflow.Processor.
func (p *StaticProcessor) Execute(_ context.Context, _ workflow.Node, _ *workflow.NodeExecution) (map[string]any, error) {
	return p.Output, nil
}

// FailingProcessor is a processor that always fails with Err. CallCount
// tracks invocations, which makes retry behavior observable.
type FailingProcessor struct {
	Err error

	mu        sync.Mutex
	callCount int
}

// Execute implements workflow.Processor.
func (p *FailingProcessor) Execute(_ context.Context, _ workflow.Node, _ *workflow.NodeExecution) (map[string]any, error) {
	p.mu.Lock()
	p.callCount++
	p.mu.Unlock()
	return nil, p.Err
}

// CallCount returns how many times the processor ran.
func (p *FailingProcessor) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.callCount
}

// OrderRecorder records the order in which nodes were dispatched. Register
// Wrap(inner) per node on an engine's registry to observe scheduling.
type OrderRecorder struct {
	mu    sync.Mutex
	order []string
}

// Wrap returns a processor that records the node id before delegating.
func (r *OrderRecorder) Wrap(inner workflow.Processor) workflow.Processor {
	return workflow.ProcessorFunc(func(ctx context.Context, node workflow.Node, attempt *workflow.NodeExecution) (map[string]any, error) {
		r.mu.Lock()
		r.order = append(r.order, node.ID)
		r.mu.Unlock()
		return inner.Execute(ctx, node, attempt)
	})
}

// Order returns a copy of the recorded dispatch order.
func (r *OrderRecorder) Order() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}

// LinearWorkflow builds Trigger -> A -> B -> ... chained through the
// "result"/"input" ports, with stop error handling. The first id becomes
// the trigger; the rest become action nodes.
func LinearWorkflow(workflowID string, nodeIDs ...string) *workflow.Workflow {
	wf := &workflow.Workflow{
		ID:   workflowID,
		Name: workflowID,
		Settings: workflow.Settings{
			ErrorHandling: workflow.ErrorHandlingStop,
		},
	}
	for i, id := range nodeIDs {
		nodeType := workflow.NodeTypeAction
		if i == 0 {
			nodeType = workflow.NodeTypeTrigger
		}
		wf.Nodes = append(wf.Nodes, workflow.Node{
			ID:      id,
			Type:    nodeType,
			Name:    id,
			Enabled: true,
		})
		if i > 0 {
			wf.Connections = append(wf.Connections, workflow.Connection{
				ID:           "conn-" + nodeIDs[i-1] + "-" + id,
				SourceNodeID: nodeIDs[i-1],
				TargetNodeID: id,
				SourceOutput: "result",
				TargetInput:  "input",
			})
		}
	}
	return wf
}
