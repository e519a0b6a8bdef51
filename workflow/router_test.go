package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveInputs_RoutesCompletedUpstreamOutput(t *testing.T) {
	t.Parallel()
	wf := chainWorkflow()
	node, _ := wf.NodeByID("a")
	completed := map[string]*NodeExecution{
		"trigger": {
			NodeID: "trigger",
			Status: NodeStatusCompleted,
			Output: map[string]any{"result": "payload"},
		},
	}

	input := ResolveInputs(node, wf, completed, nil)
	assert.Equal(t, "payload", input["input"])
}

func TestResolveInputs_IncompleteSourceContributesNothing(t *testing.T) {
	t.Parallel()
	wf := chainWorkflow()
	node, _ := wf.NodeByID("a")

	tests := []struct {
		name      string
		completed map[string]*NodeExecution
	}{
		{name: "source never ran", completed: map[string]*NodeExecution{}},
		{
			name: "source failed",
			completed: map[string]*NodeExecution{
				"trigger": {NodeID: "trigger", Status: NodeStatusFailed},
			},
		},
		{
			name: "source skipped",
			completed: map[string]*NodeExecution{
				"trigger": {NodeID: "trigger", Status: NodeStatusSkipped},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := ResolveInputs(node, wf, tt.completed, nil)
			_, present := input["input"]
			assert.False(t, present, "incomplete source must not route a value")
		})
	}
}

func TestResolveInputs_MissingOutputKeyIsAbsent(t *testing.T) {
	t.Parallel()
	wf := chainWorkflow()
	node, _ := wf.NodeByID("a")
	completed := map[string]*NodeExecution{
		"trigger": {
			NodeID: "trigger",
			Status: NodeStatusCompleted,
			Output: map[string]any{"other": 1},
		},
	}

	input := ResolveInputs(node, wf, completed, nil)
	_, present := input["input"]
	assert.False(t, present)
}

func TestResolveInputs_VariablesOverrideRoutedOutputs(t *testing.T) {
	t.Parallel()
	wf := chainWorkflow()
	wf.Variables = map[string]any{"input": "from-variables"}
	node, _ := wf.NodeByID("a")
	completed := map[string]*NodeExecution{
		"trigger": {
			NodeID: "trigger",
			Status: NodeStatusCompleted,
			Output: map[string]any{"result": "from-connection"},
		},
	}

	input := ResolveInputs(node, wf, completed, nil)
	assert.Equal(t, "from-variables", input["input"])
}

func TestResolveInputs_TriggerDataOverridesVariables(t *testing.T) {
	t.Parallel()
	wf := chainWorkflow()
	wf.Variables = map[string]any{"x": 1}
	node, _ := wf.NodeByID("trigger")

	input := ResolveInputs(node, wf, nil, map[string]any{"x": 2})
	assert.Equal(t, 2, input["x"])
}

func TestResolveInputs_TriggerDataIgnoredForNonTriggerNodes(t *testing.T) {
	t.Parallel()
	wf := chainWorkflow()
	node, _ := wf.NodeByID("a")

	input := ResolveInputs(node, wf, nil, map[string]any{"x": 2})
	_, present := input["x"]
	assert.False(t, present)
}

func TestResolveInputs_ShallowOverwrite(t *testing.T) {
	t.Parallel()
	wf := chainWorkflow()
	wf.Variables = map[string]any{"input": map[string]any{"kept": false}}
	node, _ := wf.NodeByID("a")
	completed := map[string]*NodeExecution{
		"trigger": {
			NodeID: "trigger",
			Status: NodeStatusCompleted,
			Output: map[string]any{"result": map[string]any{"nested": true}},
		},
	}

	// Values are replaced wholesale per key; nested maps are not merged.
	input := ResolveInputs(node, wf, completed, nil)
	assert.Equal(t, map[string]any{"kept": false}, input["input"])
}
