package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidWorkflow(t *testing.T) {
	t.Parallel()
	result := Validate(chainWorkflow())
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidate_NoTriggerNode(t *testing.T) {
	t.Parallel()
	wf := &Workflow{
		Nodes: []Node{
			{ID: "a", Type: NodeTypeAction, Enabled: true},
		},
	}
	result := Validate(wf)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors, "workflow must have at least one trigger node")
}

func TestValidate_CircularDependency(t *testing.T) {
	t.Parallel()
	wf := &Workflow{
		Nodes: []Node{
			{ID: "trigger", Type: NodeTypeTrigger, Enabled: true},
			{ID: "a", Type: NodeTypeAction, Enabled: true},
			{ID: "b", Type: NodeTypeAction, Enabled: true},
		},
		Connections: []Connection{
			{ID: "c1", SourceNodeID: "trigger", TargetNodeID: "a"},
			{ID: "c2", SourceNodeID: "a", TargetNodeID: "b"},
			{ID: "c3", SourceNodeID: "b", TargetNodeID: "a"},
		},
	}

	result := Validate(wf)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors, "workflow contains circular dependencies")
}

func TestValidate_SelfLoop(t *testing.T) {
	t.Parallel()
	wf := &Workflow{
		Nodes: []Node{
			{ID: "trigger", Type: NodeTypeTrigger, Enabled: true},
			{ID: "a", Type: NodeTypeAction, Enabled: true},
		},
		Connections: []Connection{
			{ID: "c1", SourceNodeID: "a", TargetNodeID: "a"},
		},
	}

	result := Validate(wf)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors, "workflow contains circular dependencies")
}

func TestValidate_DanglingEndpoints(t *testing.T) {
	t.Parallel()
	wf := &Workflow{
		Nodes: []Node{
			{ID: "trigger", Type: NodeTypeTrigger, Enabled: true},
		},
		Connections: []Connection{
			{ID: "c1", SourceNodeID: "ghost-src", TargetNodeID: "trigger"},
			{ID: "c2", SourceNodeID: "trigger", TargetNodeID: "ghost-dst"},
		},
	}

	result := Validate(wf)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors, "connection c1 references missing source node: ghost-src")
	assert.Contains(t, result.Errors, "connection c2 references missing target node: ghost-dst")
}

func TestValidate_DuplicateNodeIDs(t *testing.T) {
	t.Parallel()
	wf := &Workflow{
		Nodes: []Node{
			{ID: "trigger", Type: NodeTypeTrigger, Enabled: true},
			{ID: "trigger", Type: NodeTypeAction, Enabled: true},
		},
	}

	result := Validate(wf)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors, "duplicate node id: trigger")
}

// All checks are cumulative: a workflow broken in several ways reports
// every problem at once, not just the first.
func TestValidate_CollectsAllErrors(t *testing.T) {
	t.Parallel()
	wf := &Workflow{
		Nodes: []Node{
			{ID: "a", Type: NodeTypeAction, Enabled: true},
			{ID: "b", Type: NodeTypeAction, Enabled: true},
		},
		Connections: []Connection{
			{ID: "c1", SourceNodeID: "a", TargetNodeID: "b"},
			{ID: "c2", SourceNodeID: "b", TargetNodeID: "a"},
			{ID: "c3", SourceNodeID: "missing", TargetNodeID: "a"},
		},
	}

	result := Validate(wf)
	require.False(t, result.Valid)
	assert.Len(t, result.Errors, 3)
}

func TestValidate_Idempotent(t *testing.T) {
	t.Parallel()
	wf := &Workflow{
		Nodes: []Node{
			{ID: "a", Type: NodeTypeAction, Enabled: true},
		},
		Connections: []Connection{
			{ID: "c1", SourceNodeID: "a", TargetNodeID: "gone"},
		},
	}

	first := Validate(wf)
	second := Validate(wf)
	assert.Equal(t, first, second)
}
