package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WorkflowBuilder provides a fluent API for constructing workflows, the
// same way the visual builder collaborator assembles them. Build validates
// the result so structurally broken graphs never reach the engine.
type WorkflowBuilder struct {
	wf     *Workflow
	logger *zap.Logger
}

// NewWorkflowBuilder creates a builder for a workflow with the given name.
func NewWorkflowBuilder(name string) *WorkflowBuilder {
	return &WorkflowBuilder{
		wf: &Workflow{
			ID:      uuid.New().String(),
			Name:    name,
			Version: "1",
			Settings: Settings{
				ErrorHandling: ErrorHandlingStop,
			},
		},
		logger: zap.NewNop(),
	}
}

// WithLogger sets a custom logger.
func (b *WorkflowBuilder) WithLogger(logger *zap.Logger) *WorkflowBuilder {
	b.logger = logger.With(zap.String("component", "workflow_builder"))
	return b
}

// WithID overrides the generated workflow id.
func (b *WorkflowBuilder) WithID(id string) *WorkflowBuilder {
	b.wf.ID = id
	return b
}

// WithVersion sets the workflow version.
func (b *WorkflowBuilder) WithVersion(version string) *WorkflowBuilder {
	b.wf.Version = version
	return b
}

// WithErrorHandling sets the workflow-level error policy.
func (b *WorkflowBuilder) WithErrorHandling(policy ErrorHandling) *WorkflowBuilder {
	b.wf.Settings.ErrorHandling = policy
	return b
}

// WithMaxExecutionTime bounds the whole run's wall clock.
func (b *WorkflowBuilder) WithMaxExecutionTime(d time.Duration) *WorkflowBuilder {
	b.wf.Settings.MaxExecutionTime = d
	return b
}

// WithMaxRetries sets the workflow-level retry budget hint.
func (b *WorkflowBuilder) WithMaxRetries(n int) *WorkflowBuilder {
	b.wf.Settings.MaxRetries = n
	return b
}

// SetVariable sets a workflow-global variable.
func (b *WorkflowBuilder) SetVariable(key string, value any) *WorkflowBuilder {
	if b.wf.Variables == nil {
		b.wf.Variables = make(map[string]any)
	}
	b.wf.Variables[key] = value
	return b
}

// AddNode appends a node in insertion order. Nodes added without an id get
// a generated one.
func (b *WorkflowBuilder) AddNode(node Node) *WorkflowBuilder {
	if node.ID == "" {
		node.ID = uuid.New().String()
	}
	b.wf.Nodes = append(b.wf.Nodes, node)
	return b
}

// AddTrigger appends an enabled trigger node.
func (b *WorkflowBuilder) AddTrigger(id, name string, cfg TriggerConfig) *WorkflowBuilder {
	return b.AddNode(Node{ID: id, Type: NodeTypeTrigger, Name: name, Enabled: true, Config: &cfg})
}

// AddAction appends an enabled action node.
func (b *WorkflowBuilder) AddAction(id, name string, cfg ActionConfig) *WorkflowBuilder {
	return b.AddNode(Node{ID: id, Type: NodeTypeAction, Name: name, Enabled: true, Config: &cfg})
}

// AddTable appends an enabled table operation node.
func (b *WorkflowBuilder) AddTable(id, name string, cfg TableConfig) *WorkflowBuilder {
	return b.AddNode(Node{ID: id, Type: NodeTypeTable, Name: name, Enabled: true, Config: &cfg})
}

// AddEmail appends an enabled email node.
func (b *WorkflowBuilder) AddEmail(id, name string, cfg EmailConfig) *WorkflowBuilder {
	return b.AddNode(Node{ID: id, Type: NodeTypeEmail, Name: name, Enabled: true, Config: &cfg})
}

// AddNotification appends an enabled notification node.
func (b *WorkflowBuilder) AddNotification(id, name string, cfg NotificationConfig) *WorkflowBuilder {
	return b.AddNode(Node{ID: id, Type: NodeTypeNotification, Name: name, Enabled: true, Config: &cfg})
}

// Connect adds a directed data-flow edge from a source node's output port
// to a target node's input port.
func (b *WorkflowBuilder) Connect(sourceID, sourceOutput, targetID, targetInput string) *WorkflowBuilder {
	b.wf.Connections = append(b.wf.Connections, Connection{
		ID:           uuid.New().String(),
		SourceNodeID: sourceID,
		TargetNodeID: targetID,
		SourceOutput: sourceOutput,
		TargetInput:  targetInput,
	})
	return b
}

// Build validates the assembled workflow and returns it. Structural
// diagnostics and per-node config problems are joined into one error so
// callers see every issue at once.
func (b *WorkflowBuilder) Build() (*Workflow, error) {
	var errs []string
	for _, n := range b.wf.Nodes {
		if err := n.Validate(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if result := Validate(b.wf); !result.Valid {
		errs = append(errs, result.Errors...)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("workflow validation failed: %s", strings.Join(errs, "; "))
	}

	b.logger.Info("workflow built",
		zap.String("workflow_id", b.wf.ID),
		zap.String("name", b.wf.Name),
		zap.Int("nodes", len(b.wf.Nodes)),
		zap.Int("connections", len(b.wf.Connections)),
	)
	return b.wf, nil
}
