package workflow

import (
	"fmt"
	"time"
)

// NodeType discriminates the automation step variants.
type NodeType string

const (
	// NodeTypeTrigger starts an execution; seeds the scheduler traversal.
	NodeTypeTrigger NodeType = "trigger"
	// NodeTypeAction calls an external service method.
	NodeTypeAction NodeType = "action"
	// NodeTypeTable performs a data table operation.
	NodeTypeTable NodeType = "table"
	// NodeTypePage interacts with an application page.
	NodeTypePage NodeType = "page"
	// NodeTypeEmail sends an email.
	NodeTypeEmail NodeType = "email"
	// NodeTypeInvoice generates an invoice document.
	NodeTypeInvoice NodeType = "invoice"
	// NodeTypeReport renders a report.
	NodeTypeReport NodeType = "report"
	// NodeTypeNotification delivers a notification to one or more channels.
	NodeTypeNotification NodeType = "notification"
)

// knownNodeTypes lists every valid discriminator value.
var knownNodeTypes = map[NodeType]bool{
	NodeTypeTrigger:      true,
	NodeTypeAction:       true,
	NodeTypeTable:        true,
	NodeTypePage:         true,
	NodeTypeEmail:        true,
	NodeTypeInvoice:      true,
	NodeTypeReport:       true,
	NodeTypeNotification: true,
}

// Position carries canvas coordinates set by the builder collaborator.
// It has no effect on execution.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// NodeConfig is the closed set of type-specific node payloads, selected by
// the node's Type discriminator. Implementations are value structs; the
// engine never mutates them.
type NodeConfig interface {
	// Validate reports whether the variant carries its required fields.
	Validate() error

	nodeConfig()
}

// Node is one step in a workflow: a typed unit of work with a stable id,
// unique within its workflow.
type Node struct {
	ID         string        `json:"id" yaml:"id"`
	Type       NodeType      `json:"type" yaml:"type"`
	Name       string        `json:"name" yaml:"name"`
	Enabled    bool          `json:"enabled" yaml:"enabled"`
	RetryCount int           `json:"retry_count,omitempty" yaml:"retry_count,omitempty"`
	Timeout    time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Position   Position      `json:"position" yaml:"position"`
	Config     NodeConfig    `json:"config,omitempty" yaml:"config,omitempty"`
}

// Validate checks the node's common fields and its typed config.
func (n Node) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("node has no id")
	}
	if !knownNodeTypes[n.Type] {
		return fmt.Errorf("node %s: unknown type %q", n.ID, n.Type)
	}
	if n.RetryCount < 0 {
		return fmt.Errorf("node %s: retry_count must be >= 0", n.ID)
	}
	if n.Config != nil {
		if err := n.Config.Validate(); err != nil {
			return fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	return nil
}

// TriggerConfig configures a trigger node.
type TriggerConfig struct {
	// TriggerKind is the trigger source: manual, webhook, or schedule.
	TriggerKind string `json:"trigger_kind" yaml:"trigger_kind"`
	// Event names the event that fires the trigger.
	Event string `json:"event,omitempty" yaml:"event,omitempty"`
}

func (TriggerConfig) nodeConfig() {}

func (c TriggerConfig) Validate() error {
	if c.TriggerKind == "" {
		return fmt.Errorf("trigger config requires trigger_kind")
	}
	return nil
}

// ActionConfig configures an action node calling an external service.
type ActionConfig struct {
	Service    string         `json:"service" yaml:"service"`
	Method     string         `json:"method" yaml:"method"`
	Parameters map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

func (ActionConfig) nodeConfig() {}

func (c ActionConfig) Validate() error {
	if c.Service == "" {
		return fmt.Errorf("action config requires service")
	}
	if c.Method == "" {
		return fmt.Errorf("action config requires method")
	}
	return nil
}

// TableConfig configures a data table operation node.
type TableConfig struct {
	TableName string         `json:"table_name" yaml:"table_name"`
	Operation string         `json:"operation" yaml:"operation"`
	Filter    map[string]any `json:"filter,omitempty" yaml:"filter,omitempty"`
}

func (TableConfig) nodeConfig() {}

func (c TableConfig) Validate() error {
	if c.TableName == "" {
		return fmt.Errorf("table config requires table_name")
	}
	if c.Operation == "" {
		return fmt.Errorf("table config requires operation")
	}
	return nil
}

// PageConfig configures a page interaction node.
type PageConfig struct {
	PagePath string `json:"page_path" yaml:"page_path"`
	Action   string `json:"action,omitempty" yaml:"action,omitempty"`
}

func (PageConfig) nodeConfig() {}

func (c PageConfig) Validate() error {
	if c.PagePath == "" {
		return fmt.Errorf("page config requires page_path")
	}
	return nil
}

// EmailConfig configures an email node.
type EmailConfig struct {
	To       []string `json:"to" yaml:"to"`
	Subject  string   `json:"subject" yaml:"subject"`
	Template string   `json:"template,omitempty" yaml:"template,omitempty"`
}

func (EmailConfig) nodeConfig() {}

func (c EmailConfig) Validate() error {
	if len(c.To) == 0 {
		return fmt.Errorf("email config requires at least one recipient")
	}
	return nil
}

// InvoiceConfig configures an invoice generation node.
type InvoiceConfig struct {
	CustomerID string `json:"customer_id" yaml:"customer_id"`
	Template   string `json:"template,omitempty" yaml:"template,omitempty"`
	Currency   string `json:"currency,omitempty" yaml:"currency,omitempty"`
}

func (InvoiceConfig) nodeConfig() {}

func (c InvoiceConfig) Validate() error {
	if c.CustomerID == "" {
		return fmt.Errorf("invoice config requires customer_id")
	}
	return nil
}

// ReportConfig configures a report rendering node.
type ReportConfig struct {
	ReportName string `json:"report_name" yaml:"report_name"`
	Format     string `json:"format,omitempty" yaml:"format,omitempty"`
}

func (ReportConfig) nodeConfig() {}

func (c ReportConfig) Validate() error {
	if c.ReportName == "" {
		return fmt.Errorf("report config requires report_name")
	}
	return nil
}

// NotificationConfig configures a notification delivery node.
type NotificationConfig struct {
	Channel    string   `json:"channel" yaml:"channel"`
	Recipients []string `json:"recipients,omitempty" yaml:"recipients,omitempty"`
	Message    string   `json:"message,omitempty" yaml:"message,omitempty"`
}

func (NotificationConfig) nodeConfig() {}

func (c NotificationConfig) Validate() error {
	if c.Channel == "" {
		return fmt.Errorf("notification config requires channel")
	}
	return nil
}

// newNodeConfig returns the zero config variant for a node type.
func newNodeConfig(t NodeType) (NodeConfig, error) {
	switch t {
	case NodeTypeTrigger:
		return &TriggerConfig{}, nil
	case NodeTypeAction:
		return &ActionConfig{}, nil
	case NodeTypeTable:
		return &TableConfig{}, nil
	case NodeTypePage:
		return &PageConfig{}, nil
	case NodeTypeEmail:
		return &EmailConfig{}, nil
	case NodeTypeInvoice:
		return &InvoiceConfig{}, nil
	case NodeTypeReport:
		return &ReportConfig{}, nil
	case NodeTypeNotification:
		return &NotificationConfig{}, nil
	default:
		return nil, fmt.Errorf("unknown node type: %s", t)
	}
}
