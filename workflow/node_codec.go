package workflow

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// nodeWireJSON is the JSON wire shape of a node. The config payload stays
// raw until the type discriminator has been read.
type nodeWireJSON struct {
	ID         string          `json:"id"`
	Type       NodeType        `json:"type"`
	Name       string          `json:"name"`
	Enabled    bool            `json:"enabled"`
	RetryCount int             `json:"retry_count,omitempty"`
	Timeout    time.Duration   `json:"timeout,omitempty"`
	Position   Position        `json:"position"`
	Config     json.RawMessage `json:"config,omitempty"`
}

// nodeWireYAML mirrors nodeWireJSON for YAML documents.
type nodeWireYAML struct {
	ID         string        `yaml:"id"`
	Type       NodeType      `yaml:"type"`
	Name       string        `yaml:"name"`
	Enabled    bool          `yaml:"enabled"`
	RetryCount int           `yaml:"retry_count"`
	Timeout    time.Duration `yaml:"timeout"`
	Position   Position      `yaml:"position"`
	Config     yaml.Node     `yaml:"config"`
}

// UnmarshalJSON decodes a node, selecting the config variant by the type
// discriminator. An unknown type with a config payload is an error.
func (n *Node) UnmarshalJSON(data []byte) error {
	var w nodeWireJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("unmarshal node: %w", err)
	}
	*n = Node{
		ID:         w.ID,
		Type:       w.Type,
		Name:       w.Name,
		Enabled:    w.Enabled,
		RetryCount: w.RetryCount,
		Timeout:    w.Timeout,
		Position:   w.Position,
	}
	if len(w.Config) == 0 || string(w.Config) == "null" {
		return nil
	}
	cfg, err := newNodeConfig(w.Type)
	if err != nil {
		return fmt.Errorf("unmarshal node %s: %w", w.ID, err)
	}
	if err := json.Unmarshal(w.Config, cfg); err != nil {
		return fmt.Errorf("unmarshal node %s config: %w", w.ID, err)
	}
	n.Config = cfg
	return nil
}

// UnmarshalYAML decodes a node from YAML, selecting the config variant by
// the type discriminator.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	var w nodeWireYAML
	if err := value.Decode(&w); err != nil {
		return fmt.Errorf("unmarshal node: %w", err)
	}
	*n = Node{
		ID:         w.ID,
		Type:       w.Type,
		Name:       w.Name,
		Enabled:    w.Enabled,
		RetryCount: w.RetryCount,
		Timeout:    w.Timeout,
		Position:   w.Position,
	}
	if w.Config.Kind == 0 || w.Config.Tag == "!!null" {
		return nil
	}
	cfg, err := newNodeConfig(w.Type)
	if err != nil {
		return fmt.Errorf("unmarshal node %s: %w", w.ID, err)
	}
	if err := w.Config.Decode(cfg); err != nil {
		return fmt.Errorf("unmarshal node %s config: %w", w.ID, err)
	}
	n.Config = cfg
	return nil
}
