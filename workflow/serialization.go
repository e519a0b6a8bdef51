package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ToJSON serializes the workflow to indented JSON.
func (w *Workflow) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal workflow to JSON: %w", err)
	}
	return data, nil
}

// ToYAML serializes the workflow to YAML.
func (w *Workflow) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("marshal workflow to YAML: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a workflow from JSON and validates it.
func FromJSON(data []byte) (*Workflow, error) {
	var wf Workflow
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("unmarshal workflow from JSON: %w", err)
	}
	if result := Validate(&wf); !result.Valid {
		return nil, fmt.Errorf("workflow validation failed: %s", strings.Join(result.Errors, "; "))
	}
	return &wf, nil
}

// FromYAML deserializes a workflow from YAML and validates it.
func FromYAML(data []byte) (*Workflow, error) {
	var wf Workflow
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("unmarshal workflow from YAML: %w", err)
	}
	if result := Validate(&wf); !result.Valid {
		return nil, fmt.Errorf("workflow validation failed: %s", strings.Join(result.Errors, "; "))
	}
	return &wf, nil
}

// LoadFile reads a workflow document from disk, choosing the codec by file
// extension (.json, .yaml, .yml).
func LoadFile(path string) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FromJSON(data)
	case ".yaml", ".yml":
		return FromYAML(data)
	default:
		return nil, fmt.Errorf("unsupported workflow file extension: %s", filepath.Ext(path))
	}
}

// SaveFile writes a workflow document to disk, choosing the codec by file
// extension (.json, .yaml, .yml).
func (w *Workflow) SaveFile(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = w.ToJSON()
	case ".yaml", ".yml":
		data, err = w.ToYAML()
	default:
		return fmt.Errorf("unsupported workflow file extension: %s", filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write workflow file: %w", err)
	}
	return nil
}
