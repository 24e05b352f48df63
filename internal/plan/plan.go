// Package plan renders a resolved resource graph and output set into the
// plan document handed to the reconciliation engine. Resources appear in
// dependency order so the engine can create them front to back, and the
// encoding is deterministic: identical resolutions produce byte-identical
// documents.
package plan

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"

	stateboot "github.com/stateboot/stateboot-aws-go"
	"github.com/stateboot/stateboot-aws-go/internal/graph"
)

// Version is the plan document schema version.
const Version = 1

// Document is the rendered plan.
type Document struct {
	Version   int                 `json:"version" yaml:"version"`
	Resources []Entry             `json:"resources" yaml:"resources"`
	Outputs   stateboot.OutputSet `json:"outputs" yaml:"outputs"`
}

// Entry is a single resource in the plan, in creation order.
type Entry struct {
	Name       string                 `json:"name" yaml:"name"`
	Kind       stateboot.ResourceKind `json:"kind" yaml:"kind"`
	DependsOn  []string               `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	Attributes map[string]any         `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Build renders the graph and outputs into a plan document. The graph
// must already be validated; Build still fails on a cycle rather than
// emitting a partial document.
func Build(g stateboot.Graph, outputs stateboot.OutputSet) (*Document, error) {
	order, err := graph.Sort(g)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(order))
	for _, name := range order {
		node := g.Resources[name]
		entries = append(entries, Entry{
			Name:       node.Name,
			Kind:       node.Kind,
			DependsOn:  node.DependsOn,
			Attributes: node.Attributes,
		})
	}

	return &Document{
		Version:   Version,
		Resources: entries,
		Outputs:   outputs,
	}, nil
}

// ToJSON encodes the document as indented JSON.
func ToJSON(d *Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// ToYAML encodes the document as YAML.
func ToYAML(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
