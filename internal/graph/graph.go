// Package graph validates resource graphs and renders them as DOT or
// Mermaid diagrams. Validation guarantees the two invariants the
// reconciliation engine relies on: every dependency edge resolves to a
// node in the graph, and the edges form a DAG.
package graph

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/emicklei/dot"

	stateboot "github.com/stateboot/stateboot-aws-go"
)

// Validate checks that every dependency reference resolves to a node in
// the same graph and that the dependency edges contain no cycle.
func Validate(g stateboot.Graph) error {
	for _, name := range g.Names() {
		node := g.Resources[name]
		for _, dep := range node.DependsOn {
			if !g.Has(dep) {
				return fmt.Errorf("resource %s depends on undeclared resource %s", name, dep)
			}
		}
	}
	return detectCycles(g)
}

// detectCycles runs a depth-first search over the dependency edges and
// reports the first cycle found.
func detectCycles(g stateboot.Graph) error {
	visited := make(map[string]bool)
	inStack := make(map[string]bool)

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		visited[name] = true
		inStack[name] = true
		path = append(path, name)

		for _, dep := range g.Resources[name].DependsOn {
			if inStack[dep] {
				return fmt.Errorf("dependency cycle: %s -> %s", strings.Join(path, " -> "), dep)
			}
			if !visited[dep] {
				if err := visit(dep, path); err != nil {
					return err
				}
			}
		}

		inStack[name] = false
		return nil
	}

	for _, name := range g.Names() {
		if !visited[name] {
			if err := visit(name, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

// Sort returns the logical names in dependency order: every node appears
// after all of its dependencies. Ties break lexically so the order is
// deterministic for identical graphs.
func Sort(g stateboot.Graph) ([]string, error) {
	dependents := make(map[string][]string)
	inDegree := make(map[string]int)

	for name := range g.Resources {
		dependents[name] = nil
		inDegree[name] = 0
	}

	for name, node := range g.Resources {
		for _, dep := range node.DependsOn {
			if !g.Has(dep) {
				return nil, fmt.Errorf("resource %s depends on undeclared resource %s", name, dep)
			}
			dependents[dep] = append(dependents[dep], name)
			inDegree[name]++
		}
	}

	// Kahn's algorithm with a sorted frontier.
	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	var order []string
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		order = append(order, name)

		var released []string
		for _, dependent := range dependents[name] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				released = append(released, dependent)
			}
		}
		sort.Strings(released)
		queue = append(queue, released...)
	}

	if len(order) != len(g.Resources) {
		return nil, fmt.Errorf("dependency cycle among %d resources", len(g.Resources)-len(order))
	}
	return order, nil
}

// Format specifies the output format for rendered graphs.
type Format string

const (
	// FormatDOT outputs Graphviz DOT format.
	FormatDOT Format = "dot"
	// FormatMermaid outputs Mermaid format for GitHub/markdown rendering.
	FormatMermaid Format = "mermaid"
)

// Generator renders a resource graph as a diagram.
type Generator struct {
	// Format specifies the output format (dot or mermaid). Defaults to dot.
	Format Format
}

// Generate renders the graph and writes it to w.
func (gen *Generator) Generate(g stateboot.Graph, w io.Writer) error {
	diagram := gen.buildDiagram(g)

	format := gen.Format
	if format == "" {
		format = FormatDOT
	}

	var output string
	if format == FormatMermaid {
		output = dot.MermaidGraph(diagram, dot.MermaidTopToBottom)
	} else {
		output = diagram.String()
	}

	_, err := w.Write([]byte(output))
	return err
}

// GenerateString is a convenience method that returns the diagram as a string.
func (gen *Generator) GenerateString(g stateboot.Graph) (string, error) {
	var sb strings.Builder
	if err := gen.Generate(g, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// buildDiagram creates the dot.Graph structure from the resource graph.
func (gen *Generator) buildDiagram(g stateboot.Graph) *dot.Graph {
	diagram := dot.NewGraph(dot.Directed)
	diagram.Attr("rankdir", "TB")

	diagram.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("fontname", "Arial")
	})

	for _, name := range g.Names() {
		node := g.Resources[name]
		n := diagram.Node(name)
		n.Label(name + "\\n[" + string(node.Kind) + "]")
		// Lookups reference pre-existing resources; draw them dashed.
		if node.Kind == stateboot.KindDataLookup {
			n.Attr("style", "dashed")
		}
	}

	for _, name := range g.Names() {
		for _, dep := range g.Resources[name].DependsOn {
			diagram.Edge(diagram.Node(name), diagram.Node(dep))
		}
	}

	return diagram
}
