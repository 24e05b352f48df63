package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stateboot/stateboot-aws-go/internal/configfile"
	"github.com/stateboot/stateboot-aws-go/internal/graph"
	"github.com/stateboot/stateboot-aws-go/internal/resolve"
)

func newGraphCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "graph [config-file]",
		Short: "Generate DOT graph of resource dependencies",
		Long: `Generate a DOT or Mermaid format graph of the resolved resource graph.

The output can be rendered with Graphviz:
    stateboot-aws graph stateboot.yaml | dot -Tpng -o deps.png

Or used in GitHub markdown (Mermaid format):
    stateboot-aws graph stateboot.yaml -f mermaid`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(args[0], outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "dot", "Output format: dot or mermaid")

	return cmd
}

func runGraph(configPath, format string) error {
	cfg, err := configfile.Load(configPath)
	if err != nil {
		return err
	}

	result, err := resolve.Resolve(cfg)
	if err != nil {
		return err
	}

	var graphFormat graph.Format
	switch format {
	case "dot":
		graphFormat = graph.FormatDOT
	case "mermaid":
		graphFormat = graph.FormatMermaid
	default:
		return fmt.Errorf("unknown format: %s (use 'dot' or 'mermaid')", format)
	}

	gen := &graph.Generator{Format: graphFormat}
	return gen.Generate(result.Graph, os.Stdout)
}
