package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/stateboot/stateboot-aws-go/internal/configfile"
	"github.com/stateboot/stateboot-aws-go/internal/plan"
	"github.com/stateboot/stateboot-aws-go/internal/resolve"
)

func newBuildCmd() *cobra.Command {
	var (
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "build [config-file]",
		Short: "Resolve a configuration into a reconciliation plan",
		Long: `Build loads a bootstrap configuration, resolves the resource graph and
emits the plan document.

Examples:
    stateboot-aws build stateboot.yaml
    stateboot-aws build stateboot.hcl -o plan.json
    stateboot-aws build stateboot.yaml --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(args[0], outputFormat, outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runBuild(configPath, format, outputFile string) error {
	cfg, err := configfile.Load(configPath)
	if err != nil {
		return err
	}

	result, err := resolve.Resolve(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return fmt.Errorf("build failed")
	}

	log.Debug().
		Int("resources", len(result.Graph.Resources)).
		Str("locking_mode", string(cfg.LockingMode())).
		Msg("configuration resolved")

	doc, err := plan.Build(result.Graph, result.Outputs)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case "json":
		data, err = plan.ToJSON(doc)
	case "yaml":
		data, err = plan.ToYAML(doc)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}

	if outputFile == "" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(outputFile, data, 0644)
}
