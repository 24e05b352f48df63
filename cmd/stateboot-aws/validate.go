package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	stateboot "github.com/stateboot/stateboot-aws-go"
	"github.com/stateboot/stateboot-aws-go/internal/configfile"
	"github.com/stateboot/stateboot-aws-go/internal/resolve"
)

// newValidateCmd creates the "validate" subcommand for checking a
// configuration without emitting a plan.
func newValidateCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "validate [config-file]",
		Short: "Validate a bootstrap configuration",
		Long: `Validate loads a configuration and resolves it without emitting a plan.

Checks performed:
  - Required fields: account id, region, conditional OIDC/Datadog fields
  - Flag consistency: Datadog permissions require the OIDC role
  - Graph validity: all dependency edges resolve and form a DAG

Examples:
    stateboot-aws validate stateboot.yaml
    stateboot-aws validate stateboot.yaml --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0], outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	return cmd
}

func runValidate(configPath, format string) error {
	cfg, err := configfile.Load(configPath)
	if err != nil {
		return err
	}

	validateResult := stateboot.ValidateResult{Success: true}

	result, err := resolve.Resolve(cfg)
	if err != nil {
		validateResult.Success = false
		validateResult.Errors = append(validateResult.Errors, err.Error())
	} else {
		validateResult.Resources = len(result.Graph.Resources)
	}

	return outputValidateResult(validateResult, format)
}

func outputValidateResult(result stateboot.ValidateResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))

	case "text":
		if result.Success {
			fmt.Printf("Validation passed: %d resources OK\n", result.Resources)
			return nil
		}

		fmt.Println("Validation FAILED:")
		for _, errMsg := range result.Errors {
			fmt.Printf("  ERROR: %s\n", errMsg)
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if !result.Success {
		os.Exit(1)
	}

	return nil
}
