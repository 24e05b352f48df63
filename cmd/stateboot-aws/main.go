// Command stateboot-aws resolves Terraform remote-state bootstrap
// configurations into resource plans for a reconciliation engine.
//
// Usage:
//
//	stateboot-aws build stateboot.yaml      Resolve and emit the plan
//	stateboot-aws validate stateboot.yaml   Check the configuration
//	stateboot-aws graph stateboot.yaml      Render the dependency graph
//	stateboot-aws init myproject            Create a starter configuration
//	stateboot-aws version                   Show version
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "stateboot-aws",
		Short: "Bootstrap Terraform remote state on AWS",
		Long: `stateboot-aws resolves a remote-state bootstrap configuration into a
resource plan: an encrypted, versioned state bucket, its KMS key, an
optional DynamoDB lock table, and an optional GitHub OIDC provider with
a federated CI role.

The plan lists resources in dependency order with explicit edges, so
the reconciliation engine can parallelize independent resources while
serializing dependent ones:

    stateboot-aws build stateboot.yaml`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(verbose)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newBuildCmd(),
		newValidateCmd(),
		newGraphCmd(),
		newInitCmd(),
		newWatchCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging configures zerolog for human-readable diagnostics on
// stderr. User-facing output (plans, graphs) goes to stdout untouched.
func setupLogging(verbose bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	level := zerolog.InfoLevel
	if verbose || os.Getenv("LOG_LEVEL") == "debug" {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("stateboot-aws %s\n", getVersion())
		},
	}
}
