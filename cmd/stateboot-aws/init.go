package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/spf13/cobra"
)

// validProjectName matches valid project names (alphanumeric, hyphens, underscores)
var validProjectName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

func newInitCmd() *cobra.Command {
	var useHCL bool

	cmd := &cobra.Command{
		Use:   "init [project-name]",
		Short: "Create a starter bootstrap configuration",
		Long: `Init creates a new project directory with a starter configuration.

Examples:
    stateboot-aws init prod-state          # Creates ./prod-state/stateboot.yaml
    stateboot-aws init prod-state --hcl    # Creates ./prod-state/stateboot.hcl`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(".", args[0], useHCL)
		},
	}

	cmd.Flags().BoolVar(&useHCL, "hcl", false, "Write HCL instead of YAML")

	return cmd
}

// runInit creates a new project in {workspaceDir}/{projectName}/
func runInit(workspaceDir, projectName string, useHCL bool) error {
	if !validProjectName.MatchString(projectName) {
		return fmt.Errorf("invalid project name %q: must start with a letter and contain only letters, numbers, hyphens, or underscores", projectName)
	}

	projectPath := filepath.Join(workspaceDir, projectName)
	if _, err := os.Stat(projectPath); err == nil {
		return fmt.Errorf("project already exists: %s", projectPath)
	}

	if err := os.MkdirAll(projectPath, 0755); err != nil {
		return fmt.Errorf("creating project directory: %w", err)
	}

	fileName := "stateboot.yaml"
	content := starterYAML
	if useHCL {
		fileName = "stateboot.hcl"
		content = starterHCL
	}

	configPath := filepath.Join(projectPath, fileName)
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", fileName, err)
	}

	fmt.Printf("Created %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Printf("  1. Edit %s with your account id and region\n", configPath)
	fmt.Printf("  2. Run: stateboot-aws build %s\n", configPath)
	return nil
}

const starterYAML = `# stateboot remote-state bootstrap configuration.
aws_account_id: "123456789012"
region: eu-central-1

# GitHub repository filter for the OIDC trust policy, "owner/repo:filter".
# A trailing wildcard matches any subject with that prefix.
oidc_repo: "myorg/myrepo:*"

# Locking mode: s3-native by default; enable for a DynamoDB lock table.
enable_dynamodb_locking: false

# Optional overrides (defaults shown).
# state_bucket_name: terraform-state-123456789012
# kms_key_alias: alias/tfstate
# github_actions_role_name: github-actions-terraform

# Datadog read access for the CI role (requires OIDC).
enable_datadog_permissions: false
# datadog_api_keys_secret_name: datadog-api-keys
# opsgenie_api_key_secret_name: opsgenie-api-key
`

const starterHCL = `# stateboot remote-state bootstrap configuration.
aws_account_id = "123456789012"
region         = "eu-central-1"

# GitHub repository filter for the OIDC trust policy, "owner/repo:filter".
# A trailing wildcard matches any subject with that prefix.
oidc_repo = "myorg/myrepo:*"

# Locking mode: s3-native by default; enable for a DynamoDB lock table.
enable_dynamodb_locking = false

# Datadog read access for the CI role (requires OIDC).
enable_datadog_permissions = false
`
