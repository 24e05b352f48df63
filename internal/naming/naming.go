// Package naming derives concrete resource names and ARNs from a
// configuration. All derivations are pure: the same configuration always
// yields the same names, with no lookups and no randomness.
package naming

import (
	"fmt"

	stateboot "github.com/stateboot/stateboot-aws-go"
)

// Documented defaults applied when the corresponding override is empty.
const (
	// DefaultKeyAlias is the default alias of the state encryption key.
	DefaultKeyAlias = "alias/tfstate"
	// DefaultGitHubActionsRoleName is the default name of the federated CI role.
	DefaultGitHubActionsRoleName = "github-actions-terraform"
	// DefaultDatadogRoleName is the default name of the pre-existing
	// Datadog AWS integration role.
	DefaultDatadogRoleName = "DatadogIntegrationRole"
	// DefaultDatadogPolicyName is the default name of the pre-existing
	// Datadog AWS integration policy.
	DefaultDatadogPolicyName = "DatadogIntegrationPolicy"
)

// LockTableName is the fixed name of the DynamoDB lock table. The classic
// locking mode expects exactly this table name.
const LockTableName = "terraform"

// GitHub OIDC constants. The issuer and audience are static for GitHub
// Actions federation.
const (
	OIDCIssuerURL  = "https://token.actions.githubusercontent.com"
	OIDCIssuerHost = "token.actions.githubusercontent.com"
	OIDCAudience   = "sts.amazonaws.com"
)

// Names holds the concrete names for every resource the resolver may
// declare. LockTable is empty when DynamoDB locking is disabled.
type Names struct {
	StateBucket          string
	LockTable            string
	KeyAlias             string
	GitHubActionsRole    string
	DatadogRole          string
	DatadogPolicy        string
	DatadogAPIKeysSecret string
	OpsgenieAPIKeySecret string
}

// Resolve computes all concrete names for the given configuration,
// falling back to documented defaults where overrides are empty.
func Resolve(cfg stateboot.Configuration) Names {
	names := Names{
		StateBucket:          withDefault(cfg.StateBucketName, "terraform-state-"+cfg.AccountID),
		KeyAlias:             withDefault(cfg.KMSKeyAlias, DefaultKeyAlias),
		GitHubActionsRole:    withDefault(cfg.GitHubActionsRoleName, DefaultGitHubActionsRoleName),
		DatadogRole:          withDefault(cfg.DatadogRoleName, DefaultDatadogRoleName),
		DatadogPolicy:        withDefault(cfg.DatadogPolicyName, DefaultDatadogPolicyName),
		DatadogAPIKeysSecret: cfg.DatadogAPIKeysSecretName,
		OpsgenieAPIKeySecret: cfg.OpsgenieAPIKeySecretName,
	}
	if cfg.EnableDynamoDBLocking {
		names.LockTable = LockTableName
	}
	return names
}

func withDefault(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}

// BucketARN returns the ARN of an S3 bucket.
func BucketARN(bucket string) string {
	return "arn:aws:s3:::" + bucket
}

// BucketObjectsARN returns the ARN pattern covering all objects in a bucket.
func BucketObjectsARN(bucket string) string {
	return BucketARN(bucket) + "/*"
}

// RoleARN returns the ARN of an IAM role.
func RoleARN(accountID, role string) string {
	return fmt.Sprintf("arn:aws:iam::%s:role/%s", accountID, role)
}

// PolicyARN returns the ARN of a customer-managed IAM policy.
func PolicyARN(accountID, policy string) string {
	return fmt.Sprintf("arn:aws:iam::%s:policy/%s", accountID, policy)
}

// OIDCProviderARN returns the ARN of the GitHub OIDC identity provider.
func OIDCProviderARN(accountID string) string {
	return fmt.Sprintf("arn:aws:iam::%s:oidc-provider/%s", accountID, OIDCIssuerHost)
}

// SecretARNPattern returns the ARN pattern matching a Secrets Manager
// secret by name. The trailing wildcard covers the random suffix Secrets
// Manager appends to secret ARNs.
func SecretARNPattern(region, accountID, name string) string {
	return fmt.Sprintf("arn:aws:secretsmanager:%s:%s:secret:%s-*", region, accountID, name)
}

// TableARN returns the ARN of a DynamoDB table.
func TableARN(region, accountID, table string) string {
	return fmt.Sprintf("arn:aws:dynamodb:%s:%s:table/%s", region, accountID, table)
}
