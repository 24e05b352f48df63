// Package stateboot_aws provides the core types for resolving a Terraform
// remote-state bootstrap configuration into a resource graph.
//
// A Configuration describes the desired bootstrap setup (account, region,
// feature flags, naming overrides). The resolver turns it into a graph of
// ResourceSpec nodes with explicit dependency edges and a projected
// OutputSet, which the CLI renders into a plan document for an external
// reconciliation engine:
//
//	cfg := stateboot.Configuration{
//	    AccountID: "123456789012",
//	    Region:    "eu-central-1",
//	    OIDCRepo:  "myorg/myrepo:*",
//	}
//	result, err := resolve.Resolve(cfg)
package stateboot_aws

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// LockingMode selects the state-locking mechanism for the bootstrap.
type LockingMode string

const (
	// LockingS3Native uses S3 conditional writes for state locking.
	LockingS3Native LockingMode = "s3-native"
	// LockingDynamoDB uses a DynamoDB table for state locking.
	LockingDynamoDB LockingMode = "dynamodb"
)

// Configuration is the caller-supplied input for a single resolution.
// It is never mutated after construction; empty naming fields fall back
// to documented defaults during name resolution.
type Configuration struct {
	// AccountID is the 12-digit AWS account identifier.
	AccountID string `json:"aws_account_id" yaml:"aws_account_id" validate:"required,len=12,numeric"`

	// Region is the AWS region the state backend lives in.
	Region string `json:"region" yaml:"region" validate:"required"`

	// OIDCRepo is the GitHub repository filter for the OIDC trust policy,
	// in "owner/repo:filter" form. A trailing wildcard in the filter part
	// matches any subject with that prefix (e.g. "myorg/myrepo:*").
	OIDCRepo string `json:"oidc_repo" yaml:"oidc_repo" validate:"required_if=EnableGitHubOIDC true"`

	// EnableDynamoDBLocking switches the locking mode from s3-native to a
	// dedicated DynamoDB lock table.
	EnableDynamoDBLocking bool `json:"enable_dynamodb_locking" yaml:"enable_dynamodb_locking"`

	// EnableGitHubOIDC controls creation of the GitHub OIDC provider and
	// the federated CI role. Defaults to true when loaded from a file.
	EnableGitHubOIDC bool `json:"enable_github_oidc" yaml:"enable_github_oidc"`

	// EnableDatadogPermissions grants the CI role read access to the
	// pre-existing Datadog/Opsgenie integration resources. Requires
	// EnableGitHubOIDC.
	EnableDatadogPermissions bool `json:"enable_datadog_permissions" yaml:"enable_datadog_permissions"`

	// StateBucketName overrides the derived state bucket name.
	StateBucketName string `json:"state_bucket_name" yaml:"state_bucket_name"`

	// KMSKeyAlias overrides the state encryption key alias.
	KMSKeyAlias string `json:"kms_key_alias" yaml:"kms_key_alias"`

	// GitHubActionsRoleName overrides the federated CI role name.
	GitHubActionsRoleName string `json:"github_actions_role_name" yaml:"github_actions_role_name"`

	// DatadogRoleName overrides the looked-up Datadog integration role name.
	DatadogRoleName string `json:"datadog_role_name" yaml:"datadog_role_name"`

	// DatadogPolicyName overrides the looked-up Datadog integration policy name.
	DatadogPolicyName string `json:"datadog_policy_name" yaml:"datadog_policy_name"`

	// DatadogAPIKeysSecretName names the pre-existing Datadog API keys
	// secret. Required when EnableDatadogPermissions is set.
	DatadogAPIKeysSecretName string `json:"datadog_api_keys_secret_name" yaml:"datadog_api_keys_secret_name" validate:"required_if=EnableDatadogPermissions true"`

	// OpsgenieAPIKeySecretName names the pre-existing Opsgenie API key
	// secret. Required when EnableDatadogPermissions is set.
	OpsgenieAPIKeySecretName string `json:"opsgenie_api_key_secret_name" yaml:"opsgenie_api_key_secret_name" validate:"required_if=EnableDatadogPermissions true"`
}

// LockingMode returns the active locking mode, derived from
// EnableDynamoDBLocking. Exactly one mode is ever active.
func (c Configuration) LockingMode() LockingMode {
	if c.EnableDynamoDBLocking {
		return LockingDynamoDB
	}
	return LockingS3Native
}

// ResourceKind identifies the type of a resource graph node.
type ResourceKind string

const (
	// KindBucket is the versioned, encrypted state bucket.
	KindBucket ResourceKind = "Bucket"
	// KindEncryptionKey is the KMS key encrypting state at rest.
	KindEncryptionKey ResourceKind = "EncryptionKey"
	// KindLockTable is the DynamoDB state lock table.
	KindLockTable ResourceKind = "LockTable"
	// KindOidcProvider is the GitHub OIDC identity provider.
	KindOidcProvider ResourceKind = "OidcProvider"
	// KindIamRole is an IAM role.
	KindIamRole ResourceKind = "IamRole"
	// KindPolicyAttachment attaches an inline policy to a role.
	KindPolicyAttachment ResourceKind = "PolicyAttachment"
	// KindDataLookup is a read-only reference to a pre-existing resource,
	// never created by the reconciliation engine.
	KindDataLookup ResourceKind = "DataLookup"
)

// ResourceSpec is a single node in the resource graph.
type ResourceSpec struct {
	// Name is the logical name, unique within a graph.
	Name string `json:"name" yaml:"name"`
	// Kind is the resource kind.
	Kind ResourceKind `json:"kind" yaml:"kind"`
	// DependsOn lists logical names of resources that must exist before
	// this one. The reconciliation engine orders creation from these
	// edges, not from declaration order.
	DependsOn []string `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	// Attributes holds the desired-state attributes handed to the engine.
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Graph is a set of resource specifications keyed by logical name.
// The resolver guarantees the dependency edges form a DAG and that every
// edge resolves to a node in the same graph.
type Graph struct {
	Resources map[string]ResourceSpec `json:"resources" yaml:"resources"`
}

// NewGraph returns an empty graph.
func NewGraph() Graph {
	return Graph{Resources: make(map[string]ResourceSpec)}
}

// Add inserts a resource spec, replacing any existing node with the same
// logical name.
func (g Graph) Add(spec ResourceSpec) {
	g.Resources[spec.Name] = spec
}

// Node returns the named resource spec.
func (g Graph) Node(name string) (ResourceSpec, bool) {
	spec, ok := g.Resources[name]
	return spec, ok
}

// Has reports whether a node with the given logical name exists.
func (g Graph) Has(name string) bool {
	_, ok := g.Resources[name]
	return ok
}

// Names returns all logical names in lexical order.
func (g Graph) Names() []string {
	names := make([]string, 0, len(g.Resources))
	for name := range g.Resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AttrRef is a reference to an attribute of another graph node whose value
// is only known after reconciliation (e.g. the KMS key ARN).
//
// Serialized form:
//
//	{"$ref": "StateKey.Arn"}
type AttrRef struct {
	// Resource is the logical name of the referenced node.
	Resource string
	// Attribute is the attribute name on that node (e.g. "Arn").
	Attribute string
}

// String returns the dotted reference form.
func (r AttrRef) String() string {
	return r.Resource + "." + r.Attribute
}

// IsZero reports whether the reference is unpopulated.
func (r AttrRef) IsZero() bool {
	return r.Resource == "" && r.Attribute == ""
}

// MarshalJSON serializes the reference as {"$ref": "Resource.Attribute"}.
func (r AttrRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"$ref": r.String()})
}

// MarshalYAML serializes the reference as {$ref: Resource.Attribute}.
func (r AttrRef) MarshalYAML() (any, error) {
	return map[string]string{"$ref": r.String()}, nil
}

// OutputValue is a single published output: a literal string, a reference
// to a node attribute, or an explicit absence marker. Absent values
// serialize as null.
type OutputValue struct {
	Literal string
	Ref     AttrRef
	Absent  bool
}

// StringOutput returns a literal output value.
func StringOutput(s string) OutputValue {
	return OutputValue{Literal: s}
}

// RefOutput returns an output referencing a node attribute.
func RefOutput(resource, attribute string) OutputValue {
	return OutputValue{Ref: AttrRef{Resource: resource, Attribute: attribute}}
}

// AbsentOutput returns the explicit absence marker.
func AbsentOutput() OutputValue {
	return OutputValue{Absent: true}
}

// IsAbsent reports whether the value is the absence marker.
func (v OutputValue) IsAbsent() bool {
	return v.Absent
}

// MarshalJSON serializes absent values as null, references as $ref objects
// and everything else as a plain string.
func (v OutputValue) MarshalJSON() ([]byte, error) {
	switch {
	case v.Absent:
		return []byte("null"), nil
	case !v.Ref.IsZero():
		return json.Marshal(v.Ref)
	default:
		return json.Marshal(v.Literal)
	}
}

// MarshalYAML mirrors MarshalJSON for YAML plan output.
func (v OutputValue) MarshalYAML() (any, error) {
	switch {
	case v.Absent:
		return nil, nil
	case !v.Ref.IsZero():
		return v.Ref.MarshalYAML()
	default:
		return v.Literal, nil
	}
}

// OutputSet maps output names to their resolved values.
type OutputSet map[string]OutputValue

// InvalidConfigError reports a configuration field that violates a
// constraint. All validation failures are detected before a graph is
// finalized; a partial graph is never returned alongside one.
type InvalidConfigError struct {
	// Field is the offending configuration key (file syntax, e.g.
	// "aws_account_id").
	Field string
	// Constraint describes the violated constraint.
	Constraint string
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: field %q %s", e.Field, e.Constraint)
}

// NewInvalidConfig returns an InvalidConfigError for the given field.
func NewInvalidConfig(field, constraint string) error {
	return &InvalidConfigError{Field: field, Constraint: constraint}
}

// IsInvalidConfig reports whether err is (or wraps) an InvalidConfigError.
func IsInvalidConfig(err error) bool {
	var ice *InvalidConfigError
	return errors.As(err, &ice)
}

// ValidateResult is the JSON envelope emitted by `stateboot-aws validate`.
type ValidateResult struct {
	Success   bool     `json:"success"`
	Resources int      `json:"resources"`
	Errors    []string `json:"errors,omitempty"`
}
