// Package policy provides IAM policy document types used by the resolver:
// the TLS-only bucket policy, the OIDC trust policy and the Datadog
// read-access policy are all expressed with these types and serialize to
// standard IAM policy JSON.
package policy

import (
	"encoding/json"
)

// Json is a shorthand for map[string]any.
// Used for inline JSON objects like Condition blocks.
//
// Example:
//
//	Condition: Json{
//	    Bool: Json{"aws:SecureTransport": "false"},
//	}
type Json = map[string]any

// Document represents an IAM policy document.
type Document struct {
	Version   string      `json:"Version,omitempty" yaml:"Version,omitempty"`
	Statement []Statement `json:"Statement" yaml:"Statement"`
}

// DefaultVersion is the IAM policy language version used for all documents.
const DefaultVersion = "2012-10-17"

// NewDocument creates a Document with the default version.
func NewDocument(statements ...Statement) Document {
	return Document{Version: DefaultVersion, Statement: statements}
}

// Statement represents a single IAM policy statement.
type Statement struct {
	Sid       string `json:"Sid,omitempty" yaml:"Sid,omitempty"`
	Effect    string `json:"Effect" yaml:"Effect"`
	Principal any    `json:"Principal,omitempty" yaml:"Principal,omitempty"`
	Action    any    `json:"Action,omitempty" yaml:"Action,omitempty"`
	Resource  any    `json:"Resource,omitempty" yaml:"Resource,omitempty"`
	Condition Json   `json:"Condition,omitempty" yaml:"Condition,omitempty"`
}

// Statement effects.
const (
	EffectAllow = "Allow"
	EffectDeny  = "Deny"
)

// ServicePrincipal represents a service principal (e.g. s3.amazonaws.com).
// Serializes to {"Service": ...} format.
type ServicePrincipal []any

// MarshalJSON serializes to {"Service": ...} format.
func (p ServicePrincipal) MarshalJSON() ([]byte, error) {
	return json.Marshal(principalMap("Service", p))
}

// MarshalYAML mirrors MarshalJSON.
func (p ServicePrincipal) MarshalYAML() (any, error) {
	return principalMap("Service", p), nil
}

// AWSPrincipal represents an AWS account/role/user principal.
// Serializes to {"AWS": ...} format.
type AWSPrincipal []any

// MarshalJSON serializes to {"AWS": ...} format.
func (p AWSPrincipal) MarshalJSON() ([]byte, error) {
	return json.Marshal(principalMap("AWS", p))
}

// MarshalYAML mirrors MarshalJSON.
func (p AWSPrincipal) MarshalYAML() (any, error) {
	return principalMap("AWS", p), nil
}

// FederatedPrincipal represents a federated identity principal, e.g. the
// ARN of an OIDC provider. Serializes to {"Federated": ...} format.
type FederatedPrincipal []any

// MarshalJSON serializes to {"Federated": ...} format.
func (p FederatedPrincipal) MarshalJSON() ([]byte, error) {
	return json.Marshal(principalMap("Federated", p))
}

// MarshalYAML mirrors MarshalJSON.
func (p FederatedPrincipal) MarshalYAML() (any, error) {
	return principalMap("Federated", p), nil
}

// principalMap collapses single-element principals to a scalar, matching
// the canonical IAM form.
func principalMap(key string, items []any) map[string]any {
	if len(items) == 1 {
		return map[string]any{key: items[0]}
	}
	return map[string]any{key: items}
}

// AllPrincipal represents the wildcard principal "*".
const AllPrincipal = "*"

// IAM condition operators. Use these as keys in Condition maps.
const (
	StringEquals = "StringEquals"
	StringLike   = "StringLike"

	ArnEquals = "ArnEquals"
	ArnLike   = "ArnLike"

	Bool = "Bool"

	Null = "Null"
)
