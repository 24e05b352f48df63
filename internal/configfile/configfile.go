// Package configfile loads bootstrap configurations from disk. Two
// syntaxes are supported, chosen by file extension: YAML (.yaml/.yml) and
// HCL (.hcl). HCL files may reference environment variables through the
// env object, e.g. `aws_account_id = env.AWS_ACCOUNT_ID`.
//
// Defaults are applied for absent fields; in particular
// enable_github_oidc defaults to true.
package configfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"

	stateboot "github.com/stateboot/stateboot-aws-go"
)

// fileConfig is the on-disk schema. Booleans with a non-false default are
// pointers so an absent field is distinguishable from an explicit false.
type fileConfig struct {
	AccountID                string `yaml:"aws_account_id" hcl:"aws_account_id,optional"`
	Region                   string `yaml:"region" hcl:"region,optional"`
	OIDCRepo                 string `yaml:"oidc_repo" hcl:"oidc_repo,optional"`
	EnableDynamoDBLocking    bool   `yaml:"enable_dynamodb_locking" hcl:"enable_dynamodb_locking,optional"`
	EnableGitHubOIDC         *bool  `yaml:"enable_github_oidc" hcl:"enable_github_oidc,optional"`
	EnableDatadogPermissions bool   `yaml:"enable_datadog_permissions" hcl:"enable_datadog_permissions,optional"`
	StateBucketName          string `yaml:"state_bucket_name" hcl:"state_bucket_name,optional"`
	KMSKeyAlias              string `yaml:"kms_key_alias" hcl:"kms_key_alias,optional"`
	GitHubActionsRoleName    string `yaml:"github_actions_role_name" hcl:"github_actions_role_name,optional"`
	DatadogRoleName          string `yaml:"datadog_role_name" hcl:"datadog_role_name,optional"`
	DatadogPolicyName        string `yaml:"datadog_policy_name" hcl:"datadog_policy_name,optional"`
	DatadogAPIKeysSecretName string `yaml:"datadog_api_keys_secret_name" hcl:"datadog_api_keys_secret_name,optional"`
	OpsgenieAPIKeySecretName string `yaml:"opsgenie_api_key_secret_name" hcl:"opsgenie_api_key_secret_name,optional"`
}

// Load reads a configuration file, applying defaults for absent fields.
// The syntax is chosen by extension.
func Load(path string) (stateboot.Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return stateboot.Configuration{}, fmt.Errorf("reading config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadYAML(data, path)
	case ".hcl":
		return loadHCL(data, path)
	default:
		return stateboot.Configuration{}, fmt.Errorf("unsupported config extension %q (want .yaml, .yml or .hcl)", filepath.Ext(path))
	}
}

func loadYAML(data []byte, path string) (stateboot.Configuration, error) {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return stateboot.Configuration{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return fc.toConfiguration(), nil
}

func loadHCL(data []byte, path string) (stateboot.Configuration, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return stateboot.Configuration{}, fmt.Errorf("parsing %s: %s", path, diags.Error())
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(file.Body, evalContext(), &fc)
	if diags.HasErrors() {
		return stateboot.Configuration{}, fmt.Errorf("decoding %s: %s", path, diags.Error())
	}
	return fc.toConfiguration(), nil
}

// evalContext exposes the process environment to HCL expressions as the
// env object.
func evalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)
	for _, entry := range os.Environ() {
		if key, value, ok := strings.Cut(entry, "="); ok && key != "" {
			env[key] = cty.StringVal(value)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
	}
}

// toConfiguration applies defaults and produces the immutable
// configuration record.
func (fc fileConfig) toConfiguration() stateboot.Configuration {
	enableOIDC := true
	if fc.EnableGitHubOIDC != nil {
		enableOIDC = *fc.EnableGitHubOIDC
	}

	return stateboot.Configuration{
		AccountID:                fc.AccountID,
		Region:                   fc.Region,
		OIDCRepo:                 fc.OIDCRepo,
		EnableDynamoDBLocking:    fc.EnableDynamoDBLocking,
		EnableGitHubOIDC:         enableOIDC,
		EnableDatadogPermissions: fc.EnableDatadogPermissions,
		StateBucketName:          fc.StateBucketName,
		KMSKeyAlias:              fc.KMSKeyAlias,
		GitHubActionsRoleName:    fc.GitHubActionsRoleName,
		DatadogRoleName:          fc.DatadogRoleName,
		DatadogPolicyName:        fc.DatadogPolicyName,
		DatadogAPIKeysSecretName: fc.DatadogAPIKeysSecretName,
		OpsgenieAPIKeySecretName: fc.OpsgenieAPIKeySecretName,
	}
}
