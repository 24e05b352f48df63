package resolve

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stateboot "github.com/stateboot/stateboot-aws-go"
	"github.com/stateboot/stateboot-aws-go/policy"
)

// baseConfig mirrors the minimal OIDC-enabled setup.
func baseConfig() stateboot.Configuration {
	return stateboot.Configuration{
		AccountID:        "123456789012",
		Region:           "eu-central-1",
		OIDCRepo:         "myorg/myrepo:*",
		EnableGitHubOIDC: true,
	}
}

func TestResolve_BaseGraph(t *testing.T) {
	result, err := Resolve(baseConfig())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		NameStateKey,
		NameStateBucket,
		NameOIDCProvider,
		NameGitHubRole,
	}, result.Graph.Names())

	bucket, ok := result.Graph.Node(NameStateBucket)
	require.True(t, ok)
	assert.Equal(t, stateboot.KindBucket, bucket.Kind)
	assert.Equal(t, []string{NameStateKey}, bucket.DependsOn)
	assert.Equal(t, "terraform-state-123456789012", bucket.Attributes["bucket_name"])
	assert.Equal(t, "Enabled", bucket.Attributes["versioning"])

	key, ok := result.Graph.Node(NameStateKey)
	require.True(t, ok)
	assert.Equal(t, stateboot.KindEncryptionKey, key.Kind)
	assert.Empty(t, key.DependsOn)
}

func TestResolve_BucketEncryptionReferencesKey(t *testing.T) {
	result, err := Resolve(baseConfig())
	require.NoError(t, err)

	bucket, _ := result.Graph.Node(NameStateBucket)
	encryption, ok := bucket.Attributes["encryption"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "aws:kms", encryption["algorithm"])
	assert.Equal(t, stateboot.AttrRef{Resource: NameStateKey, Attribute: "Arn"}, encryption["kms_key_arn"])
}

func TestResolve_BucketTLSOnlyPolicy(t *testing.T) {
	result, err := Resolve(baseConfig())
	require.NoError(t, err)

	bucket, _ := result.Graph.Node(NameStateBucket)
	doc, ok := bucket.Attributes["bucket_policy"].(policy.Document)
	require.True(t, ok)
	require.Len(t, doc.Statement, 1)
	assert.Equal(t, policy.EffectDeny, doc.Statement[0].Effect)
	assert.Equal(t, policy.Json{"aws:SecureTransport": "false"}, doc.Statement[0].Condition[policy.Bool])
}

func TestResolve_NoLockTableByDefault(t *testing.T) {
	result, err := Resolve(baseConfig())
	require.NoError(t, err)

	assert.False(t, result.Graph.Has(NameLockTable))
	assert.True(t, result.Outputs[OutputLockTableName].IsAbsent())
}

func TestResolve_DynamoDBLocking(t *testing.T) {
	cfg := baseConfig()
	cfg.EnableDynamoDBLocking = true

	result, err := Resolve(cfg)
	require.NoError(t, err)

	table, ok := result.Graph.Node(NameLockTable)
	require.True(t, ok)
	assert.Equal(t, stateboot.KindLockTable, table.Kind)
	assert.Equal(t, "terraform", table.Attributes["table_name"])
	assert.Empty(t, table.DependsOn)

	assert.Equal(t, stateboot.StringOutput("terraform"), result.Outputs[OutputLockTableName])
}

func TestResolve_OIDCRole(t *testing.T) {
	result, err := Resolve(baseConfig())
	require.NoError(t, err)

	provider, ok := result.Graph.Node(NameOIDCProvider)
	require.True(t, ok)
	assert.Equal(t, "https://token.actions.githubusercontent.com", provider.Attributes["url"])
	assert.Equal(t, []string{"sts.amazonaws.com"}, provider.Attributes["client_id_list"])

	role, ok := result.Graph.Node(NameGitHubRole)
	require.True(t, ok)
	assert.Equal(t, []string{NameOIDCProvider}, role.DependsOn)

	doc, ok := role.Attributes["assume_role_policy"].(policy.Document)
	require.True(t, ok)
	require.Len(t, doc.Statement, 1)

	stmt := doc.Statement[0]
	assert.Equal(t, "sts:AssumeRoleWithWebIdentity", stmt.Action)

	equals, ok := stmt.Condition[policy.StringEquals].(policy.Json)
	require.True(t, ok)
	assert.Equal(t, "sts.amazonaws.com", equals["token.actions.githubusercontent.com:aud"])

	// Wildcard filter moves the subject condition to StringLike.
	like, ok := stmt.Condition[policy.StringLike].(policy.Json)
	require.True(t, ok)
	assert.Equal(t, "repo:myorg/myrepo:*", like["token.actions.githubusercontent.com:sub"])
}

func TestResolve_OIDCExactSubject(t *testing.T) {
	cfg := baseConfig()
	cfg.OIDCRepo = "myorg/myrepo:ref:refs/heads/main"

	result, err := Resolve(cfg)
	require.NoError(t, err)

	role, _ := result.Graph.Node(NameGitHubRole)
	doc := role.Attributes["assume_role_policy"].(policy.Document)
	stmt := doc.Statement[0]

	assert.NotContains(t, stmt.Condition, policy.StringLike)
	equals := stmt.Condition[policy.StringEquals].(policy.Json)
	assert.Equal(t, "repo:myorg/myrepo:ref:refs/heads/main", equals["token.actions.githubusercontent.com:sub"])
}

func TestResolve_MalformedRepoFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter string
	}{
		{name: "no filter part", filter: "myorg/myrepo"},
		{name: "empty filter part", filter: "myorg/myrepo:"},
		{name: "no owner", filter: "/myrepo:*"},
		{name: "no repo name", filter: "myorg/:*"},
		{name: "no slash", filter: "myorg:*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			cfg.OIDCRepo = tt.filter

			result, err := Resolve(cfg)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, stateboot.IsInvalidConfig(err))
		})
	}
}

func TestResolve_OIDCDisabled(t *testing.T) {
	cfg := baseConfig()
	cfg.EnableGitHubOIDC = false
	cfg.OIDCRepo = ""

	result, err := Resolve(cfg)
	require.NoError(t, err)

	assert.False(t, result.Graph.Has(NameOIDCProvider))
	assert.False(t, result.Graph.Has(NameGitHubRole))
	assert.True(t, result.Outputs[OutputGitHubRoleARN].IsAbsent())
	assert.True(t, result.Outputs[OutputOIDCProviderARN].IsAbsent())
}

func TestResolve_DatadogWithoutOIDCFails(t *testing.T) {
	cfg := baseConfig()
	cfg.EnableGitHubOIDC = false
	cfg.OIDCRepo = ""
	cfg.EnableDatadogPermissions = true
	cfg.DatadogAPIKeysSecretName = "datadog-api-keys"
	cfg.OpsgenieAPIKeySecretName = "opsgenie-api-key"

	result, err := Resolve(cfg)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, stateboot.IsInvalidConfig(err))
}

func TestResolve_DatadogReadAccess(t *testing.T) {
	cfg := baseConfig()
	cfg.EnableDatadogPermissions = true
	cfg.DatadogAPIKeysSecretName = "datadog-api-keys"
	cfg.OpsgenieAPIKeySecretName = "opsgenie-api-key"

	result, err := Resolve(cfg)
	require.NoError(t, err)

	for _, name := range []string{
		NameDatadogRoleLookup,
		NameDatadogPolicyLookup,
		NameDatadogSecretLookup,
		NameOpsgenieSecretLookup,
	} {
		lookup, ok := result.Graph.Node(name)
		require.True(t, ok, name)
		assert.Equal(t, stateboot.KindDataLookup, lookup.Kind, name)
		assert.Empty(t, lookup.DependsOn, name)
	}

	attachment, ok := result.Graph.Node(NameDatadogReadAttachment)
	require.True(t, ok)
	assert.Equal(t, stateboot.KindPolicyAttachment, attachment.Kind)
	assert.ElementsMatch(t, []string{
		NameGitHubRole,
		NameDatadogRoleLookup,
		NameDatadogPolicyLookup,
		NameDatadogSecretLookup,
		NameOpsgenieSecretLookup,
	}, attachment.DependsOn)

	doc, ok := attachment.Attributes["policy"].(policy.Document)
	require.True(t, ok)
	require.Len(t, doc.Statement, 3)

	secrets := doc.Statement[0]
	assert.Equal(t, "secretsmanager:GetSecretValue", secrets.Action)
	assert.Equal(t, []string{
		"arn:aws:secretsmanager:eu-central-1:123456789012:secret:datadog-api-keys-*",
		"arn:aws:secretsmanager:eu-central-1:123456789012:secret:opsgenie-api-key-*",
	}, secrets.Resource)

	assert.Equal(t, "iam:GetRole", doc.Statement[1].Action)
	assert.Equal(t, "arn:aws:iam::123456789012:role/DatadogIntegrationRole", doc.Statement[1].Resource)
	assert.Equal(t, "iam:GetPolicy", doc.Statement[2].Action)
	assert.Equal(t, "arn:aws:iam::123456789012:policy/DatadogIntegrationPolicy", doc.Statement[2].Resource)
}

func TestResolve_Outputs(t *testing.T) {
	result, err := Resolve(baseConfig())
	require.NoError(t, err)

	assert.Equal(t, stateboot.OutputSet{
		OutputStateBucketName: stateboot.StringOutput("terraform-state-123456789012"),
		OutputStateBucketARN:  stateboot.StringOutput("arn:aws:s3:::terraform-state-123456789012"),
		OutputKMSKeyARN:       stateboot.RefOutput(NameStateKey, "Arn"),
		OutputLockTableName:   stateboot.AbsentOutput(),
		OutputGitHubRoleARN:   stateboot.StringOutput("arn:aws:iam::123456789012:role/github-actions-terraform"),
		OutputOIDCProviderARN: stateboot.StringOutput("arn:aws:iam::123456789012:oidc-provider/token.actions.githubusercontent.com"),
	}, result.Outputs)
}

func TestResolve_InvalidConfigRejectedBeforeGraph(t *testing.T) {
	cfg := baseConfig()
	cfg.AccountID = ""

	result, err := Resolve(cfg)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, stateboot.IsInvalidConfig(err))
}

func TestResolve_Idempotent(t *testing.T) {
	cfg := baseConfig()
	cfg.EnableDynamoDBLocking = true
	cfg.EnableDatadogPermissions = true
	cfg.DatadogAPIKeysSecretName = "datadog-api-keys"
	cfg.OpsgenieAPIKeySecretName = "opsgenie-api-key"

	first, err := Resolve(cfg)
	require.NoError(t, err)
	second, err := Resolve(cfg)
	require.NoError(t, err)

	firstGraph, err := json.Marshal(first.Graph)
	require.NoError(t, err)
	secondGraph, err := json.Marshal(second.Graph)
	require.NoError(t, err)
	assert.Equal(t, firstGraph, secondGraph)

	firstOutputs, err := json.Marshal(first.Outputs)
	require.NoError(t, err)
	secondOutputs, err := json.Marshal(second.Outputs)
	require.NoError(t, err)
	assert.Equal(t, firstOutputs, secondOutputs)
}
