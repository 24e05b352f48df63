package plan

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	stateboot "github.com/stateboot/stateboot-aws-go"
	"github.com/stateboot/stateboot-aws-go/internal/resolve"
)

func resolved(t *testing.T, cfg stateboot.Configuration) *resolve.Result {
	t.Helper()
	result, err := resolve.Resolve(cfg)
	require.NoError(t, err)
	return result
}

func fullConfig() stateboot.Configuration {
	return stateboot.Configuration{
		AccountID:                "123456789012",
		Region:                   "eu-central-1",
		OIDCRepo:                 "myorg/myrepo:*",
		EnableGitHubOIDC:         true,
		EnableDynamoDBLocking:    true,
		EnableDatadogPermissions: true,
		DatadogAPIKeysSecretName: "datadog-api-keys",
		OpsgenieAPIKeySecretName: "opsgenie-api-key",
	}
}

func TestBuild_DependencyOrder(t *testing.T) {
	result := resolved(t, fullConfig())

	doc, err := Build(result.Graph, result.Outputs)
	require.NoError(t, err)
	require.Len(t, doc.Resources, 10)

	pos := make(map[string]int)
	for i, entry := range doc.Resources {
		pos[entry.Name] = i
	}

	assert.Less(t, pos[resolve.NameStateKey], pos[resolve.NameStateBucket])
	assert.Less(t, pos[resolve.NameOIDCProvider], pos[resolve.NameGitHubRole])
	assert.Less(t, pos[resolve.NameGitHubRole], pos[resolve.NameDatadogReadAttachment])
	assert.Less(t, pos[resolve.NameDatadogSecretLookup], pos[resolve.NameDatadogReadAttachment])
}

func TestBuild_FailsOnCycle(t *testing.T) {
	g := stateboot.NewGraph()
	g.Add(stateboot.ResourceSpec{Name: "A", Kind: stateboot.KindIamRole, DependsOn: []string{"B"}})
	g.Add(stateboot.ResourceSpec{Name: "B", Kind: stateboot.KindIamRole, DependsOn: []string{"A"}})

	_, err := Build(g, stateboot.OutputSet{})
	require.Error(t, err)
}

func TestToJSON_Deterministic(t *testing.T) {
	result := resolved(t, fullConfig())

	doc, err := Build(result.Graph, result.Outputs)
	require.NoError(t, err)
	first, err := ToJSON(doc)
	require.NoError(t, err)

	again := resolved(t, fullConfig())
	doc2, err := Build(again.Graph, again.Outputs)
	require.NoError(t, err)
	second, err := ToJSON(doc2)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestToJSON_OutputsAndRefs(t *testing.T) {
	result := resolved(t, stateboot.Configuration{
		AccountID:        "123456789012",
		Region:           "eu-central-1",
		OIDCRepo:         "myorg/myrepo:*",
		EnableGitHubOIDC: true,
	})

	doc, err := Build(result.Graph, result.Outputs)
	require.NoError(t, err)
	data, err := ToJSON(doc)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	outputs, ok := decoded["outputs"].(map[string]any)
	require.True(t, ok)

	assert.Equal(t, "terraform-state-123456789012", outputs["tf_state_bucket_name"])
	// Absent outputs serialize as explicit null.
	val, present := outputs["tf_dynamodb_table_name"]
	assert.True(t, present)
	assert.Nil(t, val)
	// The key ARN is engine-assigned and serializes as a reference.
	assert.Equal(t, map[string]any{"$ref": "StateKey.Arn"}, outputs["tf_kms_key_arn"])
}

func TestToYAML_RoundTripsStructure(t *testing.T) {
	result := resolved(t, fullConfig())

	doc, err := Build(result.Graph, result.Outputs)
	require.NoError(t, err)
	data, err := ToYAML(doc)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))

	assert.Equal(t, 1, decoded["version"])
	resources, ok := decoded["resources"].([]any)
	require.True(t, ok)
	assert.Len(t, resources, 10)
}
