package resolve

import (
	stateboot "github.com/stateboot/stateboot-aws-go"
)

// Published output names.
const (
	OutputStateBucketName = "tf_state_bucket_name"
	OutputStateBucketARN  = "tf_state_bucket_arn"
	OutputKMSKeyARN       = "tf_kms_key_arn"
	OutputLockTableName   = "tf_dynamodb_table_name"
	OutputGitHubRoleARN   = "github_actions_role_arn"
	OutputOIDCProviderARN = "github_oidc_provider_arn"
)

// projectOutputs maps the finalized graph to the published outputs. It
// only reads node presence and attributes: an output is the absence
// marker exactly when its node was not declared. The KMS key ARN is
// engine-assigned, so it projects as an attribute reference rather than
// a literal.
func projectOutputs(g stateboot.Graph) stateboot.OutputSet {
	outputs := stateboot.OutputSet{
		OutputStateBucketName: stringAttrOutput(g, NameStateBucket, "bucket_name"),
		OutputStateBucketARN:  stringAttrOutput(g, NameStateBucket, "arn"),
		OutputKMSKeyARN:       stateboot.RefOutput(NameStateKey, "Arn"),
		OutputLockTableName:   stringAttrOutput(g, NameLockTable, "table_name"),
		OutputGitHubRoleARN:   stringAttrOutput(g, NameGitHubRole, "arn"),
		OutputOIDCProviderARN: stringAttrOutput(g, NameOIDCProvider, "arn"),
	}
	return outputs
}

// stringAttrOutput projects a node's string attribute, or the absence
// marker when the node was not declared.
func stringAttrOutput(g stateboot.Graph, node, attr string) stateboot.OutputValue {
	spec, ok := g.Node(node)
	if !ok {
		return stateboot.AbsentOutput()
	}
	value, _ := spec.Attributes[attr].(string)
	return stateboot.StringOutput(value)
}
