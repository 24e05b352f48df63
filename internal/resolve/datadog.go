package resolve

import (
	stateboot "github.com/stateboot/stateboot-aws-go"
	"github.com/stateboot/stateboot-aws-go/internal/naming"
	"github.com/stateboot/stateboot-aws-go/policy"
)

// addDatadogReadAccess merges the Datadog feature subgraph: four read-only
// lookups of pre-existing integration resources (never created, only
// referenced by name or ARN pattern) and a policy attachment granting the
// CI role read access to exactly those resources. Validation has already
// guaranteed the CI role exists, so the attachment always has a role to
// bind to.
func addDatadogReadAccess(g stateboot.Graph, cfg stateboot.Configuration, names naming.Names) {
	datadogRoleARN := naming.RoleARN(cfg.AccountID, names.DatadogRole)
	datadogPolicyARN := naming.PolicyARN(cfg.AccountID, names.DatadogPolicy)
	datadogSecretARN := naming.SecretARNPattern(cfg.Region, cfg.AccountID, names.DatadogAPIKeysSecret)
	opsgenieSecretARN := naming.SecretARNPattern(cfg.Region, cfg.AccountID, names.OpsgenieAPIKeySecret)

	g.Add(stateboot.ResourceSpec{
		Name: NameDatadogRoleLookup,
		Kind: stateboot.KindDataLookup,
		Attributes: map[string]any{
			"lookup": "iam-role",
			"name":   names.DatadogRole,
			"arn":    datadogRoleARN,
		},
	})
	g.Add(stateboot.ResourceSpec{
		Name: NameDatadogPolicyLookup,
		Kind: stateboot.KindDataLookup,
		Attributes: map[string]any{
			"lookup": "iam-policy",
			"name":   names.DatadogPolicy,
			"arn":    datadogPolicyARN,
		},
	})
	g.Add(stateboot.ResourceSpec{
		Name: NameDatadogSecretLookup,
		Kind: stateboot.KindDataLookup,
		Attributes: map[string]any{
			"lookup":      "secretsmanager-secret",
			"name":        names.DatadogAPIKeysSecret,
			"arn_pattern": datadogSecretARN,
		},
	})
	g.Add(stateboot.ResourceSpec{
		Name: NameOpsgenieSecretLookup,
		Kind: stateboot.KindDataLookup,
		Attributes: map[string]any{
			"lookup":      "secretsmanager-secret",
			"name":        names.OpsgenieAPIKeySecret,
			"arn_pattern": opsgenieSecretARN,
		},
	})

	g.Add(stateboot.ResourceSpec{
		Name: NameDatadogReadAttachment,
		Kind: stateboot.KindPolicyAttachment,
		DependsOn: []string{
			NameGitHubRole,
			NameDatadogRoleLookup,
			NameDatadogPolicyLookup,
			NameDatadogSecretLookup,
			NameOpsgenieSecretLookup,
		},
		Attributes: map[string]any{
			"role":        stateboot.AttrRef{Resource: NameGitHubRole, Attribute: "Name"},
			"policy_name": "datadog-read-access",
			"policy": datadogReadPolicy(
				[]string{datadogSecretARN, opsgenieSecretARN},
				datadogRoleARN,
				datadogPolicyARN,
			),
		},
	})
}

// datadogReadPolicy grants read-only access scoped to exactly the
// looked-up ARNs: secret values for the API key secrets, and metadata for
// the integration role and policy.
func datadogReadPolicy(secretARNs []string, roleARN, policyARN string) policy.Document {
	return policy.NewDocument(
		policy.Statement{
			Sid:      "ReadIntegrationSecrets",
			Effect:   policy.EffectAllow,
			Action:   "secretsmanager:GetSecretValue",
			Resource: secretARNs,
		},
		policy.Statement{
			Sid:      "ReadIntegrationRole",
			Effect:   policy.EffectAllow,
			Action:   "iam:GetRole",
			Resource: roleARN,
		},
		policy.Statement{
			Sid:      "ReadIntegrationPolicy",
			Effect:   policy.EffectAllow,
			Action:   "iam:GetPolicy",
			Resource: policyARN,
		},
	)
}
