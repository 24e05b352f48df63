package resolve

import (
	"strings"

	stateboot "github.com/stateboot/stateboot-aws-go"
	"github.com/stateboot/stateboot-aws-go/internal/naming"
	"github.com/stateboot/stateboot-aws-go/policy"
)

// addGitHubOIDC declares the GitHub OIDC identity provider and the
// federated CI role trusting it. The role carries a hard dependency edge
// on the provider. A malformed repository filter fails here with
// InvalidConfig before any graph is returned.
func addGitHubOIDC(g stateboot.Graph, cfg stateboot.Configuration, names naming.Names) error {
	subject, err := repoSubject(cfg.OIDCRepo)
	if err != nil {
		return err
	}

	providerARN := naming.OIDCProviderARN(cfg.AccountID)

	g.Add(stateboot.ResourceSpec{
		Name: NameOIDCProvider,
		Kind: stateboot.KindOidcProvider,
		Attributes: map[string]any{
			"url":            naming.OIDCIssuerURL,
			"client_id_list": []string{naming.OIDCAudience},
			"arn":            providerARN,
		},
	})

	g.Add(stateboot.ResourceSpec{
		Name:      NameGitHubRole,
		Kind:      stateboot.KindIamRole,
		DependsOn: []string{NameOIDCProvider},
		Attributes: map[string]any{
			"role_name":          names.GitHubActionsRole,
			"arn":                naming.RoleARN(cfg.AccountID, names.GitHubActionsRole),
			"description":        "Terraform state access for GitHub Actions via OIDC",
			"assume_role_policy": trustPolicy(providerARN, subject),
		},
	})

	return nil
}

// repoSubject validates the "owner/repo:filter" repository filter and
// returns the OIDC token subject it must match.
func repoSubject(filter string) (string, error) {
	repo, pattern, ok := strings.Cut(filter, ":")
	if !ok || pattern == "" {
		return "", stateboot.NewInvalidConfig("oidc_repo",
			`must match "owner/repo:filter" (e.g. "myorg/myrepo:*")`)
	}

	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return "", stateboot.NewInvalidConfig("oidc_repo",
			`repository part must be "owner/repo"`)
	}

	return "repo:" + filter, nil
}

// trustPolicy builds the role trust policy: only tokens issued by the
// GitHub provider, with the STS audience and a subject matching the
// configured repository filter, may assume the role. A wildcard in the
// filter switches the subject condition from StringEquals to StringLike.
func trustPolicy(providerARN, subject string) policy.Document {
	audKey := naming.OIDCIssuerHost + ":aud"
	subKey := naming.OIDCIssuerHost + ":sub"

	condition := policy.Json{
		policy.StringEquals: policy.Json{audKey: naming.OIDCAudience},
	}
	if strings.ContainsAny(subject, "*?") {
		condition[policy.StringLike] = policy.Json{subKey: subject}
	} else {
		condition[policy.StringEquals].(policy.Json)[subKey] = subject
	}

	return policy.NewDocument(policy.Statement{
		Effect:    policy.EffectAllow,
		Principal: policy.FederatedPrincipal{providerARN},
		Action:    "sts:AssumeRoleWithWebIdentity",
		Condition: condition,
	})
}
