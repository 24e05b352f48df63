// Package resolve turns a validated configuration into the resource graph
// and output set for the state bootstrap. Resolution is a single pure
// pass: validate, derive names, build the always-present subgraph, merge
// the optional feature subgraphs, check graph invariants, project outputs.
// Identical configurations always produce identical results.
package resolve

import (
	stateboot "github.com/stateboot/stateboot-aws-go"
	"github.com/stateboot/stateboot-aws-go/internal/graph"
	"github.com/stateboot/stateboot-aws-go/internal/naming"
	"github.com/stateboot/stateboot-aws-go/internal/validate"
)

// Logical names of the resources the resolver may declare.
const (
	NameStateKey     = "StateKey"
	NameStateBucket  = "StateBucket"
	NameLockTable    = "StateLockTable"
	NameOIDCProvider = "GitHubOIDCProvider"
	NameGitHubRole   = "GitHubActionsRole"

	NameDatadogRoleLookup     = "DatadogIntegrationRole"
	NameDatadogPolicyLookup   = "DatadogIntegrationPolicy"
	NameDatadogSecretLookup   = "DatadogAPIKeysSecret"
	NameOpsgenieSecretLookup  = "OpsgenieAPIKeySecret"
	NameDatadogReadAttachment = "GitHubActionsDatadogReadAccess"
)

// Result is the outcome of a successful resolution.
type Result struct {
	// Graph is the finalized resource graph, validated acyclic with all
	// dependency edges resolved.
	Graph stateboot.Graph
	// Outputs are the published output values projected from the graph.
	Outputs stateboot.OutputSet
}

// Resolve validates the configuration and builds the resource graph and
// output set. On any validation failure it returns the error and no
// result; a partial graph is never returned.
func Resolve(cfg stateboot.Configuration) (*Result, error) {
	if err := validate.Config(cfg); err != nil {
		return nil, err
	}

	names := naming.Resolve(cfg)

	g := stateboot.NewGraph()
	addEncryptionKey(g, names)
	addStateBucket(g, names)

	if cfg.LockingMode() == stateboot.LockingDynamoDB {
		addLockTable(g, names)
	}

	if cfg.EnableGitHubOIDC {
		if err := addGitHubOIDC(g, cfg, names); err != nil {
			return nil, err
		}
	}

	if cfg.EnableDatadogPermissions {
		addDatadogReadAccess(g, cfg, names)
	}

	if err := graph.Validate(g); err != nil {
		return nil, err
	}

	return &Result{Graph: g, Outputs: projectOutputs(g)}, nil
}
