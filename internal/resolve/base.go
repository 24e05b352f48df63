package resolve

import (
	stateboot "github.com/stateboot/stateboot-aws-go"
	"github.com/stateboot/stateboot-aws-go/internal/naming"
	"github.com/stateboot/stateboot-aws-go/policy"
)

// addEncryptionKey declares the KMS key encrypting state at rest. It has
// no dependencies and its ARN is assigned by the reconciliation engine.
func addEncryptionKey(g stateboot.Graph, names naming.Names) {
	g.Add(stateboot.ResourceSpec{
		Name: NameStateKey,
		Kind: stateboot.KindEncryptionKey,
		Attributes: map[string]any{
			"alias":                names.KeyAlias,
			"description":          "Terraform state encryption key",
			"enable_key_rotation":  true,
			"deletion_window_days": 30,
		},
	})
}

// addStateBucket declares the versioned state bucket. The encryption
// configuration references the key by attribute, and the node carries a
// hard dependency edge on it: the engine must never create the bucket
// before the key ARN resolves.
func addStateBucket(g stateboot.Graph, names naming.Names) {
	bucketARN := naming.BucketARN(names.StateBucket)

	g.Add(stateboot.ResourceSpec{
		Name:      NameStateBucket,
		Kind:      stateboot.KindBucket,
		DependsOn: []string{NameStateKey},
		Attributes: map[string]any{
			"bucket_name": names.StateBucket,
			"arn":         bucketARN,
			"versioning":  "Enabled",
			"public_access_block": map[string]any{
				"block_public_acls":       true,
				"block_public_policy":     true,
				"ignore_public_acls":      true,
				"restrict_public_buckets": true,
			},
			"encryption": map[string]any{
				"algorithm":   "aws:kms",
				"kms_key_arn": stateboot.AttrRef{Resource: NameStateKey, Attribute: "Arn"},
			},
			"bucket_policy": tlsOnlyPolicy(names.StateBucket),
		},
	})
}

// tlsOnlyPolicy denies every request that does not arrive over TLS.
func tlsOnlyPolicy(bucket string) policy.Document {
	return policy.NewDocument(policy.Statement{
		Sid:       "DenyInsecureTransport",
		Effect:    policy.EffectDeny,
		Principal: policy.AllPrincipal,
		Action:    "s3:*",
		Resource: []string{
			naming.BucketARN(bucket),
			naming.BucketObjectsARN(bucket),
		},
		Condition: policy.Json{
			policy.Bool: policy.Json{"aws:SecureTransport": "false"},
		},
	})
}

// addLockTable declares the DynamoDB lock table. It is independent of the
// key and bucket, so the engine may create it in parallel with them.
func addLockTable(g stateboot.Graph, names naming.Names) {
	g.Add(stateboot.ResourceSpec{
		Name: NameLockTable,
		Kind: stateboot.KindLockTable,
		Attributes: map[string]any{
			"table_name":    names.LockTable,
			"billing_mode":  "PAY_PER_REQUEST",
			"hash_key":      "LockID",
			"hash_key_type": "S",
		},
	})
}
