package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stateboot "github.com/stateboot/stateboot-aws-go"
)

// validConfig returns a configuration that passes all checks.
func validConfig() stateboot.Configuration {
	return stateboot.Configuration{
		AccountID:        "123456789012",
		Region:           "eu-central-1",
		OIDCRepo:         "myorg/myrepo:*",
		EnableGitHubOIDC: true,
	}
}

func TestConfig_Valid(t *testing.T) {
	assert.NoError(t, Config(validConfig()))
}

func TestConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*stateboot.Configuration)
		field  string
	}{
		{
			name:   "missing account id",
			mutate: func(c *stateboot.Configuration) { c.AccountID = "" },
			field:  "aws_account_id",
		},
		{
			name:   "short account id",
			mutate: func(c *stateboot.Configuration) { c.AccountID = "12345" },
			field:  "aws_account_id",
		},
		{
			name:   "non-numeric account id",
			mutate: func(c *stateboot.Configuration) { c.AccountID = "12345678901x" },
			field:  "aws_account_id",
		},
		{
			name:   "missing region",
			mutate: func(c *stateboot.Configuration) { c.Region = "" },
			field:  "region",
		},
		{
			name:   "oidc enabled without repo filter",
			mutate: func(c *stateboot.Configuration) { c.OIDCRepo = "" },
			field:  "oidc_repo",
		},
		{
			name: "datadog enabled without secret names",
			mutate: func(c *stateboot.Configuration) {
				c.EnableDatadogPermissions = true
			},
			field: "datadog_api_keys_secret_name",
		},
		{
			name: "datadog enabled without opsgenie secret",
			mutate: func(c *stateboot.Configuration) {
				c.EnableDatadogPermissions = true
				c.DatadogAPIKeysSecretName = "datadog-api-keys"
			},
			field: "opsgenie_api_key_secret_name",
		},
		{
			name: "datadog without oidc",
			mutate: func(c *stateboot.Configuration) {
				c.EnableGitHubOIDC = false
				c.OIDCRepo = ""
				c.EnableDatadogPermissions = true
				c.DatadogAPIKeysSecretName = "datadog-api-keys"
				c.OpsgenieAPIKeySecretName = "opsgenie-api-key"
			},
			field: "enable_datadog_permissions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := Config(cfg)
			require.Error(t, err)
			require.True(t, stateboot.IsInvalidConfig(err))

			var ice *stateboot.InvalidConfigError
			require.ErrorAs(t, err, &ice)
			assert.Equal(t, tt.field, ice.Field)
			assert.NotEmpty(t, ice.Constraint)
		})
	}
}

func TestConfig_OIDCDisabledNeedsNoRepo(t *testing.T) {
	cfg := validConfig()
	cfg.EnableGitHubOIDC = false
	cfg.OIDCRepo = ""

	assert.NoError(t, Config(cfg))
}

func TestConfig_ErrorMessageNamesFieldAndConstraint(t *testing.T) {
	cfg := validConfig()
	cfg.Region = ""

	err := Config(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"region"`)
	assert.Contains(t, err.Error(), "required")
}
