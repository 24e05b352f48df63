// Package validate checks raw configurations before any graph is built.
// Every failure is reported as a stateboot.InvalidConfigError naming the
// offending field and the violated constraint; a configuration that passes
// here is safe to hand to the resolver.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	stateboot "github.com/stateboot/stateboot-aws-go"
)

var v = newValidator()

func newValidator() *validator.Validate {
	vd := validator.New(validator.WithRequiredStructEnabled())

	// Report errors under the file-syntax key, not the Go field name.
	vd.RegisterTagNameFunc(func(field reflect.StructField) string {
		tag := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return field.Name
		}
		return tag
	})

	return vd
}

// Config validates a configuration. It returns nil when the configuration
// is consistent, or an InvalidConfigError describing the first violation.
func Config(cfg stateboot.Configuration) error {
	if err := v.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return stateboot.NewInvalidConfig(fe.Field(), constraintMessage(fe))
		}
		return err
	}

	// Flag consistency cannot be expressed as per-field tags: the Datadog
	// read policy attaches to the CI role, so there is nothing to grant
	// when OIDC is disabled. Fail hard instead of silently skipping.
	if cfg.EnableDatadogPermissions && !cfg.EnableGitHubOIDC {
		return stateboot.NewInvalidConfig("enable_datadog_permissions",
			"requires enable_github_oidc: the read policy attaches to the GitHub Actions role")
	}

	return nil
}

// constraintMessage renders a validator tag as a human-readable constraint.
func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "numeric":
		return "must contain only digits"
	case "required_if":
		return fmt.Sprintf("is required when %s is enabled", flagKey(fe.Param()))
	default:
		return fmt.Sprintf("violates constraint %q", fe.Tag())
	}
}

// flagKey maps a required_if parameter ("EnableGitHubOIDC true") back to
// the file-syntax key of the gating flag.
func flagKey(param string) string {
	field := strings.Fields(param)[0]
	t := reflect.TypeOf(stateboot.Configuration{})
	if sf, ok := t.FieldByName(field); ok {
		if tag := strings.SplitN(sf.Tag.Get("yaml"), ",", 2)[0]; tag != "" {
			return tag
		}
	}
	return field
}
