package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/agentstation/rostersync/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateSync checks the settings the sync and prune commands need.
func (c *Config) ValidateSync() error {
	return check(c.Veracross, c.Lightspeed, c.ImportOptions, c.Sync)
}

// ValidateExport checks the settings the export command needs.
func (c *Config) ValidateExport() error {
	return check(c.Lightspeed, c.ImportOptions, c.Export)
}

func check(sections ...any) error {
	var problems []string
	var first error
	for _, section := range sections {
		err := validate.Struct(section)
		if err == nil {
			continue
		}
		if first == nil {
			first = err
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			problems = append(problems, err.Error())
			continue
		}
		for _, fe := range verrs {
			problems = append(problems, describe(fe))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.NewConfigError("config", strings.Join(problems, "; "), first)
}

func describe(fe validator.FieldError) string {
	field := keyFor(fe.Namespace())
	switch fe.Tag() {
	case "required", "required_if":
		return field + " is required"
	case "url":
		return field + " must be a URL"
	case "datetime":
		return field + " must be YYYY-MM-DD"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "numeric":
		return field + " must be a number"
	}
	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}

// keyFor converts "Veracross.BaseURL" into "veracross.base_url".
func keyFor(namespace string) string {
	parts := strings.Split(namespace, ".")
	for i, p := range parts {
		parts[i] = snake(p)
	}
	return strings.Join(parts, ".")
}

var keyOverrides = map[string]string{
	"BaseURL":         "base_url",
	"AccountID":       "account_id",
	"ExternalIDField": "external_id_field",
	"CatalogItemFK":   "catalog_item_fk",
	"ImportOptions":   "import_options",
	"TTL":             "ttl",
}

func snake(s string) string {
	if k, ok := keyOverrides[s]; ok {
		return k
	}
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
