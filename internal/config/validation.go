package config

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var aliasNameRegexp = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

var validate *validator.Validate

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("alias_name", validateAliasNameTag); err != nil {
		panic(err)
	}

	// Report field names as they appear in the TOML file
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateAliasNameTag(fl validator.FieldLevel) bool {
	return aliasNameRegexp.MatchString(fl.Field().String())
}

// getValidationMessage returns a human-readable message for a validation error
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "min":
		return fmt.Sprintf("must be >= %s", e.Param())
	case "ip4_addr":
		return "must be a valid IPv4 address"
	case "alias_name":
		return "must start with a lowercase letter and consist only of [a-z0-9_-]"
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}

// ValidateConfig validates the configuration. It must be called before
// any expansion takes place; a failure here is fatal to the run.
func (c *Config) ValidateConfig() error {
	if c.General == nil {
		return fmt.Errorf("configuration should contain \"general\" section, check your configuration")
	}

	if err := validate.Struct(c.General); err != nil {
		return describeValidatorError(err, "general")
	}

	names := make(map[string]bool)
	for i, alias := range c.Aliases {
		itemName := alias.Name
		if itemName == "" {
			itemName = fmt.Sprintf("alias[%d]", i)
		}

		if err := validate.Struct(alias); err != nil {
			return describeValidatorError(err, itemName)
		}

		if names[alias.Name] {
			return fmt.Errorf("duplicate alias name found: %s, check your configuration", alias.Name)
		}
		names[alias.Name] = true

		hasHosts := len(alias.Hosts) > 0
		hasFile := alias.File != ""
		if !hasHosts && !hasFile {
			return fmt.Errorf("alias %s should contain \"hosts\" or \"file\" field, check your configuration", itemName)
		}
		if hasHosts && hasFile {
			return fmt.Errorf("alias %s can contain only one of \"hosts\" or \"file\" field, but not both, check your configuration", itemName)
		}
	}

	return nil
}

func describeValidatorError(err error, itemName string) error {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		e := verrs[0]
		return fmt.Errorf("%s.%s: %s, check your configuration", itemName, e.Field(), getValidationMessage(e))
	}
	return fmt.Errorf("%s: %v", itemName, err)
}
