// Package questionnaire holds the audit question catalogue and the step
// navigator that walks it.
package questionnaire

import (
	_ "embed"
	"errors"
	"fmt"

	calculatescores "promptprofit-audit/internal/audit/calculate-scores"

	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var questionsYAML []byte

// Field types understood by the wizard and the CLI.
const (
	FieldText     = "text"
	FieldSelect   = "select"
	FieldTextarea = "textarea"
)

type Catalogue struct {
	Steps []Step `yaml:"steps" json:"steps"`
}

type Step struct {
	ID     string  `yaml:"id" json:"id"`
	Title  string  `yaml:"title" json:"title"`
	Fields []Field `yaml:"fields" json:"fields"`
}

type Field struct {
	Key         string   `yaml:"key" json:"key"`
	Label       string   `yaml:"label" json:"label"`
	Type        string   `yaml:"type" json:"type"`
	Options     []string `yaml:"options,omitempty" json:"options,omitempty"`
	Placeholder string   `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
}

// Load parses and validates the embedded catalogue.
func Load() (*Catalogue, error) {
	return Parse(questionsYAML)
}

// Parse decodes a catalogue document and validates it.
func Parse(data []byte) (*Catalogue, error) {
	var cat Catalogue
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse questionnaire: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// MustLoad is Load for package initialization in commands and tests.
func MustLoad() *Catalogue {
	cat, err := Load()
	if err != nil {
		panic(err)
	}
	return cat
}

// Validate checks that keys are unique, types are known and every select
// option has a point value.
func (c *Catalogue) Validate() error {
	if len(c.Steps) == 0 {
		return errors.New("questionnaire has no steps")
	}

	var errs []error
	seen := make(map[string]bool)
	for i, step := range c.Steps {
		if len(step.Fields) == 0 {
			errs = append(errs, fmt.Errorf("step %d (%s) has no fields", i, step.ID))
		}
		for _, f := range step.Fields {
			if f.Key == "" {
				errs = append(errs, fmt.Errorf("step %s has a field without a key", step.ID))
				continue
			}
			if seen[f.Key] {
				errs = append(errs, fmt.Errorf("duplicate field key %q", f.Key))
			}
			seen[f.Key] = true

			switch f.Type {
			case FieldText, FieldTextarea:
			case FieldSelect:
				if len(f.Options) == 0 {
					errs = append(errs, fmt.Errorf("select %q has no options", f.Key))
				}
				for _, opt := range f.Options {
					if !calculatescores.IsKnownToken(opt) {
						errs = append(errs, fmt.Errorf("select %q option %q has no point value", f.Key, opt))
					}
				}
			default:
				errs = append(errs, fmt.Errorf("field %q has unknown type %q", f.Key, f.Type))
			}
		}
	}
	return errors.Join(errs...)
}

// Keys returns every field key in step order.
func (c *Catalogue) Keys() []string {
	var keys []string
	for _, step := range c.Steps {
		for _, f := range step.Fields {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

// Field looks up a field by key.
func (c *Catalogue) Field(key string) (Field, bool) {
	for _, step := range c.Steps {
		for _, f := range step.Fields {
			if f.Key == key {
				return f, true
			}
		}
	}
	return Field{}, false
}

// YAML re-encodes the catalogue.
func (c *Catalogue) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
