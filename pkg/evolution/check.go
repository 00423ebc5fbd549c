package evolution

import (
	"encoding/json"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/XiaoConstantine/evoloop-go/pkg/errors"
)

// ConsistencyCheck is an evaluation criterion solutions are scored against.
// Checks are immutable once the session starts; ids are assigned
// sequentially as check_1..check_n in the order supplied.
type ConsistencyCheck struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Weight      float64 `json:"weight"`
}

// CheckSpec is the loosely-shaped check accepted at session start: either a
// bare description string, or a record with a description and an optional
// non-negative weight. It is resolved into a fully-typed ConsistencyCheck
// exactly once, during Start.
type CheckSpec struct {
	Description string
	Weight      *float64
}

type checkSpecRecord struct {
	Description string   `json:"description" yaml:"description"`
	Weight      *float64 `json:"weight" yaml:"weight"`
}

// UnmarshalJSON accepts both the string and the record form.
func (c *CheckSpec) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Description = s
		c.Weight = nil
		return nil
	}

	var rec checkSpecRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("consistency check must be a string or an object: %w", err)
	}
	c.Description = rec.Description
	c.Weight = rec.Weight
	return nil
}

// UnmarshalYAML accepts both the string and the record form.
func (c *CheckSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		c.Description = node.Value
		c.Weight = nil
		return nil
	}

	var rec checkSpecRecord
	if err := node.Decode(&rec); err != nil {
		return fmt.Errorf("consistency check must be a string or a mapping: %w", err)
	}
	c.Description = rec.Description
	c.Weight = rec.Weight
	return nil
}

// CheckSpecFromValue converts a dynamically-typed value (as produced by
// decoding a JSON argument map) into a CheckSpec.
func CheckSpecFromValue(v interface{}) (CheckSpec, error) {
	switch val := v.(type) {
	case string:
		return CheckSpec{Description: val}, nil
	case map[string]interface{}:
		spec := CheckSpec{}
		if desc, ok := val["description"].(string); ok {
			spec.Description = desc
		}
		if w, ok := val["weight"]; ok {
			wf, ok := w.(float64)
			if !ok {
				return CheckSpec{}, errors.New(errors.ValidationFailed,
					"consistency check weight must be a number")
			}
			spec.Weight = &wf
		}
		return spec, nil
	default:
		return CheckSpec{}, errors.New(errors.ValidationFailed,
			"consistency check must be a string or an object with a description")
	}
}

// resolveChecks validates the supplied specs and assigns stable sequential
// ids, resolving unspecified weights to 1.0.
func resolveChecks(specs []CheckSpec) ([]ConsistencyCheck, error) {
	if len(specs) == 0 {
		return nil, errors.New(errors.ValidationFailed,
			"consistencyChecks must be a non-empty list")
	}

	checks := make([]ConsistencyCheck, 0, len(specs))
	for i, spec := range specs {
		if spec.Description == "" {
			return nil, errors.WithFields(
				errors.New(errors.ValidationFailed, "consistency check description must be a non-empty string"),
				errors.Fields{"index": i})
		}

		weight := 1.0
		if spec.Weight != nil {
			w := *spec.Weight
			if w < 0 || math.IsNaN(w) {
				return nil, errors.WithFields(
					errors.New(errors.ValidationFailed, "consistency check weight must be non-negative"),
					errors.Fields{"index": i, "weight": w})
			}
			weight = w
		}

		checks = append(checks, ConsistencyCheck{
			ID:          fmt.Sprintf("check_%d", i+1),
			Description: spec.Description,
			Weight:      weight,
		})
	}

	return checks, nil
}
