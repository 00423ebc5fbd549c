package evolution

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/XiaoConstantine/evoloop-go/pkg/errors"
)

func TestCheckSpecUnmarshalJSON(t *testing.T) {
	var specs []CheckSpec
	data := `["fast", {"description": "correct", "weight": 2.0}, {"description": "simple"}]`
	require.NoError(t, json.Unmarshal([]byte(data), &specs))

	require.Len(t, specs, 3)
	assert.Equal(t, "fast", specs[0].Description)
	assert.Nil(t, specs[0].Weight)
	assert.Equal(t, "correct", specs[1].Description)
	require.NotNil(t, specs[1].Weight)
	assert.Equal(t, 2.0, *specs[1].Weight)
	assert.Nil(t, specs[2].Weight)
}

func TestCheckSpecUnmarshalJSONRejectsOtherShapes(t *testing.T) {
	var spec CheckSpec
	assert.Error(t, json.Unmarshal([]byte(`42`), &spec))
	assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), &spec))
}

func TestCheckSpecUnmarshalYAML(t *testing.T) {
	var specs []CheckSpec
	data := `
- fast
- description: correct
  weight: 0.5
`
	require.NoError(t, yaml.Unmarshal([]byte(data), &specs))

	require.Len(t, specs, 2)
	assert.Equal(t, "fast", specs[0].Description)
	assert.Nil(t, specs[0].Weight)
	assert.Equal(t, "correct", specs[1].Description)
	require.NotNil(t, specs[1].Weight)
	assert.Equal(t, 0.5, *specs[1].Weight)
}

func TestCheckSpecFromValue(t *testing.T) {
	spec, err := CheckSpecFromValue("fast")
	require.NoError(t, err)
	assert.Equal(t, "fast", spec.Description)

	spec, err = CheckSpecFromValue(map[string]interface{}{
		"description": "correct",
		"weight":      3.0,
	})
	require.NoError(t, err)
	assert.Equal(t, "correct", spec.Description)
	require.NotNil(t, spec.Weight)
	assert.Equal(t, 3.0, *spec.Weight)

	_, err = CheckSpecFromValue(42)
	require.Error(t, err)
	assert.Equal(t, errors.ValidationFailed, errors.Code(err))

	_, err = CheckSpecFromValue(map[string]interface{}{
		"description": "correct",
		"weight":      "heavy",
	})
	require.Error(t, err)
	assert.Equal(t, errors.ValidationFailed, errors.Code(err))
}

func TestResolveChecks(t *testing.T) {
	checks, err := resolveChecks([]CheckSpec{
		{Description: "fast"},
		{Description: "correct", Weight: ptr(2.0)},
	})
	require.NoError(t, err)
	assert.Equal(t, "check_1", checks[0].ID)
	assert.Equal(t, 1.0, checks[0].Weight)
	assert.Equal(t, "check_2", checks[1].ID)
	assert.Equal(t, 2.0, checks[1].Weight)

	_, err = resolveChecks(nil)
	require.Error(t, err)
	assert.Equal(t, errors.ValidationFailed, errors.Code(err))
}
