package evolution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusNotStarted(t *testing.T) {
	c := NewCoordinator()
	status := c.Status(context.Background())

	assert.False(t, status.Started)
	assert.NotEmpty(t, status.Message)
	assert.Empty(t, status.SessionID)
	assert.Nil(t, status.BestSolution)
}

func TestStatusReportsProgress(t *testing.T) {
	c := startedCoordinator(t, "fast", "correct")
	ctx := context.Background()

	addScored(t, c, "full", map[string]float64{"check_1": 0.8, "check_2": 0.6})
	addScored(t, c, "partial", map[string]float64{"check_1": 0.9})

	status := c.Status(ctx)
	assert.True(t, status.Started)
	assert.Equal(t, 0, status.CurrentGeneration)
	assert.Equal(t, 5, status.MaxGenerations)
	assert.Equal(t, 2, status.PopulationSize)
	assert.Equal(t, 3, status.TargetPopulation)
	assert.Equal(t, 1, status.FullyScored)
	assert.False(t, status.Complete)
	assert.GreaterOrEqual(t, status.ElapsedSeconds, 0.0)

	require.NotNil(t, status.BestSolution)
	assert.InDelta(t, 0.7, status.BestSolution.CompositeScore, 1e-9)

	require.Contains(t, status.Generations, 0)
	assert.Equal(t, 2, status.Generations[0].Solutions)
	// (0.7 + 0.45) / 2
	assert.InDelta(t, 0.575, status.Generations[0].AverageComposite, 1e-9)
}

func TestStatusPerGenerationSummary(t *testing.T) {
	c := startedCoordinator(t, "fast")
	ctx := context.Background()

	addScored(t, c, "a", map[string]float64{"check_1": 0.5})
	addScored(t, c, "b", map[string]float64{"check_1": 0.4})
	result, err := c.EvolveGeneration(ctx)
	require.NoError(t, err)
	require.Equal(t, StatusEvolved, result.Status)

	addScored(t, c, "c", map[string]float64{"check_1": 0.6})

	status := c.Status(ctx)
	assert.Equal(t, 1, status.CurrentGeneration)
	assert.Equal(t, 1, status.PopulationSize)
	require.Len(t, status.Generations, 2)
	assert.Equal(t, 2, status.Generations[0].Solutions)
	assert.Equal(t, 1, status.Generations[1].Solutions)
}

func TestStatusSnapshotIsDetached(t *testing.T) {
	c := startedCoordinator(t, "fast")
	ctx := context.Background()
	addScored(t, c, "a", map[string]float64{"check_1": 0.5})

	status := c.Status(ctx)
	require.NotNil(t, status.BestSolution)

	// Mutating the returned snapshot must not touch session state
	status.BestSolution.Scores["check_1"] = 0.0
	status.BestSolution.CompositeScore = 0.0

	assert.Equal(t, 0.5, c.session.Best.Scores["check_1"])
	assert.Equal(t, 0.5, c.session.Best.CompositeScore)
}
