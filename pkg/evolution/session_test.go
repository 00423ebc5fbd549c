package evolution

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XiaoConstantine/evoloop-go/pkg/errors"
)

func specs(descriptions ...string) []CheckSpec {
	out := make([]CheckSpec, 0, len(descriptions))
	for _, d := range descriptions {
		out = append(out, CheckSpec{Description: d})
	}
	return out
}

func startedCoordinator(t *testing.T, checks ...string) *Coordinator {
	t.Helper()
	c := NewCoordinator()
	_, err := c.Start(context.Background(), StartRequest{
		ProblemStatement: "design a rate limiter",
		Checks:           specs(checks...),
	})
	require.NoError(t, err)
	return c
}

func TestStartAssignsSequentialCheckIDs(t *testing.T) {
	c := NewCoordinator()
	weight := 2.5
	result, err := c.Start(context.Background(), StartRequest{
		ProblemStatement: "design a rate limiter",
		Checks: []CheckSpec{
			{Description: "must be fast"},
			{Description: "must be correct", Weight: &weight},
			{Description: "must be simple"},
		},
	})
	require.NoError(t, err)

	require.Len(t, result.Checks, 3)
	assert.Equal(t, "check_1", result.Checks[0].ID)
	assert.Equal(t, "check_2", result.Checks[1].ID)
	assert.Equal(t, "check_3", result.Checks[2].ID)

	// Unspecified weights default to 1.0
	assert.Equal(t, 1.0, result.Checks[0].Weight)
	assert.Equal(t, 2.5, result.Checks[1].Weight)

	assert.Equal(t, DefaultEvolutionConfig(), result.Config)
	assert.NotEmpty(t, result.SessionID)
	assert.NotEmpty(t, result.Message)
}

func TestStartConfigOverrides(t *testing.T) {
	c := NewCoordinator()
	pop, gens, threshold := 7, 12, 0.8
	result, err := c.Start(context.Background(), StartRequest{
		ProblemStatement:     "p",
		Checks:               specs("fast"),
		PopulationSize:       &pop,
		MaxGenerations:       &gens,
		ConvergenceThreshold: &threshold,
	})
	require.NoError(t, err)
	assert.Equal(t, EvolutionConfig{PopulationSize: 7, MaxGenerations: 12, ConvergenceThreshold: 0.8}, result.Config)
}

func TestStartValidation(t *testing.T) {
	tests := []struct {
		name string
		req  StartRequest
	}{
		{"empty problem", StartRequest{ProblemStatement: "", Checks: specs("fast")}},
		{"whitespace problem", StartRequest{ProblemStatement: "   ", Checks: specs("fast")}},
		{"no checks", StartRequest{ProblemStatement: "p"}},
		{"empty check description", StartRequest{ProblemStatement: "p", Checks: specs("")}},
		{"negative weight", StartRequest{
			ProblemStatement: "p",
			Checks:           []CheckSpec{{Description: "fast", Weight: ptr(-0.5)}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCoordinator()
			_, err := c.Start(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, errors.ValidationFailed, errors.Code(err))
			// No partial session is created
			assert.False(t, c.Status(context.Background()).Started)
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestStartReplacesExistingSession(t *testing.T) {
	c := startedCoordinator(t, "fast")
	_, err := c.AddSolution(context.Background(), AddSolutionRequest{Content: "x"})
	require.NoError(t, err)

	_, err = c.Start(context.Background(), StartRequest{
		ProblemStatement: "a different problem",
		Checks:           specs("correct"),
	})
	require.NoError(t, err)

	status := c.Status(context.Background())
	assert.Equal(t, 0, status.PopulationSize)
	assert.Nil(t, status.BestSolution)
	assert.Equal(t, 0, status.CurrentGeneration)
}

func TestAddSolutionBeforeStart(t *testing.T) {
	c := NewCoordinator()
	_, err := c.AddSolution(context.Background(), AddSolutionRequest{Content: "x"})
	require.Error(t, err)
	assert.Equal(t, errors.SessionNotStarted, errors.Code(err))
}

func TestAddSolutionEmptyContent(t *testing.T) {
	c := startedCoordinator(t, "fast")
	// Whitespace-only content counts as empty, matching the problem
	// statement check in Start.
	for _, content := range []string{"", "   ", " \n\t "} {
		_, err := c.AddSolution(context.Background(), AddSolutionRequest{Content: content})
		require.Error(t, err)
		assert.Equal(t, errors.ValidationFailed, errors.Code(err))
	}
	assert.Equal(t, 0, c.Status(context.Background()).PopulationSize)
}

func TestAddSolutionLandsInCurrentGeneration(t *testing.T) {
	// Scenario A: two solutions both land in generation 0.
	c := startedCoordinator(t, "fast", "correct")
	ctx := context.Background()

	r1, err := c.AddSolution(ctx, AddSolutionRequest{Content: "x"})
	require.NoError(t, err)
	r2, err := c.AddSolution(ctx, AddSolutionRequest{Content: "y"})
	require.NoError(t, err)

	assert.Equal(t, 0, r1.Generation)
	assert.Equal(t, 0, r2.Generation)
	assert.Equal(t, 1, r1.PopulationSize)
	assert.Equal(t, 2, r2.PopulationSize)
	assert.Equal(t, 3, r2.TargetPopulation)
	assert.NotEqual(t, r1.SolutionID, r2.SolutionID)

	require.Len(t, c.session.GenerationHistory[0], 2)
	for _, id := range c.session.GenerationHistory[0] {
		assert.Equal(t, 0, c.session.Solutions[id].Generation)
	}
}

func TestAddSolutionParentLineageIsAdvisory(t *testing.T) {
	c := startedCoordinator(t, "fast")
	// Parent ids are recorded verbatim, with no existence check
	r, err := c.AddSolution(context.Background(), AddSolutionRequest{
		Content:         "child",
		ParentSolutions: []string{"no-such-id", "also-missing"},
	})
	require.NoError(t, err)

	sol := c.session.Solutions[r.SolutionID]
	assert.Equal(t, []string{"no-such-id", "also-missing"}, sol.ParentSolutions)
}

func TestScoreSolutionPreconditions(t *testing.T) {
	c := startedCoordinator(t, "fast")
	ctx := context.Background()
	added, err := c.AddSolution(ctx, AddSolutionRequest{Content: "x"})
	require.NoError(t, err)

	_, err = c.ScoreSolution(ctx, ScoreRequest{SolutionID: "missing", CheckID: "check_1", Score: 0.5})
	require.Error(t, err)
	assert.Equal(t, errors.ResourceNotFound, errors.Code(err))
	assert.Contains(t, err.Error(), "solution not found")

	_, err = c.ScoreSolution(ctx, ScoreRequest{SolutionID: added.SolutionID, CheckID: "check_9", Score: 0.5})
	require.Error(t, err)
	assert.Equal(t, errors.ResourceNotFound, errors.Code(err))
	assert.Contains(t, err.Error(), "check not found")

	c2 := NewCoordinator()
	_, err = c2.ScoreSolution(ctx, ScoreRequest{SolutionID: "x", CheckID: "check_1", Score: 0.5})
	require.Error(t, err)
	assert.Equal(t, errors.SessionNotStarted, errors.Code(err))
}

func TestScoreSolutionRangeValidation(t *testing.T) {
	// Scenario E: an out-of-range score leaves prior state untouched.
	c := startedCoordinator(t, "fast", "correct")
	ctx := context.Background()
	added, err := c.AddSolution(ctx, AddSolutionRequest{Content: "x"})
	require.NoError(t, err)

	_, err = c.ScoreSolution(ctx, ScoreRequest{SolutionID: added.SolutionID, CheckID: "check_1", Score: 0.6})
	require.NoError(t, err)

	for _, bad := range []float64{1.5, -0.1, math.NaN()} {
		_, err = c.ScoreSolution(ctx, ScoreRequest{SolutionID: added.SolutionID, CheckID: "check_2", Score: bad})
		require.Error(t, err)
		assert.Equal(t, errors.ValidationFailed, errors.Code(err))
	}

	sol := c.session.Solutions[added.SolutionID]
	assert.Equal(t, map[string]float64{"check_1": 0.6}, sol.Scores)
	assert.InDelta(t, 0.3, sol.CompositeScore, 1e-9)
	assert.False(t, math.IsNaN(sol.CompositeScore))
}

func TestCompositeScoreZeroFillsUnscoredChecks(t *testing.T) {
	c := startedCoordinator(t, "fast", "correct")
	ctx := context.Background()
	added, err := c.AddSolution(ctx, AddSolutionRequest{Content: "x"})
	require.NoError(t, err)

	r, err := c.ScoreSolution(ctx, ScoreRequest{SolutionID: added.SolutionID, CheckID: "check_1", Score: 1.0})
	require.NoError(t, err)

	// check_2 contributes 0 until scored
	assert.InDelta(t, 0.5, r.CompositeScore, 1e-9)
	assert.Equal(t, 1, r.ScoredChecks)
	assert.Equal(t, 2, r.TotalChecks)
	assert.False(t, r.FullyScored)
}

func TestCompositeScoreWeighted(t *testing.T) {
	c := NewCoordinator()
	ctx := context.Background()
	_, err := c.Start(ctx, StartRequest{
		ProblemStatement: "p",
		Checks: []CheckSpec{
			{Description: "fast", Weight: ptr(3.0)},
			{Description: "correct", Weight: ptr(1.0)},
		},
	})
	require.NoError(t, err)

	added, err := c.AddSolution(ctx, AddSolutionRequest{Content: "x"})
	require.NoError(t, err)

	_, err = c.ScoreSolution(ctx, ScoreRequest{SolutionID: added.SolutionID, CheckID: "check_1", Score: 0.8})
	require.NoError(t, err)
	r, err := c.ScoreSolution(ctx, ScoreRequest{SolutionID: added.SolutionID, CheckID: "check_2", Score: 0.4})
	require.NoError(t, err)

	// (0.8*3 + 0.4*1) / 4 = 0.7
	assert.InDelta(t, 0.7, r.CompositeScore, 1e-9)
	assert.True(t, r.FullyScored)
}

func TestFullScoresMakeBest(t *testing.T) {
	// Scenario B: perfect scores on both checks give composite 1.0 and the
	// session-wide best.
	c := startedCoordinator(t, "fast", "correct")
	ctx := context.Background()
	added, err := c.AddSolution(ctx, AddSolutionRequest{Content: "x"})
	require.NoError(t, err)

	_, err = c.ScoreSolution(ctx, ScoreRequest{SolutionID: added.SolutionID, CheckID: "check_1", Score: 1.0})
	require.NoError(t, err)
	r, err := c.ScoreSolution(ctx, ScoreRequest{SolutionID: added.SolutionID, CheckID: "check_2", Score: 1.0})
	require.NoError(t, err)

	assert.Equal(t, 1.0, r.CompositeScore)
	require.NotNil(t, c.session.Best)
	assert.Equal(t, added.SolutionID, c.session.Best.ID)
}

func TestScoreSolutionIdempotent(t *testing.T) {
	c := startedCoordinator(t, "fast", "correct")
	ctx := context.Background()
	added, err := c.AddSolution(ctx, AddSolutionRequest{Content: "x"})
	require.NoError(t, err)

	req := ScoreRequest{SolutionID: added.SolutionID, CheckID: "check_1", Score: 0.7}
	first, err := c.ScoreSolution(ctx, req)
	require.NoError(t, err)
	second, err := c.ScoreSolution(ctx, req)
	require.NoError(t, err)

	// Re-scoring overwrites rather than accumulates
	assert.Equal(t, first.CompositeScore, second.CompositeScore)
	assert.Equal(t, first.ScoredChecks, second.ScoredChecks)
}

func TestBestTrackingKeepsEarlierOnTies(t *testing.T) {
	c := startedCoordinator(t, "fast")
	ctx := context.Background()

	a, err := c.AddSolution(ctx, AddSolutionRequest{Content: "a"})
	require.NoError(t, err)
	b, err := c.AddSolution(ctx, AddSolutionRequest{Content: "b"})
	require.NoError(t, err)

	_, err = c.ScoreSolution(ctx, ScoreRequest{SolutionID: a.SolutionID, CheckID: "check_1", Score: 0.8})
	require.NoError(t, err)
	_, err = c.ScoreSolution(ctx, ScoreRequest{SolutionID: b.SolutionID, CheckID: "check_1", Score: 0.8})
	require.NoError(t, err)

	// Strict greater-than: the tie keeps the earlier best
	assert.Equal(t, a.SolutionID, c.session.Best.ID)

	_, err = c.ScoreSolution(ctx, ScoreRequest{SolutionID: b.SolutionID, CheckID: "check_1", Score: 0.81})
	require.NoError(t, err)
	assert.Equal(t, b.SolutionID, c.session.Best.ID)
}

func TestBestCompositeNonDecreasing(t *testing.T) {
	c := startedCoordinator(t, "fast", "correct")
	ctx := context.Background()

	scores := []float64{0.2, 0.9, 0.5, 0.7, 1.0, 0.1}
	var prevBest float64
	for _, score := range scores {
		added, err := c.AddSolution(ctx, AddSolutionRequest{Content: "candidate"})
		require.NoError(t, err)
		_, err = c.ScoreSolution(ctx, ScoreRequest{SolutionID: added.SolutionID, CheckID: "check_1", Score: score})
		require.NoError(t, err)

		require.NotNil(t, c.session.Best)
		assert.GreaterOrEqual(t, c.session.Best.CompositeScore, prevBest)
		prevBest = c.session.Best.CompositeScore
	}
}

func TestCompositeStaysInUnitInterval(t *testing.T) {
	c := NewCoordinator()
	ctx := context.Background()
	_, err := c.Start(ctx, StartRequest{
		ProblemStatement: "p",
		Checks: []CheckSpec{
			{Description: "alpha", Weight: ptr(0.25)},
			{Description: "beta", Weight: ptr(4.0)},
			{Description: "gamma"},
		},
	})
	require.NoError(t, err)

	added, err := c.AddSolution(ctx, AddSolutionRequest{Content: "x"})
	require.NoError(t, err)

	for i, score := range []float64{0.0, 1.0, 0.33, 0.99, 0.5, 1.0} {
		checkID := []string{"check_1", "check_2", "check_3"}[i%3]
		r, err := c.ScoreSolution(ctx, ScoreRequest{SolutionID: added.SolutionID, CheckID: checkID, Score: score})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, r.CompositeScore, 0.0)
		assert.LessOrEqual(t, r.CompositeScore, 1.0)
	}
}

func TestAllZeroWeightsYieldZeroComposite(t *testing.T) {
	c := NewCoordinator()
	ctx := context.Background()
	_, err := c.Start(ctx, StartRequest{
		ProblemStatement: "p",
		Checks: []CheckSpec{
			{Description: "alpha", Weight: ptr(0.0)},
			{Description: "beta", Weight: ptr(0.0)},
		},
	})
	require.NoError(t, err)

	added, err := c.AddSolution(ctx, AddSolutionRequest{Content: "x"})
	require.NoError(t, err)
	r, err := c.ScoreSolution(ctx, ScoreRequest{SolutionID: added.SolutionID, CheckID: "check_1", Score: 1.0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.CompositeScore)
}
