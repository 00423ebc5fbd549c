package evolution

import (
	"context"
	"fmt"

	"github.com/XiaoConstantine/evoloop-go/pkg/errors"
	"github.com/XiaoConstantine/evoloop-go/pkg/logging"
)

// Completion reasons.
const (
	ReasonConvergence    = "convergence"
	ReasonMaxGenerations = "max_generations"
)

// Evolve statuses.
const (
	StatusEvolved  = "evolved"
	StatusComplete = "complete"
)

// CrossoverRecommendation identifies, for one consistency check, the
// fully-scored solution that scored highest on that check, along with an
// excerpt of its content relevant to the check's description.
type CrossoverRecommendation struct {
	CheckID        string  `json:"check_id"`
	BestSolutionID string  `json:"best_solution_id"`
	Score          float64 `json:"score"`
	Excerpt        string  `json:"relevant_excerpt"`
}

// GenerationStats summarizes the fully-scored subset of a finished
// generation.
type GenerationStats struct {
	AverageScore   float64 `json:"average_score"`
	BestScore      float64 `json:"best_score"`
	PopulationSize int     `json:"population_size"`
}

// EvolutionGuidance restates the population target and a one-line focus per
// check for authoring the next generation.
type EvolutionGuidance struct {
	PopulationTarget int      `json:"population_target"`
	Focus            []string `json:"focus"`
}

// CompletionReport describes why the session terminated.
type CompletionReport struct {
	Reason          string    `json:"reason"`
	BestSolution    *Solution `json:"best_solution"`
	TriggeringScore float64   `json:"triggering_score"`
	AverageScore    float64   `json:"average_score"`
	ElapsedSeconds  float64   `json:"elapsed_seconds"`
}

// EvolveResult is either an "evolved" report (generation advanced, with
// recommendations) or a "complete" report (a termination condition fired;
// the generation counter is left untouched).
type EvolveResult struct {
	Status          string                    `json:"status"`
	Generation      int                       `json:"generation,omitempty"`
	Previous        *GenerationStats          `json:"previous_generation,omitempty"`
	Recommendations []CrossoverRecommendation `json:"crossover_recommendations,omitempty"`
	Guidance        *EvolutionGuidance        `json:"guidance,omitempty"`
	Completion      *CompletionReport         `json:"completion,omitempty"`
}

// EvolveGeneration closes out the current generation: it computes per-check
// crossover recommendations over the fully-scored subset, checks the
// termination conditions (convergence first, then generation exhaustion) and
// either completes the session or advances the generation counter.
//
// Solutions that are not fully scored are excluded entirely; they are not
// zero-filled here.
func (c *Coordinator) EvolveGeneration(ctx context.Context) (*EvolveResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil, errors.New(errors.SessionNotStarted,
			"no evolution session started; call start first")
	}
	s := c.session
	generation := s.CurrentGeneration

	if len(s.GenerationHistory[generation]) == 0 {
		return nil, errors.Newf(errors.PreconditionFailed,
			"no solutions in current generation %d", generation)
	}

	scored := s.fullyScoredSolutions(generation)
	if len(scored) == 0 {
		return nil, errors.Newf(errors.PreconditionFailed,
			"no fully scored solutions in generation %d; score every check before evolving", generation)
	}

	recommendations := recommendCrossovers(s.Checks, scored)

	var sum float64
	maxScore := scored[0].CompositeScore
	for _, sol := range scored {
		sum += sol.CompositeScore
		if sol.CompositeScore > maxScore {
			maxScore = sol.CompositeScore
		}
	}
	avgScore := sum / float64(len(scored))

	ctx = logging.WithGeneration(logging.WithSessionID(ctx, s.ID), generation)
	logger := logging.GetLogger()

	// Convergence is checked before exhaustion; neither increments the
	// generation counter.
	var reason string
	switch {
	case maxScore >= s.Config.ConvergenceThreshold:
		reason = ReasonConvergence
	case generation >= s.Config.MaxGenerations-1:
		reason = ReasonMaxGenerations
	}

	if reason != "" {
		s.Complete = true
		logger.Info(ctx, "evolution complete (%s): best %.3f, average %.3f", reason, maxScore, avgScore)

		return &EvolveResult{
			Status: StatusComplete,
			Completion: &CompletionReport{
				Reason:          reason,
				BestSolution:    s.Best.snapshot(),
				TriggeringScore: maxScore,
				AverageScore:    avgScore,
				ElapsedSeconds:  s.elapsed().Seconds(),
			},
		}, nil
	}

	s.CurrentGeneration++
	logger.Info(ctx, "advanced to generation %d: previous average %.3f, best %.3f",
		s.CurrentGeneration, avgScore, maxScore)

	focus := make([]string, 0, len(recommendations))
	for _, rec := range recommendations {
		focus = append(focus, fmt.Sprintf("%s: use aspects from solution %s (score %.2f)",
			rec.CheckID, rec.BestSolutionID, rec.Score))
	}

	return &EvolveResult{
		Status:     StatusEvolved,
		Generation: s.CurrentGeneration,
		Previous: &GenerationStats{
			AverageScore:   avgScore,
			BestScore:      maxScore,
			PopulationSize: len(s.GenerationHistory[generation]),
		},
		Recommendations: recommendations,
		Guidance: &EvolutionGuidance{
			PopulationTarget: s.Config.PopulationSize,
			Focus:            focus,
		},
	}, nil
}

// recommendCrossovers emits one recommendation per check: the fully-scored
// solution with the highest score on that specific check. Ties keep the
// first solution encountered in insertion order.
func recommendCrossovers(checks []ConsistencyCheck, scored []*Solution) []CrossoverRecommendation {
	recs := make([]CrossoverRecommendation, 0, len(checks))
	for _, check := range checks {
		best := scored[0]
		for _, sol := range scored[1:] {
			if sol.Scores[check.ID] > best.Scores[check.ID] {
				best = sol
			}
		}

		recs = append(recs, CrossoverRecommendation{
			CheckID:        check.ID,
			BestSolutionID: best.ID,
			Score:          best.Scores[check.ID],
			Excerpt:        relevantExcerpt(best.Content, check.Description),
		})
	}
	return recs
}
