package evolution

import (
	"context"
)

// GenerationSummary is the per-generation rollup in status reports.
type GenerationSummary struct {
	Solutions        int     `json:"solutions"`
	AverageComposite float64 `json:"average_composite"`
}

// StatusResult reports the session's progress. When no session exists it is
// a distinct not-started shape with a guidance message, not an error.
type StatusResult struct {
	Started bool   `json:"started"`
	Message string `json:"message,omitempty"`

	SessionID         string                    `json:"session_id,omitempty"`
	CurrentGeneration int                       `json:"current_generation"`
	MaxGenerations    int                       `json:"max_generations"`
	PopulationSize    int                       `json:"population_size"`
	TargetPopulation  int                       `json:"target_population"`
	FullyScored       int                       `json:"fully_scored"`
	BestSolution      *Solution                 `json:"best_solution,omitempty"`
	Complete          bool                      `json:"is_complete"`
	ElapsedSeconds    float64                   `json:"elapsed_seconds"`
	Generations       map[int]GenerationSummary `json:"generations,omitempty"`
}

// Status reports current progress. It never fails: before Start it returns
// the not-started shape.
func (c *Coordinator) Status(ctx context.Context) *StatusResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return &StatusResult{
			Started: false,
			Message: "No evolution session started. Call start with a problem statement and consistency checks.",
		}
	}
	s := c.session

	generations := make(map[int]GenerationSummary, len(s.GenerationHistory))
	for gen, ids := range s.GenerationHistory {
		var sum float64
		for _, id := range ids {
			sum += s.Solutions[id].CompositeScore
		}
		summary := GenerationSummary{Solutions: len(ids)}
		if len(ids) > 0 {
			summary.AverageComposite = sum / float64(len(ids))
		}
		generations[gen] = summary
	}

	return &StatusResult{
		Started:           true,
		SessionID:         s.ID,
		CurrentGeneration: s.CurrentGeneration,
		MaxGenerations:    s.Config.MaxGenerations,
		PopulationSize:    len(s.GenerationHistory[s.CurrentGeneration]),
		TargetPopulation:  s.Config.PopulationSize,
		FullyScored:       len(s.fullyScoredSolutions(s.CurrentGeneration)),
		BestSolution:      s.Best.snapshot(),
		Complete:          s.Complete,
		ElapsedSeconds:    s.elapsed().Seconds(),
		Generations:       generations,
	}
}
