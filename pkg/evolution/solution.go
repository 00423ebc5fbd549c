package evolution

import (
	"time"
)

// Solution is one candidate artifact. Solutions are created by AddSolution,
// never deleted, and mutated only by ScoreSolution.
type Solution struct {
	ID              string             `json:"id"`
	Content         string             `json:"content"`
	Generation      int                `json:"generation"`
	Scores          map[string]float64 `json:"scores"`
	CompositeScore  float64            `json:"composite_score"`
	ParentSolutions []string           `json:"parent_solutions"`
	CreatedAt       time.Time          `json:"created_at"`
}

// fullyScored reports whether the solution has a score for every check.
func (s *Solution) fullyScored(totalChecks int) bool {
	return len(s.Scores) == totalChecks
}

// recomputeComposite recalculates the weight-normalized mean over all
// session checks, treating any check not yet scored as contributing 0.
func (s *Solution) recomputeComposite(checks []ConsistencyCheck) {
	var weightedSum, totalWeight float64
	for _, check := range checks {
		weightedSum += s.Scores[check.ID] * check.Weight
		totalWeight += check.Weight
	}

	if totalWeight == 0 {
		s.CompositeScore = 0
		return
	}
	s.CompositeScore = weightedSum / totalWeight
}

// snapshot returns a deep copy safe to hand out in result payloads.
func (s *Solution) snapshot() *Solution {
	if s == nil {
		return nil
	}

	scores := make(map[string]float64, len(s.Scores))
	for k, v := range s.Scores {
		scores[k] = v
	}

	parents := make([]string, len(s.ParentSolutions))
	copy(parents, s.ParentSolutions)

	return &Solution{
		ID:              s.ID,
		Content:         s.Content,
		Generation:      s.Generation,
		Scores:          scores,
		CompositeScore:  s.CompositeScore,
		ParentSolutions: parents,
		CreatedAt:       s.CreatedAt,
	}
}
