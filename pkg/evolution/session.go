package evolution

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/XiaoConstantine/evoloop-go/pkg/errors"
)

// Session holds all state for one evolutionary run. At most one Session is
// live per Coordinator; starting a new session replaces it wholesale.
type Session struct {
	ID               string
	ProblemStatement string
	Checks           []ConsistencyCheck
	Config           EvolutionConfig

	CurrentGeneration int
	Solutions         map[string]*Solution
	GenerationHistory map[int][]string
	Best              *Solution

	// Complete is set once a termination condition fires. The session still
	// accepts further AddSolution/ScoreSolution/EvolveGeneration calls so a
	// caller can continue or inspect a converged run; only status reporting
	// reflects completion.
	Complete  bool
	StartedAt time.Time
}

// StartRequest carries the Start operation's parameters. Nil config fields
// fall back to the session defaults.
type StartRequest struct {
	ProblemStatement     string      `json:"problem_statement"`
	Checks               []CheckSpec `json:"consistency_checks"`
	PopulationSize       *int        `json:"population_size,omitempty"`
	MaxGenerations       *int        `json:"max_generations,omitempty"`
	ConvergenceThreshold *float64    `json:"convergence_threshold,omitempty"`
}

// newSession validates the request and builds a fresh session. No partial
// session is ever produced: validation happens before any state exists.
func newSession(req StartRequest) (*Session, error) {
	if strings.TrimSpace(req.ProblemStatement) == "" {
		return nil, errors.New(errors.ValidationFailed,
			"problemStatement must be a non-empty string")
	}

	checks, err := resolveChecks(req.Checks)
	if err != nil {
		return nil, err
	}

	cfg := DefaultEvolutionConfig()
	if req.PopulationSize != nil {
		cfg.PopulationSize = *req.PopulationSize
	}
	if req.MaxGenerations != nil {
		cfg.MaxGenerations = *req.MaxGenerations
	}
	if req.ConvergenceThreshold != nil {
		cfg.ConvergenceThreshold = *req.ConvergenceThreshold
	}

	return &Session{
		ID:                uuid.New().String(),
		ProblemStatement:  req.ProblemStatement,
		Checks:            checks,
		Config:            cfg,
		CurrentGeneration: 0,
		Solutions:         make(map[string]*Solution),
		GenerationHistory: make(map[int][]string),
		StartedAt:         time.Now(),
	}, nil
}

// check looks up a consistency check by id.
func (s *Session) check(id string) (*ConsistencyCheck, bool) {
	for i := range s.Checks {
		if s.Checks[i].ID == id {
			return &s.Checks[i], true
		}
	}
	return nil, false
}

// addSolution registers a new candidate in the current generation.
// Parent ids are advisory lineage and are recorded verbatim.
func (s *Session) addSolution(content string, parents []string) *Solution {
	parentCopy := make([]string, len(parents))
	copy(parentCopy, parents)

	sol := &Solution{
		ID:              uuid.New().String(),
		Content:         content,
		Generation:      s.CurrentGeneration,
		Scores:          make(map[string]float64),
		CompositeScore:  0,
		ParentSolutions: parentCopy,
		CreatedAt:       time.Now(),
	}

	s.Solutions[sol.ID] = sol
	s.GenerationHistory[s.CurrentGeneration] = append(
		s.GenerationHistory[s.CurrentGeneration], sol.ID)

	return sol
}

// setScore records a per-check score, recomputes the composite and updates
// the session-wide best. Strict greater-than keeps the earlier best on ties.
func (s *Session) setScore(sol *Solution, checkID string, score float64) {
	sol.Scores[checkID] = score
	sol.recomputeComposite(s.Checks)

	if s.Best == nil || sol.CompositeScore > s.Best.CompositeScore {
		s.Best = sol
	}
}

// generationSolutions returns the solutions of a generation in insertion
// order.
func (s *Session) generationSolutions(generation int) []*Solution {
	ids := s.GenerationHistory[generation]
	sols := make([]*Solution, 0, len(ids))
	for _, id := range ids {
		sols = append(sols, s.Solutions[id])
	}
	return sols
}

// fullyScoredSolutions filters a generation down to solutions scored against
// every check, preserving insertion order.
func (s *Session) fullyScoredSolutions(generation int) []*Solution {
	var scored []*Solution
	for _, sol := range s.generationSolutions(generation) {
		if sol.fullyScored(len(s.Checks)) {
			scored = append(scored, sol)
		}
	}
	return scored
}

// elapsed reports the session's running time.
func (s *Session) elapsed() time.Duration {
	return time.Since(s.StartedAt)
}
