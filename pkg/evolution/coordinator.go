package evolution

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/XiaoConstantine/evoloop-go/pkg/errors"
	"github.com/XiaoConstantine/evoloop-go/pkg/logging"
)

// Coordinator owns at most one Session and exposes the five operations of
// the evolutionary state machine. A mutex makes each operation atomic with
// respect to the others; semantics remain single-session request/response.
//
// Construct Coordinators explicitly and pass them where needed; there is no
// package-level instance.
type Coordinator struct {
	mu      sync.Mutex
	session *Session
}

// NewCoordinator returns a Coordinator with no active session.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// StartResult echoes the normalized session parameters.
type StartResult struct {
	SessionID        string             `json:"session_id"`
	ProblemStatement string             `json:"problem_statement"`
	Checks           []ConsistencyCheck `json:"consistency_checks"`
	Config           EvolutionConfig    `json:"config"`
	Message          string             `json:"message"`
}

// Start creates a fresh session, replacing any existing one outright. No
// state from a previous session carries over; this is destructive and has
// no undo.
func (c *Coordinator) Start(ctx context.Context, req StartRequest) (*StartResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := newSession(req)
	if err != nil {
		return nil, err
	}

	logger := logging.GetLogger()
	if c.session != nil {
		logger.Warn(ctx, "discarding previous evolution session %s", c.session.ID)
	}
	c.session = session

	ctx = logging.WithSessionID(ctx, session.ID)
	logger.Info(ctx, "evolution session started: %d checks, population target %d, max generations %d",
		len(session.Checks), session.Config.PopulationSize, session.Config.MaxGenerations)

	return &StartResult{
		SessionID:        session.ID,
		ProblemStatement: session.ProblemStatement,
		Checks:           append([]ConsistencyCheck(nil), session.Checks...),
		Config:           session.Config,
		Message: fmt.Sprintf(
			"Evolution session started with %d consistency checks. Add generation 0 candidates with addSolution.",
			len(session.Checks)),
	}, nil
}

// AddSolutionRequest carries the AddSolution operation's parameters.
type AddSolutionRequest struct {
	Content         string   `json:"content"`
	ParentSolutions []string `json:"parent_solutions,omitempty"`
}

// AddSolutionResult reports the new candidate and the current vs. target
// population for its generation. The target is informational only.
type AddSolutionResult struct {
	SolutionID       string `json:"solution_id"`
	Generation       int    `json:"generation"`
	PopulationSize   int    `json:"population_size"`
	TargetPopulation int    `json:"target_population"`
}

// AddSolution registers a candidate in the current generation.
func (c *Coordinator) AddSolution(ctx context.Context, req AddSolutionRequest) (*AddSolutionResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil, errors.New(errors.SessionNotStarted,
			"no evolution session started; call start first")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, errors.New(errors.ValidationFailed,
			"content must be a non-empty string")
	}

	sol := c.session.addSolution(req.Content, req.ParentSolutions)

	ctx = logging.WithGeneration(logging.WithSessionID(ctx, c.session.ID), sol.Generation)
	logging.GetLogger().Debug(ctx, "added solution %s", sol.ID)

	return &AddSolutionResult{
		SolutionID:       sol.ID,
		Generation:       sol.Generation,
		PopulationSize:   len(c.session.GenerationHistory[sol.Generation]),
		TargetPopulation: c.session.Config.PopulationSize,
	}, nil
}

// ScoreRequest carries the ScoreSolution operation's parameters. Reasoning
// is accepted for the caller's audit trail but never stored; it only feeds
// debug logging.
type ScoreRequest struct {
	SolutionID string  `json:"solution_id"`
	CheckID    string  `json:"check_id"`
	Score      float64 `json:"score"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

// ScoreResult reports the recomputed composite and scoring progress.
type ScoreResult struct {
	SolutionID     string  `json:"solution_id"`
	CompositeScore float64 `json:"composite_score"`
	ScoredChecks   int     `json:"scored_checks"`
	TotalChecks    int     `json:"total_checks"`
	FullyScored    bool    `json:"fully_scored"`
}

// ScoreSolution records a per-check score in [0, 1]. Re-scoring a check
// overwrites the previous value rather than accumulating.
func (c *Coordinator) ScoreSolution(ctx context.Context, req ScoreRequest) (*ScoreResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil, errors.New(errors.SessionNotStarted,
			"no evolution session started; call start first")
	}

	sol, ok := c.session.Solutions[req.SolutionID]
	if !ok {
		return nil, errors.WithFields(
			errors.New(errors.ResourceNotFound, "solution not found"),
			errors.Fields{"solution_id": req.SolutionID})
	}
	if _, ok := c.session.check(req.CheckID); !ok {
		return nil, errors.WithFields(
			errors.New(errors.ResourceNotFound, "check not found"),
			errors.Fields{"check_id": req.CheckID})
	}
	if math.IsNaN(req.Score) || req.Score < 0 || req.Score > 1 {
		return nil, errors.Newf(errors.ValidationFailed,
			"score must be between 0.0 and 1.0, got %v", req.Score)
	}

	c.session.setScore(sol, req.CheckID, req.Score)

	ctx = logging.WithGeneration(logging.WithSessionID(ctx, c.session.ID), sol.Generation)
	logger := logging.GetLogger()
	logger.Debug(ctx, "scored solution %s on %s: %.3f (composite %.3f)",
		sol.ID, req.CheckID, req.Score, sol.CompositeScore)
	if req.Reasoning != "" {
		logger.Debug(ctx, "scoring rationale for %s/%s: %s", sol.ID, req.CheckID, req.Reasoning)
	}

	return &ScoreResult{
		SolutionID:     sol.ID,
		CompositeScore: sol.CompositeScore,
		ScoredChecks:   len(sol.Scores),
		TotalChecks:    len(c.session.Checks),
		FullyScored:    sol.fullyScored(len(c.session.Checks)),
	}, nil
}
