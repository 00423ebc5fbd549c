package tools

import (
	"context"
	"encoding/json"

	models "github.com/XiaoConstantine/mcp-go/pkg/model"

	"github.com/XiaoConstantine/evoloop-go/pkg/errors"
	"github.com/XiaoConstantine/evoloop-go/pkg/evolution"
)

// Tool names of the five evolution operations.
const (
	ToolStartEvolution   = "start_evolution"
	ToolAddSolution      = "add_solution"
	ToolScoreSolution    = "score_solution"
	ToolEvolveGeneration = "evolve_generation"
	ToolGetStatus        = "get_status"
)

// NewEvolutionRegistry builds a registry exposing the five evolution
// operations of the given coordinator.
func NewEvolutionRegistry(coordinator *evolution.Coordinator) (*InMemoryToolRegistry, error) {
	registry := NewInMemoryToolRegistry()
	for _, tool := range EvolutionTools(coordinator) {
		if err := registry.Register(tool); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// EvolutionTools wraps the coordinator's operations as tools. Handlers never
// return a Go error for caller-correctable failures: every precondition
// violation is converted into an error-shaped result so nothing escapes the
// adapter as a fault.
func EvolutionTools(coordinator *evolution.Coordinator) []Tool {
	return []Tool{
		NewFuncTool(ToolStartEvolution,
			"Start a new evolutionary session for a problem, replacing any existing session.",
			models.InputSchema{
				Type: "object",
				Properties: map[string]models.ParameterSchema{
					"problem_statement": {
						Type:        "string",
						Description: "The problem the candidate solutions address",
						Required:    true,
					},
					"consistency_checks": {
						Type:        "array",
						Description: "Evaluation criteria: strings or {description, weight} objects",
						Required:    true,
					},
					"population_size": {
						Type:        "number",
						Description: "Target solutions per generation (default 3)",
					},
					"max_generations": {
						Type:        "number",
						Description: "Generation cap before forced completion (default 5)",
					},
					"convergence_threshold": {
						Type:        "number",
						Description: "Best composite score that ends the run (default 0.95)",
					},
				},
			},
			func(ctx context.Context, args map[string]interface{}) (*models.CallToolResult, error) {
				req, err := decodeStartRequest(args)
				if err != nil {
					return errorResult(err), nil
				}
				result, err := coordinator.Start(ctx, req)
				if err != nil {
					return errorResult(err), nil
				}
				return successResult(result)
			}),

		NewFuncTool(ToolAddSolution,
			"Register a candidate solution in the current generation.",
			models.InputSchema{
				Type: "object",
				Properties: map[string]models.ParameterSchema{
					"content": {
						Type:        "string",
						Description: "The candidate solution text",
						Required:    true,
					},
					"parent_solutions": {
						Type:        "array",
						Description: "Advisory lineage: ids of the solutions this one was derived from",
					},
				},
			},
			func(ctx context.Context, args map[string]interface{}) (*models.CallToolResult, error) {
				content, _ := args["content"].(string)
				parents, err := stringSliceArg(args, "parent_solutions")
				if err != nil {
					return errorResult(err), nil
				}
				result, err := coordinator.AddSolution(ctx, evolution.AddSolutionRequest{
					Content:         content,
					ParentSolutions: parents,
				})
				if err != nil {
					return errorResult(err), nil
				}
				return successResult(result)
			}),

		NewFuncTool(ToolScoreSolution,
			"Record a score in [0, 1] for a solution against one consistency check.",
			models.InputSchema{
				Type: "object",
				Properties: map[string]models.ParameterSchema{
					"solution_id": {
						Type:        "string",
						Description: "Id returned by add_solution",
						Required:    true,
					},
					"check_id": {
						Type:        "string",
						Description: "Id of the consistency check (check_1..check_n)",
						Required:    true,
					},
					"score": {
						Type:        "number",
						Description: "Score between 0.0 and 1.0",
						Required:    true,
					},
					"reasoning": {
						Type:        "string",
						Description: "Optional rationale; logged, never stored",
					},
				},
			},
			func(ctx context.Context, args map[string]interface{}) (*models.CallToolResult, error) {
				score, err := floatArg(args, "score")
				if err != nil {
					return errorResult(err), nil
				}
				solutionID, _ := args["solution_id"].(string)
				checkID, _ := args["check_id"].(string)
				reasoning, _ := args["reasoning"].(string)

				result, err := coordinator.ScoreSolution(ctx, evolution.ScoreRequest{
					SolutionID: solutionID,
					CheckID:    checkID,
					Score:      score,
					Reasoning:  reasoning,
				})
				if err != nil {
					return errorResult(err), nil
				}
				return successResult(result)
			}),

		NewFuncTool(ToolEvolveGeneration,
			"Close out the current generation: compute crossover recommendations and either advance or complete the session.",
			models.InputSchema{
				Type:       "object",
				Properties: map[string]models.ParameterSchema{},
			},
			func(ctx context.Context, args map[string]interface{}) (*models.CallToolResult, error) {
				result, err := coordinator.EvolveGeneration(ctx)
				if err != nil {
					return errorResult(err), nil
				}
				return successResult(result)
			}),

		NewFuncTool(ToolGetStatus,
			"Report the session's progress, best solution and per-generation summary.",
			models.InputSchema{
				Type:       "object",
				Properties: map[string]models.ParameterSchema{},
			},
			func(ctx context.Context, args map[string]interface{}) (*models.CallToolResult, error) {
				return successResult(coordinator.Status(ctx))
			}),
	}
}

func decodeStartRequest(args map[string]interface{}) (evolution.StartRequest, error) {
	req := evolution.StartRequest{}
	req.ProblemStatement, _ = args["problem_statement"].(string)

	rawChecks, ok := args["consistency_checks"].([]interface{})
	if ok {
		for _, raw := range rawChecks {
			spec, err := evolution.CheckSpecFromValue(raw)
			if err != nil {
				return evolution.StartRequest{}, err
			}
			req.Checks = append(req.Checks, spec)
		}
	}

	if v, err := optionalIntArg(args, "population_size"); err != nil {
		return evolution.StartRequest{}, err
	} else if v != nil {
		req.PopulationSize = v
	}
	if v, err := optionalIntArg(args, "max_generations"); err != nil {
		return evolution.StartRequest{}, err
	} else if v != nil {
		req.MaxGenerations = v
	}
	if v, ok := args["convergence_threshold"]; ok {
		f, isNum := v.(float64)
		if !isNum {
			return evolution.StartRequest{}, errors.New(errors.ValidationFailed,
				"convergence_threshold must be a number")
		}
		req.ConvergenceThreshold = &f
	}

	return req, nil
}

func floatArg(args map[string]interface{}, key string) (float64, error) {
	v, ok := args[key]
	if !ok {
		return 0, errors.Newf(errors.ValidationFailed, "%s is required", key)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, errors.Newf(errors.ValidationFailed, "%s must be a number", key)
	}
	return f, nil
}

func optionalIntArg(args map[string]interface{}, key string) (*int, error) {
	v, ok := args[key]
	if !ok {
		return nil, nil
	}
	f, isNum := v.(float64)
	if !isNum {
		return nil, errors.Newf(errors.ValidationFailed, "%s must be a number", key)
	}
	i := int(f)
	return &i, nil
}

func stringSliceArg(args map[string]interface{}, key string) ([]string, error) {
	v, ok := args[key]
	if !ok {
		return nil, nil
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, errors.Newf(errors.ValidationFailed, "%s must be an array of strings", key)
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, errors.Newf(errors.ValidationFailed, "%s must be an array of strings", key)
		}
		out = append(out, s)
	}
	return out, nil
}

// successResult renders a payload as pretty JSON text content.
func successResult(payload interface{}) (*models.CallToolResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.Unknown, "failed to encode result payload")
	}
	return &models.CallToolResult{
		Content: []models.Content{
			models.TextContent{Type: "text", Text: string(data)},
		},
	}, nil
}

// errorResult converts a structured error into the error payload shape.
func errorResult(err error) *models.CallToolResult {
	return &models.CallToolResult{
		IsError: true,
		Content: []models.Content{
			models.TextContent{Type: "text", Text: err.Error()},
		},
	}
}
