package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/XiaoConstantine/evoloop-go/pkg/config"
	"github.com/XiaoConstantine/evoloop-go/pkg/evolution"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted two-generation session and print each payload",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runDemo(cmd.Context(), cfg.Session)
	},
}

func runDemo(ctx context.Context, defaults config.SessionDefaults) error {
	coordinator := evolution.NewCoordinator()

	start, err := coordinator.Start(ctx, evolution.StartRequest{
		ProblemStatement: "Design a caching layer for a read-heavy API",
		Checks: []evolution.CheckSpec{
			{Description: "keeps read latency low"},
			{Description: "bounds memory usage"},
			{Description: "stays consistent after writes"},
		},
		PopulationSize:       &defaults.PopulationSize,
		MaxGenerations:       &defaults.MaxGenerations,
		ConvergenceThreshold: &defaults.ConvergenceThreshold,
	})
	if err != nil {
		return err
	}
	printPayload("start", start)

	candidates := []string{
		"Use an LRU cache in front of the database. Latency stays low for hot keys. Memory usage is capped by the LRU size. Writes invalidate affected keys.",
		"Cache everything forever in a big map. Latency is excellent. Memory grows without bound. Writes leave stale entries behind.",
		"Use a TTL cache with write-through. Latency is decent. Memory is bounded by the TTL. Writes go through the cache so reads stay consistent.",
	}
	scores := [][]float64{
		{0.9, 0.8, 0.7},
		{0.95, 0.1, 0.2},
		{0.7, 0.8, 0.9},
	}

	for gen := 0; ; gen++ {
		ids := make([]string, len(candidates))
		for i, content := range candidates {
			added, err := coordinator.AddSolution(ctx, evolution.AddSolutionRequest{Content: content})
			if err != nil {
				return err
			}
			ids[i] = added.SolutionID
			printPayload("addSolution", added)
		}

		for i, id := range ids {
			for j, score := range scores[i] {
				result, err := coordinator.ScoreSolution(ctx, evolution.ScoreRequest{
					SolutionID: id,
					CheckID:    fmt.Sprintf("check_%d", j+1),
					Score:      score,
				})
				if err != nil {
					return err
				}
				printPayload("scoreSolution", result)
			}
		}

		evolved, err := coordinator.EvolveGeneration(ctx)
		if err != nil {
			return err
		}
		printPayload("evolveGeneration", evolved)
		if evolved.Status == evolution.StatusComplete {
			break
		}

		// Nudge the second generation toward convergence
		for i := range scores {
			for j := range scores[i] {
				scores[i][j] = min(1.0, scores[i][j]+0.15)
			}
		}
	}

	printPayload("getStatus", coordinator.Status(ctx))
	return nil
}

func printPayload(op string, payload interface{}) {
	fmt.Printf("== %s ==\n%s\n", op, toJSON(payload))
}

func toJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
