package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	models "github.com/XiaoConstantine/mcp-go/pkg/model"
	"github.com/spf13/cobra"

	"github.com/XiaoConstantine/evoloop-go/pkg/config"
	"github.com/XiaoConstantine/evoloop-go/pkg/evolution"
	"github.com/XiaoConstantine/evoloop-go/pkg/tools"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the five evolution operations over stdin/stdout JSON lines",
	Long: `Reads one JSON request per line from stdin and writes one JSON
response per line to stdout. Requests have the shape

  {"tool": "start_evolution", "args": {"problem_statement": "...", "consistency_checks": ["..."]}}

and responses are {"ok": true, "result": ...} or {"ok": false, "error": "..."}.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		registry, err := tools.NewEvolutionRegistry(evolution.NewCoordinator())
		if err != nil {
			return err
		}
		return serve(cmd.Context(), registry, cfg.Session, os.Stdin, os.Stdout)
	},
}

type request struct {
	Tool string                 `json:"tool"`
	Args map[string]interface{} `json:"args"`
}

type response struct {
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// serve runs the request/response loop until EOF. Malformed lines produce an
// error response rather than terminating the loop. Start requests that omit
// session parameters are filled in from the configured defaults.
func serve(ctx context.Context, registry *tools.InMemoryToolRegistry, defaults config.SessionDefaults, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	encoder := json.NewEncoder(out)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			if encodeErr := encoder.Encode(response{OK: false, Error: fmt.Sprintf("malformed request: %v", err)}); encodeErr != nil {
				return encodeErr
			}
			continue
		}

		if req.Tool == tools.ToolStartEvolution {
			req.Args = seedSessionDefaults(req.Args, defaults)
		}

		result, err := registry.Call(ctx, req.Tool, req.Args)
		if err != nil {
			// Handlers convert operational failures into error payloads;
			// anything else is an encoding fault worth surfacing.
			if encodeErr := encoder.Encode(response{OK: false, Error: err.Error()}); encodeErr != nil {
				return encodeErr
			}
			continue
		}

		if err := encoder.Encode(toResponse(result)); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// seedSessionDefaults fills session parameters the caller left out with the
// configured defaults. Explicit arguments always win.
func seedSessionDefaults(args map[string]interface{}, defaults config.SessionDefaults) map[string]interface{} {
	if args == nil {
		args = map[string]interface{}{}
	}
	if _, ok := args["population_size"]; !ok {
		args["population_size"] = float64(defaults.PopulationSize)
	}
	if _, ok := args["max_generations"]; !ok {
		args["max_generations"] = float64(defaults.MaxGenerations)
	}
	if _, ok := args["convergence_threshold"]; !ok {
		args["convergence_threshold"] = defaults.ConvergenceThreshold
	}
	return args
}

// toResponse flattens a tool result into the line protocol's envelope.
func toResponse(result *models.CallToolResult) response {
	text := firstText(result)
	if result.IsError {
		return response{OK: false, Error: text}
	}
	if json.Valid([]byte(text)) {
		return response{OK: true, Result: json.RawMessage(text)}
	}
	quoted, _ := json.Marshal(text)
	return response{OK: true, Result: quoted}
}

func firstText(result *models.CallToolResult) string {
	for _, item := range result.Content {
		if text, ok := item.(models.TextContent); ok {
			return text.Text
		}
	}
	return ""
}
