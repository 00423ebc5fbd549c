// Package evoloop tracks and scores candidate solutions to an open-ended
// problem across successive generations, producing crossover guidance for
// the agent authoring the next generation.
//
// evoloop is a bookkeeping and recommendation layer: it performs no solution
// generation and no evaluation itself. An external caller (an LLM or a
// human) supplies candidate content and per-criterion scores; evoloop
// records them, tracks the session-wide best candidate, decides when a run
// has converged or exhausted its generation budget, and recommends which
// solution to borrow from for each evaluation criterion.
//
// Key components:
//
//   - pkg/evolution: the evolutionary state machine. A Coordinator owns at
//     most one Session and exposes the five operations: Start, AddSolution,
//     ScoreSolution, EvolveGeneration and Status.
//
//   - pkg/tools: the five operations wrapped as MCP-shaped tools with
//     declared input schemas, for callers that speak a tool protocol.
//
//   - pkg/config: YAML configuration with validation for session defaults
//     and logging.
//
//   - pkg/logging, pkg/errors: structured logging with severity levels and
//     coded, wrappable errors used throughout.
//
// The evoloop command serves the tools over a stdin/stdout JSON-line
// protocol and ships a scripted demo session.
package evoloop
