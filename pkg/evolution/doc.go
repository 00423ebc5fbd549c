// Package evolution tracks and scores candidate solutions to an open-ended
// problem across successive generations, and derives crossover
// recommendations for authoring the next generation.
//
// The package is a bookkeeping and recommendation layer: an external caller
// (an LLM or a human) authors solution content and judges it against the
// session's consistency checks, while the Coordinator records the supplied
// scores and computes aggregate statistics, convergence decisions and
// per-check crossover guidance. No content is ever generated or evaluated
// here.
//
// A Coordinator owns at most one Session at a time and exposes five
// operations: Start, AddSolution, ScoreSolution, EvolveGeneration and
// Status. Starting a new session discards the previous one outright.
package evolution
