package evolution

// EvolutionConfig contains the per-session configuration, fixed at Start.
type EvolutionConfig struct {
	// Target number of solutions per generation. Informational only; the
	// population size is never enforced.
	PopulationSize int `json:"population_size"`

	// Cap on the number of generations before the session completes with
	// reason "max_generations".
	MaxGenerations int `json:"max_generations"`

	// Best composite score at which a generation is considered converged.
	ConvergenceThreshold float64 `json:"convergence_threshold"`
}

// DefaultEvolutionConfig returns the default configuration for a session.
func DefaultEvolutionConfig() EvolutionConfig {
	return EvolutionConfig{
		PopulationSize:       3,
		MaxGenerations:       5,
		ConvergenceThreshold: 0.95,
	}
}
