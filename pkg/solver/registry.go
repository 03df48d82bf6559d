package solver

import (
	"fmt"
	"log/slog"

	"github.com/Vedant6oyal/Wiki-Runner/pkg/ports"
)

// Config selects and parameterizes a decision strategy. The solver set is
// closed: similarity, openai, anthropic, ollama.
type Config struct {
	// Name picks the strategy.
	Name string

	// Model is the model/variant identifier, meaningful only for remote
	// strategies.
	Model string

	// APIKey is the credential for hosted remote strategies.
	APIKey string

	// BaseURL overrides the endpoint for the ollama strategy.
	BaseURL string

	// Embedder backs the similarity strategy.
	Embedder ports.Embedder

	// Logger is shared by whichever strategy is built.
	Logger *slog.Logger
}

// Names lists the recognized solver names.
func Names() []string {
	return []string{NameSimilarity, NameOpenAI, NameAnthropic, NameOllama}
}

// New builds the solver selected by cfg.Name.
func New(cfg Config) (ports.Solver, error) {
	switch cfg.Name {
	case NameSimilarity, "":
		if cfg.Embedder == nil {
			return nil, fmt.Errorf("similarity solver requires an embedding provider")
		}
		return NewSimilarity(cfg.Embedder, WithSimilarityLogger(cfg.Logger)), nil
	case NameOpenAI:
		return NewOpenAI(cfg.APIKey, cfg.Model, cfg.Logger)
	case NameAnthropic:
		return NewAnthropic(cfg.APIKey, cfg.Model, cfg.Logger)
	case NameOllama:
		return NewOllama(cfg.BaseURL, cfg.Model, cfg.Logger), nil
	default:
		return nil, fmt.Errorf("unknown solver %q (want one of %v)", cfg.Name, Names())
	}
}
