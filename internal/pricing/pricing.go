package pricing

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultModel is the pricing row used for unknown model identifiers.
const DefaultModel = "gpt-4o-mini"

// Rates are per-1K-token prices in USD for one model.
type Rates struct {
	InputPerKTokens  float64 `yaml:"input_per_k_tokens"`
	OutputPerKTokens float64 `yaml:"output_per_k_tokens"`
}

// Table maps model identifiers to their rates. Safe for concurrent reads.
type Table struct {
	mu    sync.RWMutex
	rates map[string]Rates
}

// NewTable returns a table seeded with the built-in rates.
func NewTable() *Table {
	return &Table{
		rates: map[string]Rates{
			"gpt-4o-mini": {InputPerKTokens: 0.000150, OutputPerKTokens: 0.000600},
			"gpt-4o":      {InputPerKTokens: 0.0025, OutputPerKTokens: 0.010},
		},
	}
}

// Rates returns the rates for a model, falling back to the default row when
// the model is unknown.
func (t *Table) Rates(model string) Rates {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if r, ok := t.rates[model]; ok {
		return r
	}
	return t.rates[DefaultModel]
}

// Set adds or replaces the rates for a model.
func (t *Table) Set(model string, r Rates) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rates[model] = r
}

// pricingFile is the YAML structure of an override file.
type pricingFile struct {
	Models map[string]Rates `yaml:"models"`
}

// LoadFromFile merges model rates from a YAML file over the built-in table.
// Unknown models in the file are added; known ones are replaced.
func (t *Table) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read pricing file: %w", err)
	}

	var pf pricingFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("failed to parse pricing YAML: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for model, rates := range pf.Models {
		if rates.InputPerKTokens < 0 || rates.OutputPerKTokens < 0 {
			slog.Warn("skipping negative pricing row", "model", model)
			continue
		}
		t.rates[model] = rates
	}

	slog.Info("pricing table loaded", "path", path, "models", len(pf.Models))
	return nil
}
