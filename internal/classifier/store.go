package classifier

import (
	"encoding/json"
	"fmt"
	"os"
)

// model is the JSON form of a fitted boundary.
type model struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// Save writes the fitted boundary to path as JSON.
func (l *Linear) Save(path string) error {
	data, err := json.MarshalIndent(model{Weights: l.weights, Bias: l.bias}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}
	return nil
}

// Load reads a boundary written by Save.
func Load(path string) (*Linear, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}

	var m model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse model: %w", err)
	}
	if len(m.Weights) == 0 {
		return nil, fmt.Errorf("model has no weights")
	}
	return &Linear{weights: m.Weights, bias: m.Bias}, nil
}
