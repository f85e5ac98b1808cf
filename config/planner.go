package config

import (
	"fmt"
	"os"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/planner"
)

// PlannerConfig points at the crew and cost assumptions used when a
// request does not carry its own.
type PlannerConfig struct {
	AssumptionsFile string `json:"assumptions_file"`
}

// Validate checks that the assumptions file exists when configured.
func (c PlannerConfig) Validate() error {
	if c.AssumptionsFile == "" {
		return nil
	}
	if _, err := os.Stat(c.AssumptionsFile); err != nil {
		return fmt.Errorf("assumptions_file: %w", err)
	}
	return nil
}

// Defaults loads the configured assumptions, or returns zero values which
// the planner replaces with its own defaults.
func (c PlannerConfig) Defaults() (model.CostAssumptions, error) {
	if c.AssumptionsFile == "" {
		return model.CostAssumptions{}, nil
	}
	return planner.LoadAssumptions(c.AssumptionsFile)
}

// RecommendConfig bounds the concurrency of a recommendation run.
type RecommendConfig struct {
	Concurrency int `json:"concurrency"`
}

// SetDefaults applies sane defaults.
func (c *RecommendConfig) SetDefaults() {
	if c.Concurrency == 0 {
		c.Concurrency = 8
	}
}

// Validate checks the concurrency bound.
func (c RecommendConfig) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}
	return nil
}
