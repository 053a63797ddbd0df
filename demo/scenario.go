package demo

import (
	"slices"

	"github.com/kbukum/lazyseq/sequence"
	"github.com/kbukum/lazyseq/validation"
)

// ModeBoth runs the scenario under both modes.
const ModeBoth = "both"

// Scenario describes one filter → map → print → take run.
type Scenario struct {
	Source    []int  `json:"source" mapstructure:"source" validate:"max=10000"`
	Threshold int    `json:"threshold" mapstructure:"threshold"`
	Factor    int    `json:"factor" mapstructure:"factor"`
	Take      int    `json:"take" mapstructure:"take" validate:"min=0"`
	Mode      string `json:"mode,omitempty" mapstructure:"mode" validate:"omitempty,oneof=lazy eager both"`
}

// DefaultScenario returns the canonical run: [0..4], keep x > 1, double,
// take 1, lazily.
func DefaultScenario() Scenario {
	return Scenario{
		Source:    []int{0, 1, 2, 3, 4},
		Threshold: 1,
		Factor:    2,
		Take:      1,
		Mode:      sequence.ModeLazy,
	}
}

// Validate checks the scenario's tags.
func (sc Scenario) Validate() error {
	return validation.Validate(sc)
}

// WithMode returns a copy of the scenario using mode.
func (sc Scenario) WithMode(mode string) Scenario {
	sc.Source = slices.Clone(sc.Source)
	sc.Mode = mode
	return sc
}
