package scenarios

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/hangar/core/model"
	"github.com/kilianp07/hangar/core/scheduler"
)

// ExpectedPlacement pins where an auto-induction must land.
type ExpectedPlacement struct {
	Hangar string    `yaml:"hangar"`
	Bays   []string  `yaml:"bays"`
	Start  time.Time `yaml:"start"`
}

type Expected struct {
	Scheduled   map[string]ExpectedPlacement `yaml:"scheduled,omitempty"`
	Unscheduled []string                     `yaml:"unscheduled,omitempty"`
	// FirstRejection maps an auto-induction id to the rule of its first rejection.
	FirstRejection map[string]string `yaml:"first_rejection,omitempty"`
	Violations     map[string]int    `yaml:"violations,omitempty"`
	Cycle          bool              `yaml:"cycle,omitempty"`
}

type Scenario struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description,omitempty"`
	Scheduler   scheduler.Config `yaml:"scheduler"`
	Airfield    model.Document   `yaml:"airfield"`
	Expected    Expected         `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
