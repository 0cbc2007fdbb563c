package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inkatlas/datakit/internal/domain"

	domainerrors "github.com/inkatlas/datakit/internal/errors"
)

// Registry holds the named scenarios available to seeding and reset flows.
// It is assembled at startup and read-only afterwards.
type Registry struct {
	scenarios map[string]*Scenario
	order     []string
}

// NewRegistry returns a registry pre-loaded with the built-in scenarios.
func NewRegistry() *Registry {
	r := &Registry{scenarios: make(map[string]*Scenario)}
	for _, sc := range builtins() {
		r.Register(sc)
	}
	return r
}

// Register adds or replaces a scenario by name.
func (r *Registry) Register(sc *Scenario) {
	if _, exists := r.scenarios[sc.Name]; !exists {
		r.order = append(r.order, sc.Name)
	}
	r.scenarios[sc.Name] = sc
}

// Get returns the named scenario or an unknown-scenario error.
func (r *Registry) Get(name string) (*Scenario, error) {
	sc, ok := r.scenarios[name]
	if !ok {
		return nil, domainerrors.UnknownScenario(name)
	}
	return sc, nil
}

// Names lists registered scenario names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// All returns the registered scenarios in registration order.
func (r *Registry) All() []*Scenario {
	out := make([]*Scenario, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.scenarios[name])
	}
	return out
}

func builtins() []*Scenario {
	return []*Scenario{
		{
			Name:        "full",
			Description: "the entire canonical dataset",
		},
		{
			Name:        "minimal",
			Description: "a handful of artists for smoke tests",
			IDs:         []string{"artist-0001", "artist-0002", "artist-0003"},
		},
		{
			Name:        "high-rating",
			Description: "top-rated artists, backfilled to a workable floor",
			Predicate: func(a *domain.Artist) bool {
				return a.Rating >= 4.5
			},
			MinItems: 5,
		},
		{
			Name:        "london",
			Description: "London artists with pricing variety guaranteed",
			Predicate: func(a *domain.Artist) bool {
				return a.Location.City == "London"
			},
			MinItems:             5,
			EnsurePricingVariety: true,
		},
		{
			Name:        "no-pricing",
			Description: "artists missing a pricing tier",
			Predicate: func(a *domain.Artist) bool {
				return a.Pricing == ""
			},
			MinItems: 3,
		},
	}
}

// scenarioFile is the on-disk YAML shape for custom allowlist scenarios.
// Only allowlist scenarios can be expressed in YAML; predicates stay in code.
type scenarioFile struct {
	Scenarios []struct {
		Name                 string   `yaml:"name"`
		Description          string   `yaml:"description"`
		IDs                  []string `yaml:"ids"`
		EnsurePricingVariety bool     `yaml:"ensure_pricing_variety"`
	} `yaml:"scenarios"`
}

// LoadFile registers allowlist scenarios from a YAML file on top of the
// built-ins. Later definitions with the same name win.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path) //#nosec G304 -- scenario path comes from configuration
	if err != nil {
		return fmt.Errorf("read scenario file: %w", err)
	}

	var file scenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse scenario file %s: %w", path, err)
	}

	for _, def := range file.Scenarios {
		if def.Name == "" {
			return fmt.Errorf("scenario file %s: scenario without a name", path)
		}
		if len(def.IDs) == 0 {
			return fmt.Errorf("scenario file %s: scenario %q has no ids", path, def.Name)
		}
		r.Register(&Scenario{
			Name:                 def.Name,
			Description:          def.Description,
			IDs:                  def.IDs,
			EnsurePricingVariety: def.EnsurePricingVariety,
		})
	}
	return nil
}
