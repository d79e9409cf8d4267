// Package provider defines the registry of projection data providers, their
// capabilities, and their static reliability weights.
package provider

import (
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Format identifies the raw field vocabulary a provider's payloads arrive in.
// Adding a provider means registering it here and adding one mapping table to
// the normalizer; call sites never change.
type Format string

const (
	FormatSleeper     Format = "sleeper"
	FormatFantasyPros Format = "fantasypros"
	FormatESPN        Format = "espn"
	FormatCanonical   Format = "canonical"
)

// DefaultWeight is used for providers registered without an explicit weight.
const DefaultWeight = 0.5

// Capabilities describes what a provider can supply.
type Capabilities struct {
	Projections bool    `yaml:"projections"`
	Rankings    bool    `yaml:"rankings"`
	Stats       bool    `yaml:"stats"`
	Weekly      bool    `yaml:"weekly"`
	Seasonal    bool    `yaml:"seasonal"`
	Weight      float64 `yaml:"weight"`
	Format      Format  `yaml:"format"`
}

// Registry manages known providers. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Capabilities
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Capabilities)}
}

// NewDefaultRegistry creates a registry preloaded with the core providers.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("sleeper", Capabilities{
		Projections: true, Stats: true, Weekly: true,
		Weight: 0.85, Format: FormatSleeper,
	})
	r.Register("fantasypros", Capabilities{
		Projections: true, Rankings: true, Weekly: true, Seasonal: true,
		Weight: 0.90, Format: FormatFantasyPros,
	})
	r.Register("espn", Capabilities{
		Projections: true, Stats: true, Weekly: true, Seasonal: true,
		Weight: 0.80, Format: FormatESPN,
	})
	return r
}

// Register adds or replaces a provider.
func (r *Registry) Register(name string, caps Capabilities) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[strings.ToLower(name)] = caps
}

// Get returns a provider's capabilities and whether it is registered.
func (r *Registry) Get(name string) (Capabilities, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	caps, ok := r.providers[strings.ToLower(name)]
	return caps, ok
}

// Weight returns the static reliability weight for a provider, or
// DefaultWeight for unknown providers.
func (r *Registry) Weight(name string) float64 {
	caps, ok := r.Get(name)
	if !ok {
		return DefaultWeight
	}
	return caps.Weight
}

// Format returns the payload format for a provider, or FormatCanonical for
// unknown providers so their payloads pass through unmapped fields dropped.
func (r *Registry) Format(name string) Format {
	caps, ok := r.Get(name)
	if !ok {
		return FormatCanonical
	}
	return caps.Format
}

// List returns all registered provider names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProjectionProviders returns the names of providers that supply projections.
func (r *Registry) ProjectionProviders() []string {
	var names []string
	for _, name := range r.List() {
		caps, _ := r.Get(name)
		if caps.Projections {
			names = append(names, name)
		}
	}
	return names
}

// weightsFile is the YAML shape for provider overrides.
type weightsFile struct {
	Providers map[string]Capabilities `yaml:"providers"`
}

// LoadOverrides applies provider definitions from a YAML file on top of the
// registry. Unknown keys in the file register new providers.
func (r *Registry) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrap(err, "provider: read overrides")
	}
	var f weightsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return eris.Wrap(err, "provider: parse overrides")
	}
	for name, caps := range f.Providers {
		if caps.Weight < 0 || caps.Weight > 1 {
			return eris.Errorf("provider: weight for %s out of range [0,1]: %v", name, caps.Weight)
		}
		r.Register(name, caps)
	}
	return nil
}
