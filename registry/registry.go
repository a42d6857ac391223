// Package registry provides the standard script enumerator: an ordered,
// explicit registration surface the host populates at startup.
package registry

import (
	"fmt"
	"os"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/yaml.v3"

	"github.com/scriptcheck/scriptcheck/discover"
	"github.com/scriptcheck/scriptcheck/types"
)

// Registry manages named scripts and the declaration convention applied to
// them. It implements types.Enumerator: enumeration order is registration
// order, which fixes discovery and execution order.
type Registry struct {
	config     Config
	testPrefix string
	exclude    map[string]struct{}
	scripts    []types.ScriptRef
	index      map[string]int
	mu         sync.RWMutex
}

// Config contains registry configuration.
type Config struct {
	Log log.Logger

	// ConventionFile optionally points at a YAML file overriding the
	// declaration convention (test prefix, excluded names).
	ConventionFile string

	// TestPrefix overrides the default test-case prefix. A value from the
	// convention file takes precedence.
	TestPrefix string
}

// conventionConfig is the YAML shape of a convention file.
type conventionConfig struct {
	TestPrefix string   `yaml:"test_prefix"`
	Exclude    []string `yaml:"exclude"`
}

// NewRegistry creates a new registry instance.
func NewRegistry(cfg Config) (*Registry, error) {
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}

	r := &Registry{
		config:     cfg,
		testPrefix: cfg.TestPrefix,
		exclude:    make(map[string]struct{}),
		index:      make(map[string]int),
	}
	if r.testPrefix == "" {
		r.testPrefix = discover.DefaultTestPrefix
	}

	if cfg.ConventionFile != "" {
		if err := r.loadConvention(cfg.ConventionFile); err != nil {
			return nil, fmt.Errorf("failed to load convention file: %w", err)
		}
	}

	cfg.Log.Debug("Registry created", "testPrefix", r.testPrefix, "len(exclude)", len(r.exclude))

	return r, nil
}

// loadConvention reads and applies a YAML convention file.
func (r *Registry) loadConvention(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", path, err)
	}
	var cfg conventionConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse %q: %w", path, err)
	}
	if cfg.TestPrefix != "" {
		r.testPrefix = cfg.TestPrefix
	}
	for _, name := range cfg.Exclude {
		r.exclude[name] = struct{}{}
	}
	return nil
}

// Register adds a script under name. Registration order is preserved;
// duplicate names and nil functions are rejected.
func (r *Registry) Register(name string, fn types.ScriptFn) error {
	if name == "" {
		return fmt.Errorf("script name is required")
	}
	if fn == nil {
		return fmt.Errorf("script %q has no function", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[name]; exists {
		return fmt.Errorf("script %q is already registered", name)
	}
	r.index[name] = len(r.scripts)
	r.scripts = append(r.scripts, types.ScriptRef{Name: name, Fn: fn})
	return nil
}

// MustRegister is Register but panics on error. Intended for package-level
// host wiring where a bad registration is a programming error.
func (r *Registry) MustRegister(name string, fn types.ScriptFn) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Enumerate returns the registered scripts in registration order, minus any
// excluded names. The returned slice is a copy; repeated calls within one
// run yield identical results.
func (r *Registry) Enumerate() []types.ScriptRef {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.ScriptRef, 0, len(r.scripts))
	for _, ref := range r.scripts {
		if _, skip := r.exclude[ref.Name]; skip {
			continue
		}
		out = append(out, ref)
	}
	return out
}

// Lookup returns the script registered under name.
func (r *Registry) Lookup(name string) (types.ScriptRef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[name]
	if !ok {
		return types.ScriptRef{}, false
	}
	return r.scripts[i], true
}

// TestPrefix returns the effective test-case prefix for this registry.
func (r *Registry) TestPrefix() string {
	return r.testPrefix
}

// Len returns the number of registered scripts, including excluded ones.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.scripts)
}
