package config

import "github.com/lyb-ai/dev-toolkit/internal/registry"

const DefaultRegistryURL = "https://lyb-ai.github.io/dev-tookit-registry"

// ManifestEntry records one installed component.
type ManifestEntry struct {
	Version  string   `yaml:"version"`
	Files    []string `yaml:"files"`
	PulledAt string   `yaml:"pulledAt"`
}

// Components is the installation manifest, keyed by type then name.
type Components struct {
	Hooks map[string]ManifestEntry `yaml:"hooks,omitempty"`
	Utils map[string]ManifestEntry `yaml:"utils,omitempty"`
}

func (c *Components) partition(t registry.ComponentType) *map[string]ManifestEntry {
	switch t {
	case registry.TypeHook:
		return &c.Hooks
	case registry.TypeUtil:
		return &c.Utils
	}
	return nil
}

// Get returns the manifest entry for t/name.
func (c Components) Get(t registry.ComponentType, name string) (ManifestEntry, bool) {
	p := c.partition(t)
	if p == nil {
		return ManifestEntry{}, false
	}
	e, ok := (*p)[name]
	return e, ok
}

// Set replaces the manifest entry for t/name.
func (c *Components) Set(t registry.ComponentType, name string, e ManifestEntry) {
	p := c.partition(t)
	if p == nil {
		return
	}
	if *p == nil {
		*p = make(map[string]ManifestEntry)
	}
	(*p)[name] = e
}

// Len returns the number of installed components.
func (c Components) Len() int {
	return len(c.Hooks) + len(c.Utils)
}

// Clone returns a deep copy.
func (c Components) Clone() Components {
	return Components{
		Hooks: cloneEntries(c.Hooks),
		Utils: cloneEntries(c.Utils),
	}
}

func cloneEntries(m map[string]ManifestEntry) map[string]ManifestEntry {
	if m == nil {
		return nil
	}
	out := make(map[string]ManifestEntry, len(m))
	for k, v := range m {
		v.Files = append([]string(nil), v.Files...)
		out[k] = v
	}
	return out
}
