package registry

import "sort"

// ComponentType is the kind of an installable component.
type ComponentType string

const (
	TypeHook ComponentType = "hook"
	TypeUtil ComponentType = "util"
)

// ParseComponentType accepts "hook", "util" and their plural forms.
func ParseComponentType(s string) (ComponentType, bool) {
	switch s {
	case "hook", "hooks":
		return TypeHook, true
	case "util", "utils":
		return TypeUtil, true
	}
	return "", false
}

// Valid reports whether t is one of the known component types.
func (t ComponentType) Valid() bool {
	return t == TypeHook || t == TypeUtil
}

// Dir returns the logical root directory for the type ("hooks" or "utils").
func (t ComponentType) Dir() string {
	return string(t) + "s"
}

// Key returns the unique "type/name" key of a component.
func Key(t ComponentType, name string) string {
	return string(t) + "/" + name
}

// Index is the top-level registry index.json.
type Index struct {
	Schema string               `json:"$schema,omitempty"`
	Hooks  map[string]Component `json:"hooks"`
	Utils  map[string]Component `json:"utils"`
}

// Component describes one installable hook or util.
type Component struct {
	Name                 string      `json:"name"`
	Description          string      `json:"description"`
	Category             string      `json:"category,omitempty"`
	Version              string      `json:"version"`
	Files                []FileEntry `json:"files"`
	Dependencies         []string    `json:"dependencies,omitempty"`
	InternalDependencies []string    `json:"internalDependencies,omitempty"`
}

// FileEntry maps a registry source path to a logical project target.
// Target starts with "hooks/" or "utils/".
type FileEntry struct {
	Type   ComponentType `json:"type"`
	Path   string        `json:"path"`
	Target string        `json:"target"`
}

// Partition returns the component map for the given type, or nil.
func (idx *Index) Partition(t ComponentType) map[string]Component {
	switch t {
	case TypeHook:
		return idx.Hooks
	case TypeUtil:
		return idx.Utils
	}
	return nil
}

// Lookup returns the component registered under t/name.
func (idx *Index) Lookup(t ComponentType, name string) (Component, bool) {
	c, ok := idx.Partition(t)[name]
	return c, ok
}

// Names returns the sorted component names of a partition.
func (idx *Index) Names(t ComponentType) []string {
	part := idx.Partition(t)
	names := make([]string, 0, len(part))
	for name := range part {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
