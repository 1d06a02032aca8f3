package resolver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lyb-ai/dev-toolkit/internal/registry"
)

// Index is the registry view the resolver needs.
type Index interface {
	Lookup(t registry.ComponentType, name string) (registry.Component, bool)
}

// ResolvedComponent is a registry component annotated with its type.
type ResolvedComponent struct {
	Type                 registry.ComponentType
	Name                 string
	Version              string
	Files                []registry.FileEntry
	Dependencies         []string
	InternalDependencies []string
}

// Key returns the unique "type/name" key.
func (c ResolvedComponent) Key() string {
	return registry.Key(c.Type, c.Name)
}

// Resolution is the result of dependency resolution.
type Resolution struct {
	// Components in breadth-first discovery order, root first.
	Components []ResolvedComponent
	// Skipped holds malformed internal dependency tokens that were ignored.
	Skipped []*MalformedDependencyError
}

// Keys returns the "type/name" keys in resolution order.
func (r *Resolution) Keys() []string {
	keys := make([]string, len(r.Components))
	for i, c := range r.Components {
		keys[i] = c.Key()
	}
	return keys
}

// Dependencies returns the sorted union of third-party packages required by the resolved set.
func (r *Resolution) Dependencies() []string {
	seen := make(map[string]bool)
	var deps []string
	for _, c := range r.Components {
		for _, d := range c.Dependencies {
			if !seen[d] {
				seen[d] = true
				deps = append(deps, d)
			}
		}
	}
	sort.Strings(deps)
	return deps
}

// ComponentNotFoundError indicates a requested or depended-on component is not in the registry.
type ComponentNotFoundError struct {
	Type registry.ComponentType
	Name string
}

func (e *ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component %q not found in registry", registry.Key(e.Type, e.Name))
}

// MalformedDependencyError describes an internal dependency token that is not "type/name".
type MalformedDependencyError struct {
	Component string
	Token     string
	Reason    string
}

func (e *MalformedDependencyError) Error() string {
	return fmt.Sprintf("invalid dependency %q in %s: %s", e.Token, e.Component, e.Reason)
}

// ParseDependency splits an internal dependency token such as "utils/isBrowser".
// Plural types are normalized to their singular form.
func ParseDependency(token string) (registry.ComponentType, string, error) {
	rawType, name, found := strings.Cut(token, "/")
	if !found || rawType == "" || name == "" {
		return "", "", &MalformedDependencyError{Token: token, Reason: `expected "type/name"`}
	}
	t, ok := registry.ParseComponentType(rawType)
	if !ok {
		return "", "", &MalformedDependencyError{Token: token, Reason: fmt.Sprintf(`type %q must be "hook" or "util"`, rawType)}
	}
	return t, name, nil
}

// Resolver expands a component into the full set of components it needs.
type Resolver struct {
	index Index
}

// NewResolver creates a resolver over the given index.
func NewResolver(index Index) *Resolver {
	return &Resolver{index: index}
}

type pending struct {
	typ  registry.ComponentType
	name string
}

// Resolve walks internal dependencies breadth-first from t/name.
// A key already visited is skipped on dequeue, which also terminates cycles.
func (r *Resolver) Resolve(t registry.ComponentType, name string) (*Resolution, error) {
	res := &Resolution{}
	visited := make(map[string]bool)
	queue := []pending{{typ: t, name: name}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		key := registry.Key(current.typ, current.name)
		if visited[key] {
			continue
		}

		comp, ok := r.index.Lookup(current.typ, current.name)
		if !ok {
			return nil, &ComponentNotFoundError{Type: current.typ, Name: current.name}
		}

		visited[key] = true
		rc := normalize(current.typ, current.name, comp)
		res.Components = append(res.Components, rc)

		for _, token := range rc.InternalDependencies {
			depType, depName, err := ParseDependency(token)
			if err != nil {
				malformed := err.(*MalformedDependencyError)
				malformed.Component = key
				res.Skipped = append(res.Skipped, malformed)
				continue
			}
			queue = append(queue, pending{typ: depType, name: depName})
		}
	}

	return res, nil
}

// normalize keys the component by its registry name so the resolved set stays unique per lookup key.
func normalize(t registry.ComponentType, name string, c registry.Component) ResolvedComponent {
	internal := c.InternalDependencies
	if internal == nil {
		internal = []string{}
	}
	return ResolvedComponent{
		Type:                 t,
		Name:                 name,
		Version:              c.Version,
		Files:                c.Files,
		Dependencies:         c.Dependencies,
		InternalDependencies: internal,
	}
}
