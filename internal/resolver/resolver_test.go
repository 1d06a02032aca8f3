package resolver

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lyb-ai/dev-toolkit/internal/registry"
)

// makeIndex builds an index from "type/name" -> internal dependency tokens.
func makeIndex(t *testing.T, defs map[string][]string) *registry.Index {
	t.Helper()
	idx := &registry.Index{
		Hooks: make(map[string]registry.Component),
		Utils: make(map[string]registry.Component),
	}
	for key, deps := range defs {
		typ, name, err := ParseDependency(key)
		if err != nil {
			t.Fatalf("bad key %q: %v", key, err)
		}
		idx.Partition(typ)[name] = registry.Component{
			Name:    name,
			Version: "1.0.0",
			Files: []registry.FileEntry{{
				Type:   typ,
				Path:   "registry/" + typ.Dir() + "/" + name + ".ts",
				Target: typ.Dir() + "/" + name + ".ts",
			}},
			InternalDependencies: deps,
		}
	}
	return idx
}

func TestLocalStorageScenario(t *testing.T) {
	idx := makeIndex(t, map[string][]string{
		"util/isBrowser":       nil,
		"hook/useLocalStorage": {"utils/isBrowser"},
	})

	res, err := NewResolver(idx).Resolve(registry.TypeHook, "useLocalStorage")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	want := []string{"hook/useLocalStorage", "util/isBrowser"}
	if diff := cmp.Diff(want, res.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if len(res.Skipped) != 0 {
		t.Errorf("Skipped = %v, want none", res.Skipped)
	}
}

func TestBreadthFirstOrder(t *testing.T) {
	idx := makeIndex(t, map[string][]string{
		"hook/a": {"hook/b", "util/c"},
		"hook/b": {"util/d"},
		"util/c": {"util/d"},
		"util/d": nil,
	})

	res, err := NewResolver(idx).Resolve(registry.TypeHook, "a")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	want := []string{"hook/a", "hook/b", "util/c", "util/d"}
	if diff := cmp.Diff(want, res.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestAcyclicSizeEqualsReachable(t *testing.T) {
	idx := makeIndex(t, map[string][]string{
		"hook/root":  {"hook/left", "hook/right"},
		"hook/left":  {"util/leaf"},
		"hook/right": {"util/leaf", "util/other"},
		"util/leaf":  nil,
		"util/other": nil,
		"util/alone": nil, // unreachable
	})

	res, err := NewResolver(idx).Resolve(registry.TypeHook, "root")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if len(res.Components) != 5 {
		t.Errorf("len = %d, want 5: %v", len(res.Components), res.Keys())
	}
	for _, key := range res.Keys() {
		if key == "util/alone" {
			t.Error("unreachable component should not be resolved")
		}
	}
}

func TestCycleThroughRoot(t *testing.T) {
	idx := makeIndex(t, map[string][]string{
		"hook/a": {"hook/b"},
		"hook/b": {"util/c"},
		"util/c": {"hooks/a"},
	})

	res, err := NewResolver(idx).Resolve(registry.TypeHook, "a")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	want := []string{"hook/a", "hook/b", "util/c"}
	if diff := cmp.Diff(want, res.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestSelfDependency(t *testing.T) {
	idx := makeIndex(t, map[string][]string{
		"util/self": {"util/self"},
	})

	res, err := NewResolver(idx).Resolve(registry.TypeUtil, "self")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if len(res.Components) != 1 {
		t.Errorf("len = %d, want 1", len(res.Components))
	}
}

func TestMalformedTokenSkipped(t *testing.T) {
	idx := makeIndex(t, map[string][]string{
		"hook/useMediaQuery": {"badtoken", "utils/isBrowser", "widgets/thing", "hook/"},
		"util/isBrowser":     nil,
	})

	res, err := NewResolver(idx).Resolve(registry.TypeHook, "useMediaQuery")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	want := []string{"hook/useMediaQuery", "util/isBrowser"}
	if diff := cmp.Diff(want, res.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}

	var tokens []string
	for _, s := range res.Skipped {
		tokens = append(tokens, s.Token)
		if s.Component != "hook/useMediaQuery" {
			t.Errorf("Skipped component = %q, want hook/useMediaQuery", s.Component)
		}
	}
	if diff := cmp.Diff([]string{"badtoken", "widgets/thing", "hook/"}, tokens); diff != "" {
		t.Errorf("Skipped tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestRootNotFound(t *testing.T) {
	idx := makeIndex(t, map[string][]string{"util/isBrowser": nil})

	_, err := NewResolver(idx).Resolve(registry.TypeUtil, "doesNotExist")
	var notFound *ComponentNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *ComponentNotFoundError", err)
	}
	if notFound.Type != registry.TypeUtil || notFound.Name != "doesNotExist" {
		t.Errorf("not found = %s/%s, want util/doesNotExist", notFound.Type, notFound.Name)
	}
	if got := err.Error(); got != `component "util/doesNotExist" not found in registry` {
		t.Errorf("Error() = %q", got)
	}
}

func TestTransitiveNotFound(t *testing.T) {
	idx := makeIndex(t, map[string][]string{
		"hook/useThing": {"utils/missing"},
	})

	_, err := NewResolver(idx).Resolve(registry.TypeHook, "useThing")
	var notFound *ComponentNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *ComponentNotFoundError", err)
	}
	if notFound.Name != "missing" {
		t.Errorf("Name = %q, want missing", notFound.Name)
	}
}

func TestTypePartitionsAreSeparate(t *testing.T) {
	idx := makeIndex(t, map[string][]string{
		"hook/shared": {"util/shared"},
		"util/shared": nil,
	})

	res, err := NewResolver(idx).Resolve(registry.TypeHook, "shared")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if diff := cmp.Diff([]string{"hook/shared", "util/shared"}, res.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeDefaultsInternalDependencies(t *testing.T) {
	idx := makeIndex(t, map[string][]string{"util/isBrowser": nil})

	res, err := NewResolver(idx).Resolve(registry.TypeUtil, "isBrowser")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if res.Components[0].InternalDependencies == nil {
		t.Error("InternalDependencies should default to an empty slice")
	}
}

func TestDependenciesUnion(t *testing.T) {
	res := &Resolution{Components: []ResolvedComponent{
		{Type: registry.TypeHook, Name: "a", Dependencies: []string{"react", "clsx"}},
		{Type: registry.TypeUtil, Name: "b", Dependencies: []string{"clsx", "date-fns"}},
	}}

	want := []string{"clsx", "date-fns", "react"}
	if diff := cmp.Diff(want, res.Dependencies()); diff != "" {
		t.Errorf("Dependencies() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDependency(t *testing.T) {
	tests := []struct {
		token    string
		wantType registry.ComponentType
		wantName string
		wantErr  bool
	}{
		{"utils/isBrowser", registry.TypeUtil, "isBrowser", false},
		{"util/isBrowser", registry.TypeUtil, "isBrowser", false},
		{"hooks/useDebounce", registry.TypeHook, "useDebounce", false},
		{"hook/useDebounce", registry.TypeHook, "useDebounce", false},
		{"utils/nested/name", registry.TypeUtil, "nested/name", false},
		{"badtoken", "", "", true},
		{"/isBrowser", "", "", true},
		{"utils/", "", "", true},
		{"components/button", "", "", true},
		{"", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			typ, name, err := ParseDependency(tt.token)
			if tt.wantErr {
				var malformed *MalformedDependencyError
				if !errors.As(err, &malformed) {
					t.Fatalf("error = %v, want *MalformedDependencyError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDependency(%q) error: %v", tt.token, err)
			}
			if typ != tt.wantType || name != tt.wantName {
				t.Errorf("ParseDependency(%q) = %q, %q, want %q, %q", tt.token, typ, name, tt.wantType, tt.wantName)
			}
		})
	}
}
