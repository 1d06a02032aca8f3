package filemanager

import (
	"os"
	"sort"

	"github.com/lyb-ai/dev-toolkit/internal/config"
	"github.com/lyb-ai/dev-toolkit/internal/registry"
)

// VerifyResult contains the results of a verification check.
type VerifyResult struct {
	Component string
	Version   string
	OK        bool
	Missing   []string
}

// VerifyAll checks every manifest entry, ordered by component key.
func VerifyAll(projectDir string, paths config.Paths, installed config.Components) []VerifyResult {
	var results []VerifyResult
	for _, t := range []registry.ComponentType{registry.TypeHook, registry.TypeUtil} {
		entries := installed.Hooks
		if t == registry.TypeUtil {
			entries = installed.Utils
		}
		names := make([]string, 0, len(entries))
		for name := range entries {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			results = append(results, VerifyComponent(projectDir, paths, t, name, entries[name]))
		}
	}
	return results
}

// VerifyComponent checks that each file recorded for a component exists at its destination.
func VerifyComponent(projectDir string, paths config.Paths, t registry.ComponentType, name string, entry config.ManifestEntry) VerifyResult {
	result := VerifyResult{Component: registry.Key(t, name), Version: entry.Version, OK: true}

	for _, target := range entry.Files {
		dest, _, err := resolveDestination(projectDir, target, t, paths)
		if err == nil {
			_, err = os.Stat(dest)
		}
		if err != nil {
			result.Missing = append(result.Missing, target)
			result.OK = false
		}
	}

	return result
}
