package filemanager

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lyb-ai/dev-toolkit/internal/config"
	"github.com/lyb-ai/dev-toolkit/internal/registry"
)

func TestVerifyAll(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "src/hooks"), 0755)
	os.WriteFile(filepath.Join(dir, "src/hooks/useDebounce.ts"), []byte("x"), 0644)

	installed := config.Components{}
	installed.Set(registry.TypeHook, "useDebounce", config.ManifestEntry{Version: "1.0.0", Files: []string{"hooks/useDebounce.ts"}})
	installed.Set(registry.TypeUtil, "isBrowser", config.ManifestEntry{Version: "1.0.0", Files: []string{"utils/isBrowser.ts"}})

	results := VerifyAll(dir, testPaths, installed)
	if len(results) != 2 {
		t.Fatalf("len = %d, want 2", len(results))
	}

	if results[0].Component != "hook/useDebounce" || !results[0].OK {
		t.Errorf("results[0] = %+v", results[0])
	}
	if results[1].Component != "util/isBrowser" || results[1].OK {
		t.Errorf("results[1] = %+v", results[1])
	}
	if len(results[1].Missing) != 1 || results[1].Missing[0] != "utils/isBrowser.ts" {
		t.Errorf("Missing = %v, want [utils/isBrowser.ts]", results[1].Missing)
	}
}

func TestVerifyAllEmpty(t *testing.T) {
	if results := VerifyAll(t.TempDir(), testPaths, config.Components{}); len(results) != 0 {
		t.Errorf("results = %+v, want none", results)
	}
}

func TestVerifyAbsoluteRoot(t *testing.T) {
	shared := filepath.Join(t.TempDir(), "hooks")
	os.MkdirAll(shared, 0755)
	os.WriteFile(filepath.Join(shared, "useDebounce.ts"), []byte("x"), 0644)

	installed := config.Components{}
	installed.Set(registry.TypeHook, "useDebounce", config.ManifestEntry{Version: "1.0.0", Files: []string{"hooks/useDebounce.ts"}})
	installed.Set(registry.TypeHook, "evil", config.ManifestEntry{Version: "1.0.0", Files: []string{"hooks/../../x.ts"}})

	results := VerifyAll(t.TempDir(), config.Paths{Hooks: shared, Utils: "src/utils"}, installed)
	if len(results) != 2 {
		t.Fatalf("len = %d, want 2", len(results))
	}
	if results[0].Component != "hook/evil" || results[0].OK {
		t.Errorf("escaping entry should be reported missing: %+v", results[0])
	}
	if results[1].Component != "hook/useDebounce" || !results[1].OK {
		t.Errorf("results[1] = %+v", results[1])
	}
}
