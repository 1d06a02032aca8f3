package filemanager

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lyb-ai/dev-toolkit/internal/config"
	"github.com/lyb-ai/dev-toolkit/internal/registry"
)

func TestSplitTarget(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		fileType     registry.ComponentType
		wantRoot     string
		wantRest     string
		wantFellBack bool
	}{
		{"hook", "hooks/useDebounce.ts", registry.TypeHook, "src/hooks", "useDebounce.ts", false},
		{"util", "utils/formatDate.ts", registry.TypeUtil, "src/utils", "formatDate.ts", false},
		{"nested remainder", "hooks/media/useMediaQuery.ts", registry.TypeHook, "src/hooks", "media/useMediaQuery.ts", false},
		{"prefix wins over type", "utils/helper.ts", registry.TypeHook, "src/utils", "helper.ts", false},
		{"fallback hook", "lib/deep/useX.ts", registry.TypeHook, "src/hooks", "useX.ts", true},
		{"fallback util", "shared/x.ts", registry.TypeUtil, "src/utils", "x.ts", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, rest, fellBack := splitTarget(tt.target, tt.fileType, testPaths)
			if root != tt.wantRoot || rest != tt.wantRest {
				t.Errorf("splitTarget() = (%q, %q), want (%q, %q)", root, rest, tt.wantRoot, tt.wantRest)
			}
			if fellBack != tt.wantFellBack {
				t.Errorf("fellBack = %v, want %v", fellBack, tt.wantFellBack)
			}
		})
	}
}

func TestResolveDestination(t *testing.T) {
	base := t.TempDir()
	project := filepath.Join(base, "app")
	shared := filepath.Join(base, "shared", "utils")

	paths := config.Paths{Hooks: "../shared/hooks", Utils: shared}

	tests := []struct {
		name    string
		target  string
		want    string
		wantErr bool
	}{
		{"relative root above project", "hooks/useX.ts", filepath.Join(base, "shared", "hooks", "useX.ts"), false},
		{"absolute root", "utils/cn.ts", filepath.Join(shared, "cn.ts"), false},
		{"remainder escapes root", "hooks/../../x.ts", "", true},
		{"remainder is the root", "utils/", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := resolveDestination(project, tt.target, registry.TypeHook, paths)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("resolveDestination() = %q, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveDestination() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("resolveDestination() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateInsideDir(t *testing.T) {
	base := t.TempDir()
	if err := validateInsideDir(base, base+"/src/a.ts"); err != nil {
		t.Errorf("child path rejected: %v", err)
	}
	if err := validateInsideDir(base, base+"/../a.ts"); err == nil {
		t.Error("escaping path accepted")
	}
	if err := validateInsideDir(base, base); err == nil {
		t.Error("base itself is not a file destination")
	}
}

func TestWriteFileAtomicKeepsNeighbours(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "src", "utils", "cn.ts")
	os.MkdirAll(filepath.Dir(dest), 0755)
	os.WriteFile(dest+".tmp", []byte("user notes"), 0644)

	if err := writeFileAtomic(dest, []byte("new")); err != nil {
		t.Fatalf("writeFileAtomic() error: %v", err)
	}

	if got := readFile(t, dest); got != "new" {
		t.Errorf("dest = %q, want %q", got, "new")
	}
	if got := readFile(t, dest+".tmp"); got != "user notes" {
		t.Errorf("neighbour = %q, want it untouched", got)
	}

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0644 {
		t.Errorf("mode = %v, want 0644", perm)
	}

	entries, err := os.ReadDir(filepath.Dir(dest))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".cn.ts.") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
	if len(entries) != 2 {
		t.Errorf("entries = %d, want 2", len(entries))
	}
}
