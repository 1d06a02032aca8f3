package filemanager

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/lyb-ai/dev-toolkit/internal/config"
	"github.com/lyb-ai/dev-toolkit/internal/registry"
)

// splitTarget maps a registry target to a configured root and the remainder
// below it. Targets under hooks/ or utils/ keep their remainder. Any other
// target falls back to the root for the file's type and keeps only its final
// segment; fellBack reports that case.
func splitTarget(target string, fileType registry.ComponentType, paths config.Paths) (root, rest string, fellBack bool) {
	if rest, ok := strings.CutPrefix(target, "hooks/"); ok {
		return paths.Hooks, rest, false
	}
	if rest, ok := strings.CutPrefix(target, "utils/"); ok {
		return paths.Utils, rest, false
	}

	base := path.Base(target)
	if fileType == registry.TypeHook {
		return paths.Hooks, base, true
	}
	return paths.Utils, base, true
}

// resolveDestination returns the destination of target on disk. A relative
// root is taken from projectDir and an absolute root is used as is. The
// result must stay inside the root.
func resolveDestination(projectDir, target string, fileType registry.ComponentType, paths config.Paths) (dest string, fellBack bool, err error) {
	root, rest, fellBack := splitTarget(target, fileType, paths)

	rootDir := filepath.FromSlash(root)
	if !filepath.IsAbs(rootDir) {
		rootDir = filepath.Join(projectDir, rootDir)
	}
	dest = filepath.Join(rootDir, filepath.FromSlash(rest))
	if err := validateInsideDir(rootDir, dest); err != nil {
		return "", fellBack, fmt.Errorf("invalid target %q: %w", target, err)
	}
	return dest, fellBack, nil
}

// validateInsideDir checks that resolved is a child of base after cleaning.
func validateInsideDir(base, resolved string) error {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return err
	}
	absResolved, err := filepath.Abs(resolved)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(absResolved, absBase+string(filepath.Separator)) {
		return fmt.Errorf("path %q escapes base directory %q", resolved, base)
	}
	return nil
}

// writeFileAtomic creates parent directories and replaces dest via a
// uniquely named temp file in the same directory.
func writeFileAtomic(dest string, data []byte) (err error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", dest, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("saving %s: %w", dest, err)
	}
	return nil
}
