package registry

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed fallback
var fallbackFS embed.FS

// FallbackIndex returns the built-in index used when the remote registry
// is unreachable or serves an invalid document.
func FallbackIndex() (*Index, error) {
	data, err := fallbackFS.ReadFile("fallback/" + IndexFile)
	if err != nil {
		return nil, err
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parsing built-in index: %w", err)
	}
	if err := ValidateIndex(&idx); err != nil {
		return nil, err
	}
	return &idx, nil
}

// EmbeddedSource serves component sources for the built-in index.
type EmbeddedSource struct {
	fsys fs.FS
}

// NewEmbeddedSource returns a source backed by the built-in component files.
func NewEmbeddedSource() *EmbeddedSource {
	sub, err := fs.Sub(fallbackFS, "fallback")
	if err != nil {
		// "fallback" is a literal embedded directory.
		panic(err)
	}
	return &EmbeddedSource{fsys: sub}
}

// FetchFile returns the embedded content for a registry path.
func (s *EmbeddedSource) FetchFile(_ context.Context, path string) ([]byte, error) {
	data, err := fs.ReadFile(s.fsys, strings.TrimLeft(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("built-in registry has no %s: %w", path, err)
	}
	return data, nil
}
