// Package fetcher retrieves the source text of resolved components.
//
// Files of one component are fetched concurrently and joined; components are
// fetched one after another. A failed file does not cancel its siblings, but
// the component fetch fails once all of them have returned.
package fetcher

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/lyb-ai/dev-toolkit/internal/registry"
	"github.com/lyb-ai/dev-toolkit/internal/resolver"
)

// Source returns the raw content of a registry file path.
type Source interface {
	FetchFile(ctx context.Context, path string) ([]byte, error)
}

// FetchedFile is a registry file entry with its content.
type FetchedFile struct {
	Type    registry.ComponentType
	Path    string
	Target  string
	Content string
}

// FetchedComponent is a resolved component plus one fetched file per file entry, in entry order.
type FetchedComponent struct {
	resolver.ResolvedComponent
	FetchedFiles []FetchedFile
}

// FetchError reports a component whose file could not be fetched.
type FetchError struct {
	Component string
	Path      string
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch source for %s (%s): %v", e.Component, e.Path, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher downloads component sources.
type Fetcher struct {
	source Source
}

// New creates a fetcher reading from source.
func New(source Source) *Fetcher {
	return &Fetcher{source: source}
}

// FetchComponent fetches every file of c concurrently.
func (f *Fetcher) FetchComponent(ctx context.Context, c resolver.ResolvedComponent) (FetchedComponent, error) {
	files := make([]FetchedFile, len(c.Files))

	// No derived context: a failing file must not cancel requests already in flight.
	var g errgroup.Group
	for i, entry := range c.Files {
		g.Go(func() error {
			data, err := f.source.FetchFile(ctx, entry.Path)
			if err != nil {
				return &FetchError{Component: c.Key(), Path: entry.Path, Err: err}
			}
			files[i] = FetchedFile{
				Type:    entry.Type,
				Path:    entry.Path,
				Target:  entry.Target,
				Content: string(data),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return FetchedComponent{}, err
	}

	return FetchedComponent{ResolvedComponent: c, FetchedFiles: files}, nil
}

// FetchAll fetches components sequentially. Every component is attempted;
// the returned error joins the failures of all components that could not be fetched.
func (f *Fetcher) FetchAll(ctx context.Context, components []resolver.ResolvedComponent) ([]FetchedComponent, error) {
	fetched := make([]FetchedComponent, 0, len(components))
	var errs []error

	for _, c := range components {
		if err := ctx.Err(); err != nil {
			return fetched, err
		}
		fc, err := f.FetchComponent(ctx, c)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fetched = append(fetched, fc)
	}

	return fetched, errors.Join(errs...)
}
