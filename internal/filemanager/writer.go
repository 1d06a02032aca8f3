// Package filemanager materializes fetched components in the project tree.
package filemanager

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/lyb-ai/dev-toolkit/internal/config"
	"github.com/lyb-ai/dev-toolkit/internal/fetcher"
)

// Decision is the answer to a file conflict.
type Decision int

const (
	DecisionSkip Decision = iota
	DecisionOverwrite
)

func (d Decision) String() string {
	if d == DecisionOverwrite {
		return "overwrite"
	}
	return "skip"
}

// Conflict describes an existing file whose content differs from the incoming one.
type Conflict struct {
	Component string
	Target    string
	Path      string
	Existing  []byte
	Incoming  []byte
}

// ConflictResolver decides what to do with a conflicting file.
// An error aborts the remaining writes.
type ConflictResolver interface {
	ResolveConflict(ctx context.Context, c Conflict) (Decision, error)
}

// ConflictResolverFunc adapts a function to ConflictResolver.
type ConflictResolverFunc func(ctx context.Context, c Conflict) (Decision, error)

func (f ConflictResolverFunc) ResolveConflict(ctx context.Context, c Conflict) (Decision, error) {
	return f(ctx, c)
}

// SkipConflicts leaves every conflicting file untouched.
var SkipConflicts = ConflictResolverFunc(func(context.Context, Conflict) (Decision, error) {
	return DecisionSkip, nil
})

// State is the outcome of a single file write.
type State string

const (
	StateWritten     State = "written"
	StateUpToDate    State = "up-to-date"
	StateOverwritten State = "overwritten"
	StateSkipped     State = "skipped"
	StateFailed      State = "failed"
)

// FileOutcome reports what happened to one file.
type FileOutcome struct {
	Component string
	Target    string
	Path      string
	State     State
	Err       error
}

// Result is the outcome of a Write call.
type Result struct {
	Files []FileOutcome
	// Components is the updated copy of the manifest.
	Components config.Components
	// Changed is true when at least one manifest entry was replaced.
	Changed bool
}

// Count returns the number of files that ended in state s.
func (r *Result) Count(s State) int {
	n := 0
	for _, f := range r.Files {
		if f.State == s {
			n++
		}
	}
	return n
}

// Logger receives progress lines.
type Logger interface {
	Step(format string, args ...any)
	Success(format string, args ...any)
	Info(format string, args ...any)
	Warning(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Step(string, ...any)    {}
func (nopLogger) Success(string, ...any) {}
func (nopLogger) Info(string, ...any)    {}
func (nopLogger) Warning(string, ...any) {}

// Options control a single Write call.
type Options struct {
	// Force overwrites differing files without consulting the resolver.
	Force bool
}

// Writer writes components under a project directory.
type Writer struct {
	projectDir string
	paths      config.Paths
	resolver   ConflictResolver
	log        Logger
	now        func() time.Time
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithConflictResolver sets the resolver consulted for conflicting files.
func WithConflictResolver(r ConflictResolver) WriterOption {
	return func(w *Writer) { w.resolver = r }
}

// WithLogger sets the progress logger.
func WithLogger(l Logger) WriterOption {
	return func(w *Writer) { w.log = l }
}

// WithClock overrides the time source used for pulledAt.
func WithClock(now func() time.Time) WriterOption {
	return func(w *Writer) { w.now = now }
}

// NewWriter creates a writer. Conflicts are skipped unless a resolver is set.
func NewWriter(projectDir string, paths config.Paths, opts ...WriterOption) *Writer {
	w := &Writer{
		projectDir: projectDir,
		paths:      paths,
		resolver:   SkipConflicts,
		log:        nopLogger{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write writes every file of comps and returns the updated copy of installed.
// A file that cannot be read or written is marked failed and the rest continue;
// the returned error joins those failures. A resolver error stops the run
// after recording the manifest entry of the component in progress.
func (w *Writer) Write(ctx context.Context, comps []fetcher.FetchedComponent, installed config.Components, opts Options) (*Result, error) {
	res := &Result{Components: installed.Clone()}
	var errs []error

	for _, c := range comps {
		w.log.Step("Installing %s...", c.Key())

		var written []string
		var stop error
		for _, f := range c.FetchedFiles {
			outcome, err := w.writeFile(ctx, c, f, opts)
			if err != nil {
				stop = err
				break
			}
			res.Files = append(res.Files, outcome)

			switch outcome.State {
			case StateWritten, StateOverwritten:
				written = append(written, f.Target)
			case StateFailed:
				errs = append(errs, outcome.Err)
			}
		}

		if len(written) > 0 {
			res.Components.Set(c.Type, c.Name, config.ManifestEntry{
				Version:  c.Version,
				Files:    written,
				PulledAt: w.now().UTC().Format(time.RFC3339),
			})
			res.Changed = true
		}

		if stop != nil {
			return res, stop
		}
	}

	return res, errors.Join(errs...)
}

// writeFile runs the per-file state machine. The error is non-nil only when
// the conflict resolver fails; filesystem errors are reported in the outcome.
func (w *Writer) writeFile(ctx context.Context, c fetcher.FetchedComponent, f fetcher.FetchedFile, opts Options) (FileOutcome, error) {
	outcome := FileOutcome{Component: c.Key(), Target: f.Target}
	fail := func(err error) (FileOutcome, error) {
		outcome.State = StateFailed
		outcome.Err = fmt.Errorf("%s: %w", f.Target, err)
		w.log.Warning("  Failed %s: %v", f.Target, err)
		return outcome, nil
	}

	dest, fellBack, err := resolveDestination(w.projectDir, f.Target, f.Type, w.paths)
	if err != nil {
		return fail(err)
	}
	outcome.Path = dest
	if fellBack {
		w.log.Warning("Unknown file target prefix: %s. Writing to the %s directory.", f.Target, f.Type)
	}

	incoming := []byte(f.Content)
	existing, err := os.ReadFile(dest)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := writeFileAtomic(dest, incoming); err != nil {
			return fail(err)
		}
		outcome.State = StateWritten
		w.log.Success("  Written %s", f.Target)
		return outcome, nil
	case err != nil:
		return fail(fmt.Errorf("reading existing file: %w", err))
	}

	if bytes.Equal(existing, incoming) {
		outcome.State = StateUpToDate
		w.log.Info("  %s is up to date.", f.Target)
		return outcome, nil
	}

	if !opts.Force {
		decision, err := w.resolver.ResolveConflict(ctx, Conflict{
			Component: c.Key(),
			Target:    f.Target,
			Path:      dest,
			Existing:  existing,
			Incoming:  incoming,
		})
		if err != nil {
			return outcome, fmt.Errorf("resolving conflict for %s: %w", f.Target, err)
		}
		if decision != DecisionOverwrite {
			outcome.State = StateSkipped
			w.log.Info("  Skipped %s", f.Target)
			return outcome, nil
		}
	}

	if err := writeFileAtomic(dest, incoming); err != nil {
		return fail(err)
	}
	outcome.State = StateOverwritten
	w.log.Success("  Overwritten %s", f.Target)
	return outcome, nil
}
