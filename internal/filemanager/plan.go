package filemanager

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/lyb-ai/dev-toolkit/internal/fetcher"
)

// PlanAction is what Write would do with a file.
type PlanAction string

const (
	PlanCreate    PlanAction = "create"
	PlanUnchanged PlanAction = "unchanged"
	PlanConflict  PlanAction = "conflict"
	PlanOverwrite PlanAction = "overwrite"
	PlanInvalid   PlanAction = "invalid"
)

const previewWidth = 60

// PlannedFile is one entry of a dry-run report.
type PlannedFile struct {
	Component string
	Target    string
	Path      string
	Size      int
	Action    PlanAction
	Preview   string
	Err       error
}

// Plan reports what Write would do without touching the filesystem.
func (w *Writer) Plan(comps []fetcher.FetchedComponent, opts Options) []PlannedFile {
	var planned []PlannedFile
	for _, c := range comps {
		for _, f := range c.FetchedFiles {
			p := PlannedFile{
				Component: c.Key(),
				Target:    f.Target,
				Size:      len(f.Content),
				Preview:   preview(f.Content),
			}

			dest, _, err := resolveDestination(w.projectDir, f.Target, f.Type, w.paths)
			if err != nil {
				p.Action = PlanInvalid
				p.Err = err
				planned = append(planned, p)
				continue
			}
			p.Path = dest

			existing, err := os.ReadFile(dest)
			switch {
			case errors.Is(err, os.ErrNotExist):
				p.Action = PlanCreate
			case err != nil:
				p.Action = PlanInvalid
				p.Err = err
			case bytes.Equal(existing, []byte(f.Content)):
				p.Action = PlanUnchanged
			case opts.Force:
				p.Action = PlanOverwrite
			default:
				p.Action = PlanConflict
			}
			planned = append(planned, p)
		}
	}
	return planned
}

// preview returns the first non-blank line of content, shortened.
func preview(content string) string {
	for line := range strings.Lines(content) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) > previewWidth {
			r := []rune(line)
			return string(r[:previewWidth-3]) + "..."
		}
		return line
	}
	return ""
}
