package registry

import (
	"errors"
	"fmt"
	"sort"

	version "github.com/hashicorp/go-version"
)

// ValidationError lists every schema problem found in an index document.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return "invalid registry index: " + e.Issues[0]
	}
	return fmt.Sprintf("invalid registry index: %d issues (first: %s)", len(e.Issues), e.Issues[0])
}

// ValidateIndex checks an index against the registry schema.
// Internal dependency tokens are not checked here; the resolver reports those.
func ValidateIndex(idx *Index) error {
	if idx == nil {
		return &ValidationError{Issues: []string{"empty document"}}
	}

	var issues []string
	if idx.Hooks == nil {
		issues = append(issues, "hooks: required")
	}
	if idx.Utils == nil {
		issues = append(issues, "utils: required")
	}

	for _, t := range []ComponentType{TypeHook, TypeUtil} {
		part := idx.Partition(t)
		names := make([]string, 0, len(part))
		for name := range part {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			prefix := t.Dir() + "." + name
			issues = append(issues, validateComponent(prefix, part[name])...)
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

func validateComponent(prefix string, c Component) []string {
	var issues []string
	if c.Name == "" {
		issues = append(issues, prefix+".name: required")
	}
	if c.Version == "" {
		issues = append(issues, prefix+".version: required")
	} else if _, err := version.NewVersion(c.Version); err != nil {
		issues = append(issues, fmt.Sprintf("%s.version: %q is not a semantic version", prefix, c.Version))
	}
	if len(c.Files) == 0 {
		issues = append(issues, prefix+".files: required")
	}
	for i, f := range c.Files {
		fp := fmt.Sprintf("%s.files[%d]", prefix, i)
		if !f.Type.Valid() {
			issues = append(issues, fmt.Sprintf("%s.type: %q must be hook or util", fp, f.Type))
		}
		if f.Path == "" {
			issues = append(issues, fp+".path: required")
		}
		if f.Target == "" {
			issues = append(issues, fp+".target: required")
		}
	}
	return issues
}

// IsValidationError reports whether err is (or wraps) a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
