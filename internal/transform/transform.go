// Package transform rewrites registry import prefixes to the project's aliases.
// Replacement is literal; source syntax is not parsed.
package transform

import (
	"strings"

	"github.com/lyb-ai/dev-toolkit/internal/config"
	"github.com/lyb-ai/dev-toolkit/internal/fetcher"
)

type rule struct {
	prefix string
	alias  func(config.Aliases) string
}

// Rules are applied in this order, each to the output of the previous one.
var rules = []rule{
	{"@/utils/", func(a config.Aliases) string { return a.Utils }},
	{"@/hooks/", func(a config.Aliases) string { return a.Hooks }},
	{"registry/utils/", func(a config.Aliases) string { return a.Utils }},
	{"registry/hooks/", func(a config.Aliases) string { return a.Hooks }},
}

// Rewrite replaces known placeholder import prefixes in content.
// A rule whose alias is empty is skipped.
func Rewrite(content string, aliases config.Aliases) string {
	for _, r := range rules {
		alias := strings.TrimRight(r.alias(aliases), "/")
		if alias == "" {
			continue
		}
		content = strings.ReplaceAll(content, r.prefix, alias+"/")
	}
	return content
}

// Components returns copies of comps with every file's content rewritten.
func Components(comps []fetcher.FetchedComponent, aliases config.Aliases) []fetcher.FetchedComponent {
	out := make([]fetcher.FetchedComponent, len(comps))
	for i, c := range comps {
		files := make([]fetcher.FetchedFile, len(c.FetchedFiles))
		for j, f := range c.FetchedFiles {
			f.Content = Rewrite(f.Content, aliases)
			files[j] = f
		}
		c.FetchedFiles = files
		out[i] = c
	}
	return out
}
