// Package gtmplfs loads a set of template sources off an afero.Fs, so the
// CLI's lint subcommand can batch over a tree of files without
// coupling to the real disk (SPEC_FULL.md §4/§15).
package gtmplfs

import (
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// TemplateSet holds every loaded template's raw source, keyed by its path
// relative to the root it was loaded from.
type TemplateSet struct {
	root    string
	sources map[string]string
}

// Names returns every loaded template's relative path, sorted.
func (s *TemplateSet) Names() []string {
	out := make([]string, 0, len(s.sources))
	for name := range s.sources {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Source returns the raw text loaded for name.
func (s *TemplateSet) Source(name string) (string, bool) {
	src, ok := s.sources[name]
	return src, ok
}

// Len reports how many templates were loaded.
func (s *TemplateSet) Len() int { return len(s.sources) }

// Load walks root on fsys, matching every file against the doublestar
// pattern (e.g. "**/*.tmpl"), and reads each match's contents into a
// TemplateSet. Paths in the returned set are relative to root.
func Load(fsys afero.Fs, root, pattern string) (*TemplateSet, error) {
	iofs := afero.NewIOFS(afero.NewBasePathFs(fsys, root))

	matches, err := doublestar.Glob(iofs, pattern)
	if err != nil {
		return nil, errors.Errorf("glob template set: %w", err)
	}

	set := &TemplateSet{root: root, sources: make(map[string]string, len(matches))}
	for _, rel := range matches {
		data, err := afero.ReadFile(afero.NewBasePathFs(fsys, root), rel)
		if err != nil {
			return nil, errors.Errorf("read template %q: %w", rel, err)
		}
		set.sources[rel] = string(data)
	}
	return set, nil
}

// LoadFile reads a single template source, relative to fsys's root.
func LoadFile(fsys afero.Fs, name string) (string, error) {
	data, err := afero.ReadFile(fsys, name)
	if err != nil {
		return "", errors.Errorf("read template %q: %w", name, err)
	}
	return string(data), nil
}
