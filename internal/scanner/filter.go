// Package scanner implements the directory walker (spec components
// C1+C2): deciding which filesystem entries are candidate images and
// walking root directories to produce PhotoFile records. Grounded on
// the teacher's internal/scanner/{filters.go,scanner.go}, generalised
// to emit structured records instead of bare path strings and to add
// the hidden-file and max-depth policy the teacher's filter lacked.
package scanner

import (
	"path/filepath"
	"strings"

	"github.com/HaiderBassem/dupfinder/pkg/api"
)

// Filter decides, by extension and hidden-file policy, whether a
// filesystem entry is a scan candidate (C1).
type Filter struct {
	extensions    map[string]bool
	includeHidden bool
}

// NewFilter builds a Filter from a ScanConfig's extension list. An
// empty extension list falls back to api.DefaultExtensions.
func NewFilter(cfg api.ScanConfig) *Filter {
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = api.DefaultExtensions
	}
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		set[strings.ToLower(strings.TrimPrefix(e, "."))] = true
	}
	return &Filter{extensions: set, includeHidden: cfg.IncludeHidden}
}

// AcceptsFile reports whether a regular file is a scan candidate:
// its extension (case-insensitive, no dot) is in the accepted set, and
// its name is not hidden unless hidden files are included.
func (f *Filter) AcceptsFile(name string) bool {
	if isHidden(name) && !f.includeHidden {
		return false
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return false
	}
	return f.extensions[ext]
}

// AcceptsDir reports whether a directory should be descended into:
// not hidden unless hidden entries are included. Depth is enforced by
// the walker, not the filter.
func (f *Filter) AcceptsDir(name string) bool {
	if isHidden(name) && !f.includeHidden {
		return false
	}
	return true
}

func isHidden(name string) bool {
	return len(name) > 0 && name[0] == '.'
}
