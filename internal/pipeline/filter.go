package pipeline

import (
	"path/filepath"
	"slices"
	"strings"

	"reroute/internal/model"
)

// Filter builds the default reroute policy: reject an entry whose raw
// extension is one of rejectExtensions (case-sensitive), or whose name matches
// a glob in ignoreList. Everything else, including names without an
// extension, is accepted.
func Filter(rejectExtensions, ignoreList []string) func(model.Event) bool {
	return func(event model.Event) bool {
		if ext := Extension(event.Name); ext != "" && slices.Contains(rejectExtensions, ext) {
			return false
		}

		return !shouldIgnore(event.Name, ignoreList)
	}
}

// Extension returns the text after the last dot of the final path element,
// without the dot. A leading dot does not start an extension, so ".tmp" has
// none.
func Extension(name string) string {
	base := filepath.Base(name)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return ""
	}

	return base[i+1:]
}

func shouldIgnore(path string, ignoreList []string) bool {
	parts := strings.Split(filepath.ToSlash(path), "/")

	for _, part := range parts {
		for _, pattern := range ignoreList {
			matched, err := filepath.Match(pattern, part)
			if err == nil && matched {
				return true
			}
		}
	}

	return false
}
