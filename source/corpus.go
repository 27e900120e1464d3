// Package source locates corpus text on disk for batch and watch modes.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ResolveFiles expands glob patterns to a sorted, deduplicated list of
// regular files. Supports single-level (*) and recursive (**) wildcards.
//
// Examples:
//   - "corpus/*.txt" → every .txt file directly under corpus
//   - "corpus/**/*.txt" → every .txt file under corpus recursively
//   - "notes.txt" → the file itself (must exist)
func ResolveFiles(patterns []string) ([]string, error) {
	var resolved []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		files, err := resolvePattern(pattern)
		if err != nil {
			return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
		}
		for _, f := range files {
			if !seen[f] {
				seen[f] = true
				resolved = append(resolved, f)
			}
		}
	}

	sort.Strings(resolved)
	return resolved, nil
}

// resolvePattern expands a single pattern to regular files.
func resolvePattern(pattern string) ([]string, error) {
	if !containsGlob(pattern) {
		abs, err := filepath.Abs(pattern)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory, use a glob such as %s", pattern, filepath.Join(pattern, "**", "*.txt"))
		}
		return []string{abs}, nil
	}

	abs, err := absolutePattern(pattern)
	if err != nil {
		return nil, err
	}

	matches, err := doublestar.FilepathGlob(abs)
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}

	var files []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}
		if info.Mode().IsRegular() {
			files = append(files, match)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files match pattern: %s", pattern)
	}
	return files, nil
}

// containsGlob reports whether the pattern has glob metacharacters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// absolutePattern anchors a relative glob pattern to an absolute base
// directory while leaving the glob part untouched.
func absolutePattern(pattern string) (string, error) {
	if filepath.IsAbs(pattern) {
		return pattern, nil
	}

	globIdx := strings.IndexAny(pattern, "*?[{")
	dirPart := "."
	globPart := pattern
	if sep := strings.LastIndex(pattern[:globIdx], "/"); sep >= 0 {
		dirPart = pattern[:sep]
		globPart = pattern[sep+1:]
	}

	absDir, err := filepath.Abs(dirPart)
	if err != nil {
		return "", err
	}
	return filepath.Join(absDir, filepath.FromSlash(globPart)), nil
}
