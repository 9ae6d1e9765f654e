// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scanner finds spec documents under a directory.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// Scanner lists files below a root directory.
type Scanner struct {
	root string

	mu           sync.Mutex
	trackedCache []string
}

// New creates a new Scanner for the given root.
func New(root string) *Scanner {
	return &Scanner{root: root}
}

// Root returns the directory the scanner searches.
func (s *Scanner) Root() string {
	return s.root
}

// TrackedFiles returns all files tracked by git, caching the result for the instance lifetime.
// It respects .gitignore implicitly by asking git.
func (s *Scanner) TrackedFiles(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.trackedCache != nil {
		return s.trackedCache, nil
	}

	// -z avoids quoting of unusual file names.
	cmd := exec.CommandContext(ctx, "git", "ls-files", "-z")
	cmd.Dir = s.root
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git ls-files failed: %w", err)
	}

	if len(out) == 0 {
		s.trackedCache = []string{}
		return s.trackedCache, nil
	}

	files := strings.Split(strings.TrimSuffix(string(out), "\x00"), "\x00")
	s.trackedCache = files
	return s.trackedCache, nil
}

// WalkFiles lists every regular file below the root, skipping excluded
// directories. Paths are relative and slash-separated.
func (s *Scanner) WalkFiles(ctx context.Context, excludeDirs []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != s.root && shouldExclude(d.Name(), excludeDirs) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", s.root, err)
	}
	return files, nil
}

// Documents returns the spec documents below the root, relative to it.
// Inside a git work tree only tracked files are considered; otherwise the
// directory is walked.
func (s *Scanner) Documents(ctx context.Context) ([]string, error) {
	opts := FilterOptions{
		ExcludeDirs:       DefaultExcludeDirs(),
		IncludeExtensions: DocumentExtensions(),
	}

	all, err := s.TrackedFiles(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		all, err = s.WalkFiles(ctx, opts.ExcludeDirs)
		if err != nil {
			return nil, err
		}
	}
	return FilterFiles(all, opts), nil
}
