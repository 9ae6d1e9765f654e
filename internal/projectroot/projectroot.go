// SPDX-License-Identifier: AGPL-3.0-or-later

// Package projectroot locates the directory specgen treats as the project root.
package projectroot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Markers identify a project root, strongest first.
var Markers = []string{".specgen", ".git"}

// Find walks up from start and returns the nearest directory containing a
// marker. A .specgen directory anywhere on the path wins over a closer .git.
// Without any marker it returns start itself, made absolute.
func Find(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}

	for _, marker := range Markers {
		dir, found, err := findUp(abs, marker)
		if err != nil {
			return "", err
		}
		if found {
			return dir, nil
		}
	}
	return abs, nil
}

func findUp(dir, marker string) (string, bool, error) {
	for {
		_, err := os.Stat(filepath.Join(dir, marker))
		if err == nil {
			return dir, true, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("checking %s: %w", filepath.Join(dir, marker), err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}
