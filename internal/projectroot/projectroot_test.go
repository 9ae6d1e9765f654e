// SPDX-License-Identifier: AGPL-3.0-or-later

package projectroot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkdirs(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		require.NoError(t, os.MkdirAll(p, 0o755))
	}
}

func TestFind(t *testing.T) {
	base, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	project := filepath.Join(base, "project")
	nested := filepath.Join(project, "docs", "specs")
	submodule := filepath.Join(project, "vendor", "lib")
	mkdirs(t,
		filepath.Join(project, ".specgen"),
		filepath.Join(project, ".git"),
		nested,
		filepath.Join(submodule, ".git"),
	)

	tests := []struct {
		name  string
		start string
		want  string
	}{
		{"at root", project, project},
		{"nested directory", nested, project},
		{"specgen marker beats closer git", submodule, project},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Find(tt.start)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFind_GitOnly(t *testing.T) {
	base, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	repo := filepath.Join(base, "repo")
	mkdirs(t, filepath.Join(repo, ".git"), filepath.Join(repo, "a", "b"))

	got, err := Find(filepath.Join(repo, "a", "b"))
	require.NoError(t, err)
	assert.Equal(t, repo, got)
}
