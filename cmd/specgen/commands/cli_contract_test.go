// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLIContract(t *testing.T) {
	cmd := NewRootCmd()
	b := bytes.NewBufferString("")
	cmd.SetOut(b)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	if err != nil {
		t.Fatalf("root command failed: %v", err)
	}

	out := b.String()

	requiredCommands := []string{
		"completion",
		"extract",
		"generate",
		"help",
		"report",
		"reset",
		"serve",
		"version",
	}

	for _, c := range requiredCommands {
		if !strings.Contains(out, c) {
			t.Errorf("expected top-level command %q in root help", c)
		}
	}

	for _, flag := range []string{"--verbose", "--log-json", "--config"} {
		assert.Contains(t, out, flag)
	}
}

func TestCLICommandFlags(t *testing.T) {
	tests := []struct {
		command string
		flags   []string
	}{
		{"extract", []string{"--format", "--out", "--header-mode", "--pretty", "--watch", "--fail-empty"}},
		{"generate", []string{"--name", "--resume", "--provider", "--model", "--concurrency", "--out-dir"}},
		{"report", []string{"--json"}},
		{"serve", []string{"--addr"}},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			cmd := NewRootCmd()
			b := bytes.NewBufferString("")
			cmd.SetOut(b)
			cmd.SetArgs([]string{tt.command, "--help"})
			require.NoError(t, cmd.Execute())

			out := b.String()
			assert.Contains(t, out, "Usage:")
			for _, flag := range tt.flags {
				assert.Contains(t, out, flag)
			}
		})
	}
}
