// SPDX-License-Identifier: AGPL-3.0-or-later

package clierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeOf(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain error", cause, ExitGeneric},
		{"exit error", New(ExitNoSpecs, "no specs"), ExitNoSpecs},
		{"wrapped exit error", fmt.Errorf("outer: %w", Wrap(ExitGenerationFailed, "gen", cause)), ExitGenerationFailed},
		{"zero normalized", New(0, "bad"), ExitGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeOf(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrapf(ExitUsage, cause, "loading %s", "config.yaml")

	assert.Equal(t, "loading config.yaml: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "plain", Wrap(ExitUsage, "plain", nil).Error())
	assert.Equal(t, "n=3", Newf(ExitUsage, "n=%d", 3).Error())
}
