// SPDX-License-Identifier: AGPL-3.0-or-later

package projection

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// Terminal renders Markdown for display in a terminal.
// An empty style picks one from the terminal background; "notty" produces
// plain text suitable for pipes and tests.
func Terminal(markdown, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStylePath(style))
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}

	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
