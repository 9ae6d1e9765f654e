// SPDX-License-Identifier: AGPL-3.0-or-later

package projection

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bartekus/specgen/pkg/spec"
)

// Format is an output encoding for records.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// ParseFormat converts a flag or config value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", "md", FormatMarkdown:
		return FormatMarkdown, nil
	case FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want markdown, json or yaml)", s)
	}
}

// document is the machine-readable envelope for records.
type document struct {
	Source  string        `json:"source,omitempty" yaml:"source,omitempty"`
	Records []spec.Record `json:"records" yaml:"records"`
}

// Encode writes records to w in the given format.
// source, when set, is included in the JSON and YAML envelopes.
func Encode(w io.Writer, records []spec.Record, format Format, source string) error {
	normalized := make([]spec.Record, len(records))
	for i, rec := range records {
		normalized[i] = rec.Normalized()
	}
	doc := document{Source: source, Records: normalized}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatMarkdown, "":
		_, err := io.WriteString(w, RenderRecords(normalized))
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
