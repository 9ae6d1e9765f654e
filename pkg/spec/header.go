// SPDX-License-Identifier: AGPL-3.0-or-later

package spec

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// HeaderMode selects the rule that recognizes the line starting a new record.
type HeaderMode string

const (
	// HeaderLenient treats any single lower-case word that is neither a list
	// item nor a section keyword line as a record name. Stray lower-case words
	// in prose are misread as names under this rule.
	HeaderLenient HeaderMode = "lenient"

	// HeaderSignature only accepts lines that open like a call signature,
	// e.g. "calculate_premium(age, sum_assured)". The whole line is the name.
	HeaderSignature HeaderMode = "signature"
)

const listMarker = "-"

var signaturePattern = regexp.MustCompile(`^[a-zA-Z_]+\(`)

// ParseHeaderMode converts a configuration value to a HeaderMode.
// The empty string selects HeaderLenient.
func ParseHeaderMode(s string) (HeaderMode, error) {
	switch HeaderMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", HeaderLenient:
		return HeaderLenient, nil
	case HeaderSignature:
		return HeaderSignature, nil
	default:
		return "", fmt.Errorf("unknown header mode %q (want %q or %q)", s, HeaderLenient, HeaderSignature)
	}
}

// IsHeader reports whether line starts a new record under mode.
func (m HeaderMode) IsHeader(line string) bool {
	if m == HeaderSignature {
		return signaturePattern.MatchString(line)
	}
	return isLenientHeader(line)
}

func isLenientHeader(line string) bool {
	if line == "" || strings.HasSuffix(line, ":") || strings.HasPrefix(line, listMarker) {
		return false
	}
	if strings.ContainsFunc(line, unicode.IsSpace) {
		return false
	}
	return isLowerCase(line)
}

// isLowerCase requires at least one lower-case rune and no upper- or
// title-case runes. Digits, punctuation and uncased scripts such as CJK may
// appear in a name but never make one on their own, so "123", "_" and "计算"
// are not headers while "计算_v2" is.
func isLowerCase(s string) bool {
	hasLower := false
	for _, r := range s {
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsLower(r) {
			hasLower = true
		}
	}
	return hasLower
}
