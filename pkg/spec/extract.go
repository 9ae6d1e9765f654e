// SPDX-License-Identifier: AGPL-3.0-or-later

package spec

import "strings"

// Section keywords, matched case-insensitively as line prefixes.
const (
	keywordPurpose    = "purpose:"
	keywordInputs     = "inputs:"
	keywordOutput     = "output:"
	keywordLogic      = "logic:"
	keywordValidation = "validation:"
)

// collectMode names the list field that list item lines append to.
type collectMode int

const (
	modeNone collectMode = iota
	modeInputs
	modeLogic
)

// Result is the outcome of one extraction pass.
type Result struct {
	// Records in document order.
	Records []Record
	// Ignored counts lines that contributed nothing.
	Ignored int
	// IgnoredLines holds the zero-based indexes of the ignored lines.
	IgnoredLines []int
}

// Extractor segments normalized document lines into records.
// The zero value uses HeaderLenient. An Extractor holds no state between
// calls and may be used from multiple goroutines.
type Extractor struct {
	Mode HeaderMode
}

// Extract returns one record per header line found in lines, using the
// lenient header rule. It never fails: input without a header yields an
// empty, non-nil slice.
func Extract(lines []string) []Record {
	return Extractor{}.Extract(lines).Records
}

// Extract runs a single pass over lines.
// Lines are expected to be trimmed with empty lines removed.
func (e Extractor) Extract(lines []string) Result {
	mode := e.Mode
	if mode == "" {
		mode = HeaderLenient
	}

	res := Result{Records: []Record{}}
	var (
		current *Record
		collect = modeNone
	)

	finalize := func() {
		if current != nil {
			res.Records = append(res.Records, *current)
			current = nil
		}
	}
	ignore := func(i int) {
		res.Ignored++
		res.IgnoredLines = append(res.IgnoredLines, i)
	}

	for i, line := range lines {
		if mode.IsHeader(line) {
			finalize()
			rec := NewRecord(strings.TrimSpace(line))
			current = &rec
			collect = modeNone
			continue
		}

		// Anything before the first header is discarded.
		if current == nil {
			ignore(i)
			continue
		}

		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, keywordPurpose):
			current.Purpose = remainder(line)
			collect = modeNone
		case strings.HasPrefix(lower, keywordInputs):
			current.Inputs = []string{}
			collect = modeInputs
		case strings.HasPrefix(lower, keywordOutput):
			current.Output = remainder(line)
			collect = modeNone
		case strings.HasPrefix(lower, keywordLogic):
			current.Logic = []string{}
			collect = modeLogic
		case strings.HasPrefix(lower, keywordValidation):
			current.Validation = remainder(line)
			collect = modeNone
		case strings.HasPrefix(line, listMarker) && collect == modeInputs:
			current.Inputs = append(current.Inputs, listItem(line))
		case strings.HasPrefix(line, listMarker) && collect == modeLogic:
			current.Logic = append(current.Logic, listItem(line))
		default:
			ignore(i)
		}
	}
	finalize()

	return res
}

// remainder returns the text after the first colon, trimmed.
func remainder(line string) string {
	_, rest, _ := strings.Cut(line, ":")
	return strings.TrimSpace(rest)
}

// listItem strips list markers and the spaces around them.
func listItem(line string) string {
	return strings.TrimSpace(strings.Trim(line, listMarker+" "))
}
