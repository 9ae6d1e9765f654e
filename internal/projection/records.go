// SPDX-License-Identifier: AGPL-3.0-or-later

package projection

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bartekus/specgen/pkg/spec"
)

// NoSpecsMessage is shown when a document yields no records.
const NoSpecsMessage = "No specifications found."

// RenderRecord renders one record as a Markdown section.
func RenderRecord(rec spec.Record) string {
	var b strings.Builder

	b.WriteString(RenderHeader(2, rec.Name))
	b.WriteString(field("Purpose", rec.Purpose))
	b.WriteString("**Inputs:**\n\n")
	b.WriteString(RenderList(rec.Inputs, false))
	b.WriteString("\n")
	b.WriteString(field("Output", rec.Output))
	b.WriteString("**Logic:**\n\n")
	b.WriteString(RenderList(rec.Logic, true))
	b.WriteString("\n")
	b.WriteString(field("Validation", rec.Validation))

	return b.String()
}

// RenderRecords renders a summary table followed by every record.
func RenderRecords(records []spec.Record) string {
	var b strings.Builder

	b.WriteString(RenderHeader(1, "Specifications"))
	if len(records) == 0 {
		b.WriteString(NoSpecsMessage + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.Name,
			strconv.Itoa(len(rec.Inputs)),
			strconv.Itoa(len(rec.Logic)),
		})
	}
	b.WriteString(RenderTable([]string{"Name", "Inputs", "Logic steps"}, rows))
	b.WriteString("\n")

	for _, rec := range records {
		b.WriteString(RenderRecord(rec))
	}
	return b.String()
}

// RenderCode renders generated source for a record as a fenced block.
func RenderCode(name, language, code string) string {
	var b strings.Builder
	b.WriteString(RenderHeader(3, fmt.Sprintf("Generated code for `%s`", name)))
	fmt.Fprintf(&b, "```%s\n%s\n```\n", strings.ToLower(language), strings.TrimRight(code, "\n"))
	return b.String()
}

func field(label, value string) string {
	if value == "" {
		value = "_none_"
	}
	return fmt.Sprintf("**%s:** %s\n\n", label, value)
}
