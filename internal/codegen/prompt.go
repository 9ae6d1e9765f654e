// SPDX-License-Identifier: AGPL-3.0-or-later

package codegen

import (
	"strings"
	"text/template"

	"github.com/bartekus/specgen/pkg/spec"
)

var promptTemplate = template.Must(template.New("prompt").Parse(
	`Write a {{.Language}} function based on the following specification:

Function Name: {{.Record.Name}}
Purpose: {{.Record.Purpose}}
Inputs:
{{range .Record.Inputs}}{{.}}
{{end}}Output: {{.Record.Output}}
Logic:
{{range .Record.Logic}}{{.}}
{{end}}Validation: {{.Record.Validation}}

Return only the {{.Language}} code (with function definition and docstring).
`))

var languageNames = map[string]string{
	"python":     "Python",
	"go":         "Go",
	"golang":     "Go",
	"javascript": "JavaScript",
	"typescript": "TypeScript",
	"java":       "Java",
	"r":          "R",
	"sql":        "SQL",
}

// DisplayLanguage returns the conventional spelling of a language identifier.
func DisplayLanguage(language string) string {
	if name, ok := languageNames[strings.ToLower(language)]; ok {
		return name
	}
	return language
}

// BuildPrompt renders the generation request for rec.
func BuildPrompt(rec spec.Record, language string) string {
	var b strings.Builder
	// The template only ranges over strings; Execute cannot fail.
	_ = promptTemplate.Execute(&b, struct {
		Language string
		Record   spec.Record
	}{
		Language: DisplayLanguage(language),
		Record:   rec,
	})
	return b.String()
}

var fileExtensions = map[string]string{
	"python":     ".py",
	"go":         ".go",
	"golang":     ".go",
	"javascript": ".js",
	"typescript": ".ts",
	"java":       ".java",
	"r":          ".R",
	"sql":        ".sql",
}

// FileExtension returns the source file extension for language, or ".txt".
func FileExtension(language string) string {
	if ext, ok := fileExtensions[strings.ToLower(language)]; ok {
		return ext
	}
	return ".txt"
}
