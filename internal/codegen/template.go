// SPDX-License-Identifier: AGPL-3.0-or-later

package codegen

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/bartekus/specgen/pkg/spec"
)

// TemplateGenerator renders a deterministic, unimplemented skeleton locally.
// It needs no network access or credentials.
type TemplateGenerator struct {
	language string
	render   func(spec.Record) string
}

// NewTemplateGenerator returns a skeleton generator for language.
func NewTemplateGenerator(language string) (*TemplateGenerator, error) {
	lang := strings.ToLower(language)
	switch lang {
	case "", "python":
		return &TemplateGenerator{language: "python", render: renderPython}, nil
	case "go", "golang":
		return &TemplateGenerator{language: "go", render: renderGo}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}
}

// Generate renders the skeleton for rec.
func (t *TemplateGenerator) Generate(ctx context.Context, rec spec.Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return t.render(rec), nil
}

// Name identifies the provider and language.
func (t *TemplateGenerator) Name() string {
	return "template:" + t.language
}

func renderPython(rec spec.Record) string {
	var b strings.Builder

	params := identifiers(rec.Inputs, snakeCase)
	fmt.Fprintf(&b, "def %s(%s):\n", functionName(rec.Name, snakeCase), strings.Join(params, ", "))
	b.WriteString(`    """`)
	b.WriteString(orDefault(rec.Purpose, rec.Name))
	b.WriteString("\n")
	if len(params) > 0 {
		b.WriteString("\n    Args:\n")
		for i, p := range params {
			fmt.Fprintf(&b, "        %s: %s\n", p, rec.Inputs[i])
		}
	}
	if rec.Output != "" {
		fmt.Fprintf(&b, "\n    Returns:\n        %s\n", rec.Output)
	}
	b.WriteString(`    """` + "\n")
	for i, step := range rec.Logic {
		fmt.Fprintf(&b, "    # %d. %s\n", i+1, step)
	}
	if rec.Validation != "" {
		fmt.Fprintf(&b, "    # Validation: %s\n", rec.Validation)
	}
	b.WriteString("    raise NotImplementedError\n")
	return b.String()
}

func renderGo(rec spec.Record) string {
	var b strings.Builder

	name := functionName(rec.Name, camelCase)
	fmt.Fprintf(&b, "// %s %s\n", name, lowerFirst(orDefault(rec.Purpose, "implements "+rec.Name)))
	if rec.Output != "" {
		fmt.Fprintf(&b, "// It returns %s.\n", rec.Output)
	}
	if rec.Validation != "" {
		fmt.Fprintf(&b, "// Validation: %s\n", rec.Validation)
	}

	params := identifiers(rec.Inputs, camelCase)
	for i := range params {
		params[i] += " any"
	}
	fmt.Fprintf(&b, "func %s(%s) (any, error) {\n", name, strings.Join(params, ", "))
	for i, step := range rec.Logic {
		fmt.Fprintf(&b, "\t// %d. %s\n", i+1, step)
	}
	fmt.Fprintf(&b, "\treturn nil, errors.New(%q)\n}\n", name+": not implemented")
	return b.String()
}

// functionName keeps the identifier part of names written as call signatures.
func functionName(name string, style func([]string) string) string {
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	ident := style(words(name))
	if ident == "" {
		return "generated"
	}
	return ident
}

func identifiers(inputs []string, style func([]string) string) []string {
	out := make([]string, 0, len(inputs))
	for i, in := range inputs {
		ident := style(words(in))
		if ident == "" {
			ident = fmt.Sprintf("arg%d", i)
		}
		out = append(out, ident)
	}
	return out
}

// words splits s on anything that is not a letter or digit.
func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func snakeCase(ws []string) string {
	for i := range ws {
		ws[i] = strings.ToLower(ws[i])
	}
	return leadingLetter(strings.Join(ws, "_"))
}

func camelCase(ws []string) string {
	for i := range ws {
		w := strings.ToLower(ws[i])
		if i > 0 {
			w = upperFirst(w)
		}
		ws[i] = w
	}
	return leadingLetter(strings.Join(ws, ""))
}

func leadingLetter(ident string) string {
	if ident != "" && unicode.IsDigit([]rune(ident)[0]) {
		return "_" + ident
	}
	return ident
}

func upperFirst(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func lowerFirst(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
