// SPDX-License-Identifier: AGPL-3.0-or-later
package projection

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/bartekus/specgen/internal/testutil/golden"
	"github.com/bartekus/specgen/pkg/spec"
)

var sample = []spec.Record{
	{
		Name:       "calculatepremium",
		Purpose:    "computes premium",
		Inputs:     []string{"age", "sum assured"},
		Output:     "premium amount",
		Logic:      []string{"look up rate table", "multiply by sum assured"},
		Validation: "age must be positive",
	},
	{Name: "anotherfunc", Purpose: "does nothing"},
}

func TestAtomicWrite(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "out", "specs.md")
	content := []byte("hello world")

	if err := AtomicWrite(target, content); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("got %q, want %q", got, content)
	}

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestRenderRecords_Golden(t *testing.T) {
	dir := golden.TestdataDir(t)
	golden.Assert(t, dir, "records", RenderRecords(sample))
	golden.Assert(t, dir, "empty", RenderRecords(nil))
}

func TestRenderTable_EscapesPipes(t *testing.T) {
	got := RenderTable([]string{"Name"}, [][]string{{"a|b"}})
	assert.Equal(t, "| Name |\n| --- |\n| a\\|b |\n", got)
}

func TestRenderList(t *testing.T) {
	assert.Equal(t, "- a\n- b\n", RenderList([]string{"a", "b"}, false))
	assert.Equal(t, "1. a\n2. b\n", RenderList([]string{"a", "b"}, true))
	assert.Equal(t, "_none_\n", RenderList(nil, true))
}

func TestRenderCode(t *testing.T) {
	got := RenderCode("fn", "Python", "def fn():\n    pass\n\n")
	assert.Equal(t, "### Generated code for `fn`\n\n```python\ndef fn():\n    pass\n```\n", got)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"":         FormatMarkdown,
		"md":       FormatMarkdown,
		"Markdown": FormatMarkdown,
		"json":     FormatJSON,
		"yml":      FormatYAML,
		"yaml":     FormatYAML,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("html")
	require.Error(t, err)
}

func TestEncode_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sample, FormatJSON, "spec.docx"))

	var doc struct {
		Source  string        `json:"source"`
		Records []spec.Record `json:"records"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "spec.docx", doc.Source)
	require.Len(t, doc.Records, 2)
	assert.True(t, sample[0].Equal(doc.Records[0]))
	// Absent sections are encoded as empty lists, never null.
	assert.Contains(t, buf.String(), `"inputs": []`)
	assert.NotContains(t, buf.String(), "null")
}

func TestEncode_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sample, FormatYAML, ""))

	var doc struct {
		Records []spec.Record `yaml:"records"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Records, 2)
	assert.Equal(t, []string{"look up rate table", "multiply by sum assured"}, doc.Records[0].Logic)
	assert.NotContains(t, buf.String(), "source:")
}

func TestEncode_EmptyJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, nil, FormatJSON, ""))
	assert.JSONEq(t, `{"records":[]}`, buf.String())
}

func TestEncode_Markdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sample, FormatMarkdown, ""))
	assert.Equal(t, RenderRecords(sample), buf.String())
}

func TestTerminal_PlainStyle(t *testing.T) {
	out, err := Terminal(RenderRecord(sample[0]), "notty", 80)
	require.NoError(t, err)
	assert.Contains(t, out, "calculatepremium")
	assert.Contains(t, strings.Join(strings.Fields(out), " "), "look up rate table")
}
