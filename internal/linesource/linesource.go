// SPDX-License-Identifier: AGPL-3.0-or-later

// Package linesource loads a document into the ordered, normalized line
// sequence the extractor consumes.
//
// Supported formats:
//   - .docx: one line per paragraph of word/document.xml
//   - .md, .markdown, .txt, .text: one line per newline-separated line
package linesource

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for file extensions Load cannot read.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Format identifies a document type.
type Format string

const (
	FormatDocx Format = "docx"
	FormatMD   Format = "md"
	FormatTXT  Format = "txt"
)

// DefaultMaxFileSize bounds the documents Load accepts.
const DefaultMaxFileSize = 50 << 20

// Options tunes a Loader.
type Options struct {
	// MaxFileSize is the largest file Load reads (default DefaultMaxFileSize).
	MaxFileSize int64
}

// Loader reads documents from disk.
type Loader struct {
	opts Options
}

// New creates a Loader.
func New(opts Options) *Loader {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	return &Loader{opts: opts}
}

// Load reads the document at path with default options.
func Load(ctx context.Context, path string) ([]string, error) {
	return New(Options{}).Load(ctx, path)
}

// Detect returns the document format based on the file extension.
func Detect(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".docx":
		return FormatDocx, nil
	case ".md", ".markdown":
		return FormatMD, nil
	case ".txt", ".text":
		return FormatTXT, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Supported reports whether Load can read path.
func Supported(path string) bool {
	_, err := Detect(path)
	return err == nil
}

// Load reads the document at path and returns its normalized lines.
func (l *Loader) Load(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format, err := Detect(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > l.opts.MaxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), l.opts.MaxFileSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	switch format {
	case FormatDocx:
		lines, err := ReadDocx(f, info.Size())
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		return lines, nil
	default:
		lines, err := ReadText(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		return lines, nil
	}
}

// ReadText splits r on newlines and normalizes the result.
func ReadText(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var raw []string
	for sc.Scan() {
		raw = append(raw, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning text: %w", err)
	}
	return Normalize(raw), nil
}

// Normalize trims every line and drops the empty ones.
func Normalize(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
