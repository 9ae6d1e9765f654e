// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bartekus/specgen/cmd/specgen/internal/clierr"
	"github.com/bartekus/specgen/internal/linesource"
	"github.com/bartekus/specgen/internal/projection"
	"github.com/bartekus/specgen/internal/scanner"
	"github.com/bartekus/specgen/internal/watch"
	"github.com/bartekus/specgen/pkg/spec"
)

const stdinTarget = "-"

type extractOptions struct {
	format     string
	out        string
	headerMode string
	pretty     bool
	watch      bool
	failEmpty  bool
}

func newExtractCmd(a *app) *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract <file|dir|->",
		Short: "Extract function specifications from a document",
		Long: `Extract reads a .docx, .md or .txt document and prints one record per
function header it finds. A directory is searched for documents; "-" reads
plain text from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: markdown, json or yaml (default from config)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write output to a file instead of stdout")
	cmd.Flags().StringVar(&opts.headerMode, "header-mode", "", "header rule: lenient or signature (default from config)")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "render markdown for the terminal")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-extract whenever the document changes")
	cmd.Flags().BoolVar(&opts.failEmpty, "fail-empty", false, "exit with status 3 when no specifications are found")

	return cmd
}

func (a *app) runExtract(cmd *cobra.Command, opts *extractOptions, target string) error {
	mode, err := spec.ParseHeaderMode(firstNonEmpty(opts.headerMode, a.cfg.Extract.HeaderMode))
	if err != nil {
		return clierr.Wrap(clierr.ExitUsage, "invalid header mode", err)
	}
	format, err := projection.ParseFormat(firstNonEmpty(opts.format, a.cfg.Output.Format))
	if err != nil {
		return clierr.Wrap(clierr.ExitUsage, "invalid format", err)
	}

	if opts.watch {
		if err := checkWatchTarget(target); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	extractor := spec.Extractor{Mode: mode}

	records, err := a.extractTarget(ctx, cmd.InOrStdin(), target, extractor)
	if err != nil {
		if errors.Is(err, linesource.ErrUnsupportedFormat) {
			return clierr.Wrap(clierr.ExitUsage, "cannot read document", err)
		}
		return err
	}
	if err := emitRecords(cmd.OutOrStdout(), records, format, target, opts); err != nil {
		return err
	}

	if opts.watch {
		return a.watchExtract(cmd, opts, target, extractor, format)
	}

	if len(records) == 0 {
		a.logger.Warn(projection.NoSpecsMessage, zap.String("source", target))
		if opts.failEmpty {
			return clierr.Newf(clierr.ExitNoSpecs, "no specifications found in %s", target)
		}
	}
	return nil
}

// extractTarget reads stdin, a single document or every document below a
// directory, and extracts records in document order.
func (a *app) extractTarget(ctx context.Context, stdin io.Reader, target string, ex spec.Extractor) ([]spec.Record, error) {
	if target == stdinTarget {
		lines, err := linesource.ReadText(stdin)
		if err != nil {
			return nil, err
		}
		return a.extractLines("stdin", lines, ex), nil
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", target, err)
	}
	if !info.IsDir() {
		return a.extractFile(ctx, target, ex)
	}

	docs, err := scanner.New(target).Documents(ctx)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("documents found", zap.String("dir", target), zap.Int("count", len(docs)))

	records := []spec.Record{}
	for _, doc := range docs {
		found, err := a.extractFile(ctx, filepath.Join(target, filepath.FromSlash(doc)), ex)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			a.logger.Warn("skipping document", zap.String("path", doc), zap.Error(err))
			continue
		}
		records = append(records, found...)
	}
	return records, nil
}

func (a *app) extractFile(ctx context.Context, path string, ex spec.Extractor) ([]spec.Record, error) {
	lines, err := linesource.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return a.extractLines(path, lines, ex), nil
}

func (a *app) extractLines(source string, lines []string, ex spec.Extractor) []spec.Record {
	res := ex.Extract(lines)
	a.logger.Debug("extracted",
		zap.String("source", source),
		zap.Int("lines", len(lines)),
		zap.Int("records", len(res.Records)),
		zap.Int("ignored", res.Ignored),
		zap.Ints("ignored_lines", res.IgnoredLines),
	)
	return res.Records
}

func emitRecords(w io.Writer, records []spec.Record, format projection.Format, source string, opts *extractOptions) error {
	if source == stdinTarget {
		source = ""
	}

	var buf bytes.Buffer
	if err := projection.Encode(&buf, records, format, source); err != nil {
		return err
	}

	if opts.out != "" {
		return projection.AtomicWrite(opts.out, buf.Bytes())
	}

	out := buf.String()
	if opts.pretty && format == projection.FormatMarkdown {
		rendered, err := projection.Terminal(out, "", 80)
		if err != nil {
			return err
		}
		out = rendered
	}
	_, err := io.WriteString(w, out)
	return err
}

// checkWatchTarget rejects targets --watch cannot follow.
func checkWatchTarget(target string) error {
	if target == stdinTarget {
		return clierr.New(clierr.ExitUsage, "--watch needs a file, not stdin")
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return clierr.New(clierr.ExitUsage, "--watch needs a file, not a directory")
	}
	return nil
}

func (a *app) watchExtract(cmd *cobra.Command, opts *extractOptions, target string, ex spec.Extractor, format projection.Format) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	w, err := watch.New(target, watch.DefaultDebounce, func(path string) {
		records, err := a.extractFile(ctx, path, ex)
		if err != nil {
			a.logger.Warn("re-extraction failed", zap.String("path", path), zap.Error(err))
			return
		}
		if err := emitRecords(out, records, format, target, opts); err != nil {
			a.logger.Warn("writing output failed", zap.Error(err))
		}
	}, a.logger)
	if err != nil {
		return err
	}
	defer w.Close()

	a.logger.Info("watching for changes", zap.String("path", w.Path()))
	<-ctx.Done()
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
