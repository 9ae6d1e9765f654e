// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bartekus/specgen/cmd/specgen/internal/clierr"
	"github.com/bartekus/specgen/internal/codegen"
	"github.com/bartekus/specgen/internal/linesource"
	"github.com/bartekus/specgen/internal/projection"
	"github.com/bartekus/specgen/internal/runner"
	"github.com/bartekus/specgen/pkg/spec"
)

type generateOptions struct {
	names       []string
	resume      bool
	provider    string
	model       string
	language    string
	concurrency int
	outDir      string
	headerMode  string
	quiet       bool
	failEmpty   bool
}

func newGenerateCmd(a *app) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate <file>",
		Short: "Generate code for the specifications in a document",
		Long: `Generate extracts records from a document and drafts code for each one.
Records are generated independently; one failure does not stop the others.
Results are kept in the state directory so failed records can be retried
with --resume.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringSliceVarP(&opts.names, "name", "n", nil, "only generate the named records (repeatable; repeated names are addressed as name-2, name-3, ...)")
	cmd.Flags().BoolVar(&opts.resume, "resume", false, "only retry records that failed or were skipped in the last run")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "code generation provider: template or gemini")
	cmd.Flags().StringVar(&opts.model, "model", "", "model name for remote providers")
	cmd.Flags().StringVar(&opts.language, "language", "", "target language")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "j", 0, "parallel generation requests")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", "", "write one source file per record into this directory")
	cmd.Flags().StringVar(&opts.headerMode, "header-mode", "", "header rule: lenient or signature")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "hide the progress bar")
	cmd.Flags().BoolVar(&opts.failEmpty, "fail-empty", false, "exit with status 3 when no records are found")
	cmd.MarkFlagsMutuallyExclusive("name", "resume")

	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command, opts *generateOptions, path string) error {
	ctx := cmd.Context()

	mode, err := spec.ParseHeaderMode(firstNonEmpty(opts.headerMode, a.cfg.Extract.HeaderMode))
	if err != nil {
		return clierr.Wrap(clierr.ExitUsage, "invalid header mode", err)
	}

	lines, err := linesource.Load(ctx, path)
	if err != nil {
		if errors.Is(err, linesource.ErrUnsupportedFormat) {
			return clierr.Wrap(clierr.ExitUsage, "cannot read document", err)
		}
		return err
	}
	records := a.extractLines(path, lines, spec.Extractor{Mode: mode})
	if len(records) == 0 {
		a.logger.Warn(projection.NoSpecsMessage, zap.String("source", path))
		if opts.failEmpty {
			return clierr.Newf(clierr.ExitNoSpecs, "no specifications found in %s", path)
		}
		return nil
	}

	cfg := a.cfg.Codegen
	if opts.provider != "" {
		cfg.Provider = opts.provider
	}
	if opts.model != "" {
		cfg.Model = opts.model
	}
	if opts.language != "" {
		cfg.Language = opts.language
	}
	if opts.concurrency > 0 {
		cfg.Concurrency = opts.concurrency
	}

	gen, err := a.newGenerator(ctx, cfg, a.logger)
	if err != nil {
		return clierr.Wrap(clierr.ExitUsage, "configuring code generation", err)
	}

	total := len(records)
	switch {
	case opts.resume:
		total = -1
	case len(opts.names) > 0:
		total = len(opts.names)
	}
	bar := newProgressBar(cmd, total, opts.quiet)

	r := runner.NewRunner(gen, a.stateStore(), runner.Options{
		Concurrency: cfg.Concurrency,
		Source:      path,
		Progress:    func(runner.RecordResult) { _ = bar.Add(1) },
		Logger:      a.logger,
	})

	var report *runner.Report
	switch {
	case opts.resume:
		report, err = r.Resume(ctx, records)
	case len(opts.names) > 0:
		report, err = r.RunList(ctx, records, opts.names)
	default:
		report, err = r.RunAll(ctx, records)
	}
	_ = bar.Finish()

	if report != nil {
		if werr := a.writeGenerated(cmd, report, opts.outDir, cfg.Language); werr != nil {
			return werr
		}
		a.logger.Info("generation finished",
			zap.String("run_id", report.Run.RunID),
			zap.Int("records", len(report.Results)),
			zap.Int("failed", len(report.Run.Failed)),
			zap.Int("skipped", len(report.Run.Skipped)),
		)
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, runner.ErrRecordNotFound):
		return clierr.Wrap(clierr.ExitUsage, "unknown record", err)
	case errors.Is(err, runner.ErrRunInterrupted):
		return clierr.Wrap(clierr.ExitGeneric, "generation interrupted", err)
	case errors.Is(err, runner.ErrRunFailed):
		return clierr.Wrap(clierr.ExitGenerationFailed, "generation failed", err)
	default:
		return err
	}
}

func (a *app) writeGenerated(cmd *cobra.Command, report *runner.Report, outDir, language string) error {
	out := cmd.OutOrStdout()
	for _, res := range report.Results {
		if res.Status != runner.StatusPass {
			continue
		}
		if outDir == "" {
			if _, err := fmt.Fprintln(out, projection.RenderCode(res.StateKey(), language, res.Code)); err != nil {
				return err
			}
			continue
		}

		target := filepath.Join(outDir, runner.ResultFileName(res.StateKey())+codegen.FileExtension(language))
		if err := projection.AtomicWrite(target, []byte(strings.TrimRight(res.Code, "\n")+"\n")); err != nil {
			return err
		}
		a.logger.Debug("wrote generated code", zap.String("record", res.StateKey()), zap.String("path", target))
	}
	return nil
}

func newProgressBar(cmd *cobra.Command, total int, quiet bool) *progressbar.ProgressBar {
	if quiet {
		return progressbar.DefaultSilent(int64(total))
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("Generating code"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
