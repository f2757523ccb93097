// Package lint runs the engine over files and directories. It is the entry
// point used by the command line.
package lint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnolang/sift/internal"
	"github.com/gnolang/sift/internal/rule"
	tt "github.com/gnolang/sift/internal/types"
	"github.com/gnolang/sift/scanner"
)

type LintEngine interface {
	Run(filePath string) ([]tt.Issue, error)
	RunSource(filename string, source []byte) ([]tt.Issue, error)
	IgnoreRule(rule string)
}

// Processor lints a single file.
type Processor func(LintEngine, string) ([]tt.Issue, error)

// Options control how paths are expanded and processed.
type Options struct {
	// Jobs bounds the number of files linted at once; zero means one per CPU.
	Jobs        int
	Extensions  []string
	IgnorePaths []string
	// Progress shows a progress bar on ProgressOut (stderr by default).
	Progress    bool
	ProgressOut io.Writer
}

// New creates an engine running the rules of config.
func New(logger *zap.Logger, config Config) *internal.Engine {
	return internal.NewEngine(logger, rule.NewSet(config.Rules))
}

// CollectFiles expands paths into the files to lint. Directories are
// walked recursively for the configured extensions; files named explicitly
// are always kept. Duplicates are dropped.
func CollectFiles(paths []string, opts Options) ([]string, error) {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = scanner.DefaultExtensions
	}

	seen := make(map[string]bool)
	var files []string
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("error accessing %s: %w", path, err)
		}
		found, err := scanner.New(path, exts...).Ignore(opts.IgnorePaths...).Scan()
		if err != nil {
			return nil, fmt.Errorf("error scanning %s: %w", path, err)
		}
		for _, f := range found {
			if !seen[f.Path] {
				seen[f.Path] = true
				files = append(files, f.Path)
			}
		}
	}
	return files, nil
}

// ProcessFiles lints every file under paths and returns the issues in file
// order. A file that fails to lint does not stop the others; its error is
// returned along with the issues of the rest. When ctx is done the issues
// found so far are returned with the context error.
func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	paths []string,
	opts Options,
	processor Processor,
) ([]tt.Issue, error) {
	files, err := CollectFiles(paths, opts)
	if err != nil {
		if logger != nil {
			logger.Error("Error collecting files", zap.Strings("paths", paths), zap.Error(err))
		}
		return nil, err
	}
	return processFiles(ctx, logger, engine, files, opts, processor)
}

// ProcessPath lints a single file or directory.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	path string,
	opts Options,
	processor Processor,
) ([]tt.Issue, error) {
	return ProcessFiles(ctx, logger, engine, []string{path}, opts, processor)
}

func processFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	files []string,
	opts Options,
	processor Processor,
) ([]tt.Issue, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Now()

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	out := opts.ProgressOut
	if out == nil {
		out = os.Stderr
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetVisibility(opts.Progress),
		progressbar.OptionSetDescription("linting"),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	// one slot per file keeps the output order independent of scheduling
	results := make([][]tt.Issue, len(files))
	failures := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, fp := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fileIssues, err := processor(engine, fp)
			if err != nil {
				logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
				failures[i] = fmt.Errorf("error linting %s: %w", fp, err)
			} else {
				results[i] = fileIssues
			}
			_ = bar.Add(1)
			return nil
		})
	}
	waitErr := g.Wait()
	_ = bar.Finish()

	issues := make([]tt.Issue, 0)
	for _, r := range results {
		issues = append(issues, r...)
	}

	logger.Info("Ran in",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("files", len(files)),
		zap.Int("issues", len(issues)),
	)

	if err := ctx.Err(); err != nil {
		return issues, err
	}
	if waitErr != nil {
		return issues, waitErr
	}
	return issues, errors.Join(failures...)
}

func ProcessFile(engine LintEngine, filePath string) ([]tt.Issue, error) {
	return engine.Run(filePath)
}

// ProcessSource lints source that has no file on disk, such as stdin.
func ProcessSource(engine LintEngine, filename string, source []byte) ([]tt.Issue, error) {
	return engine.RunSource(filename, source)
}

// Cached wraps a processor so that files whose content and rules did not
// change reuse their previous issues.
func Cached(cache *internal.Cache, logger *zap.Logger, processor Processor) Processor {
	return func(engine LintEngine, filePath string) ([]tt.Issue, error) {
		if issues, ok := cache.Get(filePath); ok {
			return issues, nil
		}
		issues, err := processor(engine, filePath)
		if err != nil {
			return nil, err
		}
		if err := cache.Set(filePath, issues); err != nil && logger != nil {
			logger.Warn("Error caching issues", zap.String("file", filePath), zap.Error(err))
		}
		return issues, nil
	}
}
