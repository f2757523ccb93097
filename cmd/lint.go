package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/sift/formatter"
	"github.com/gnolang/sift/internal"
	"github.com/gnolang/sift/internal/rule"
	"github.com/gnolang/sift/internal/store"
	tt "github.com/gnolang/sift/internal/types"
	"github.com/gnolang/sift/lint"
)

// lintOptions holds the lint flags.
type lintOptions struct {
	format      string
	outPath     string
	jobs        int
	ignoreRules string
	ignorePaths string
	cacheDir    string
	cacheMaxAge time.Duration
	clearCache  bool
	recordPath  string
	noProgress  bool

	// stdinName is the file name reported for source read from stdin.
	stdinName string
	stdin     io.Reader
}

var lintOpts lintOptions

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Lint files and directories",
	Long:  "Lint files and directories. A single \"-\" lints the source read from stdin.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := withTimeout(cmd)
		defer cancel()

		lintOpts.stdin = cmd.InOrStdin()

		config, err := lint.Resolve(cfgFile, rulesFile)
		if err != nil {
			return err
		}

		n, err := runLint(ctx, logger, cmd.OutOrStdout(), config, args, lintOpts)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrIssuesFound
		}
		return nil
	},
}

func init() {
	lintCmd.Flags().StringVarP(&lintOpts.format, "format", "f", string(formatter.FormatText), "Output format: text, snippet, json or table")
	lintCmd.Flags().StringVarP(&lintOpts.outPath, "output", "o", "", "Write the report to this file instead of stdout")
	lintCmd.Flags().IntVarP(&lintOpts.jobs, "jobs", "j", 0, "Number of files linted at once (default one per CPU)")
	lintCmd.Flags().StringVar(&lintOpts.ignoreRules, "ignore", "", "Comma-separated list of rule types to ignore")
	lintCmd.Flags().StringVar(&lintOpts.ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
	lintCmd.Flags().StringVar(&lintOpts.cacheDir, "cache", "", "Directory caching results between runs")
	lintCmd.Flags().DurationVar(&lintOpts.cacheMaxAge, "cache-max-age", 0, "Age after which cached results are recomputed (default 24h)")
	lintCmd.Flags().BoolVar(&lintOpts.clearCache, "clear-cache", false, "Drop every cached result before linting")
	lintCmd.Flags().StringVar(&lintOpts.stdinName, "stdin-filename", "stdin.cpp", "File name reported when linting stdin")
	lintCmd.Flags().StringVar(&lintOpts.recordPath, "record", "", "SQLite database recording the run")
	lintCmd.Flags().BoolVar(&lintOpts.noProgress, "no-progress", false, "Hide the progress bar")
}

// runLint lints paths and writes the report. It returns the number of
// issues found.
func runLint(ctx context.Context, logger *zap.Logger, w io.Writer, config lint.Config, paths []string, o lintOptions) (int, error) {
	format, err := formatter.ParseFormat(o.format)
	if err != nil {
		return 0, err
	}

	engine := lint.New(logger, config)
	for _, name := range splitFlag(o.ignoreRules) {
		engine.IgnoreRule(name)
	}

	opts := lint.Options{
		Jobs:        o.jobs,
		Extensions:  config.Extensions,
		IgnorePaths: append(append([]string(nil), config.IgnorePaths...), splitFlag(o.ignorePaths)...),
		Progress:    !o.noProgress,
	}

	start := time.Now()
	var (
		issues  []tt.Issue
		files   int
		lintErr error
		load    = formatter.SourceLoader(tt.ReadSourceFile)
	)
	if len(paths) == 1 && paths[0] == "-" {
		name, content, err := readStdin(o)
		if err != nil {
			return 0, err
		}
		files = 1
		issues, lintErr = lint.ProcessSource(engine, name, content)
		load = func(filename string) (*tt.SourceFile, error) {
			if filename == name {
				return tt.NewSourceFile(name, content), nil
			}
			return tt.ReadSourceFile(filename)
		}
	} else {
		processor := lint.Processor(lint.ProcessFile)
		if o.cacheDir != "" {
			cache, err := openCache(o, engine.Rules())
			if err != nil {
				return 0, err
			}
			defer func() {
				if err := cache.Save(); err != nil {
					logger.Warn("Error saving cache", zap.String("dir", o.cacheDir), zap.Error(err))
				}
			}()
			processor = lint.Cached(cache, logger, processor)
		}

		collected, err := lint.CollectFiles(paths, opts)
		if err != nil {
			return 0, err
		}
		files = len(collected)
		issues, lintErr = lint.ProcessFiles(ctx, logger, engine, collected, opts, processor)
	}
	if lintErr != nil {
		logger.Error("Error processing files", zap.Error(lintErr))
	}

	if o.recordPath != "" {
		if err := recordRun(ctx, o.recordPath, store.Run{
			StartedAt: start,
			Duration:  time.Since(start),
			Files:     files,
			Issues:    issues,
		}); err != nil {
			logger.Error("Error recording run", zap.String("db", o.recordPath), zap.Error(err))
		}
	}

	if err := writeReport(w, o.outPath, format, issues, load); err != nil {
		return len(issues), err
	}
	return len(issues), lintErr
}

// openCache opens the cache of o.cacheDir for rules, applying
// --cache-max-age and --clear-cache.
func openCache(o lintOptions, rules []rule.Rule) (*internal.Cache, error) {
	cache, err := internal.NewCache(o.cacheDir, internal.RulesKey(rules))
	if err != nil {
		return nil, err
	}
	if o.cacheMaxAge > 0 {
		cache.SetMaxAge(o.cacheMaxAge)
	}
	if o.clearCache {
		cache.InvalidateAll()
	}
	return cache, nil
}

func readStdin(o lintOptions) (string, []byte, error) {
	in := o.stdin
	if in == nil {
		in = os.Stdin
	}
	content, err := io.ReadAll(in)
	if err != nil {
		return "", nil, fmt.Errorf("error reading stdin: %w", err)
	}
	name := o.stdinName
	if name == "" {
		name = "stdin.cpp"
	}
	return name, content, nil
}

func writeReport(w io.Writer, outPath string, format formatter.Format, issues []tt.Issue, load formatter.SourceLoader) error {
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("error creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	return formatter.Write(w, format, issues, load)
}

func recordRun(ctx context.Context, path string, run store.Run) error {
	s, err := store.NewSQLiteStore(path)
	if err != nil {
		return err
	}
	defer s.Close()
	_, err = s.SaveRun(ctx, run)
	return err
}

// withTimeout bounds the command by --timeout. Commands run through the
// root command have no context of their own.
func withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := commandContext(cmd)
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func splitFlag(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
