package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/sift/formatter"
	"github.com/gnolang/sift/internal"
	tt "github.com/gnolang/sift/internal/types"
	"github.com/gnolang/sift/lint"
	"github.com/gnolang/sift/scanner"
)

var watchFormat string

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Re-lint files as they change",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"."}
		}
		format, err := formatter.ParseFormat(watchFormat)
		if err != nil {
			return err
		}
		config, err := lint.Resolve(cfgFile, rulesFile)
		if err != nil {
			return err
		}

		w, err := newWatcher(logger, cmd.OutOrStdout(), config, format, args)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
		defer stop()
		logger.Info("watching", zap.Strings("dirs", args))
		return w.Run(ctx)
	},
}

func init() {
	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", string(formatter.FormatText), "Output format: text, snippet, json or table")
}

// newWatcher builds a watcher reporting the issues of each changed file to
// out. Reports are serialized since events may arrive back to back.
func newWatcher(logger *zap.Logger, out io.Writer, config lint.Config, format formatter.Format, dirs []string) (*internal.Watcher, error) {
	engine := lint.New(logger, config)
	filter := scanner.New(".", config.Extensions...).Ignore(config.IgnorePaths...)

	var mu sync.Mutex
	report := func(filename string, issues []tt.Issue) {
		mu.Lock()
		defer mu.Unlock()
		if len(issues) == 0 {
			fmt.Fprintf(out, "%s: no issues\n", filename)
			return
		}
		if err := formatter.Write(out, format, issues, tt.ReadSourceFile); err != nil {
			logger.Error("Error writing report", zap.String("file", filename), zap.Error(err))
		}
	}
	return internal.NewWatcher(engine, logger, dirs, filter.Accept, report)
}
