package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	tt "github.com/gnolang/sift/internal/types"
	"github.com/gnolang/sift/lint"
)

var treeCmd = &cobra.Command{
	Use:   "tree [paths...]",
	Short: "Print the scope tree extracted from each file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := lint.Resolve(cfgFile, rulesFile)
		if err != nil {
			return err
		}
		return printTrees(cmd.OutOrStdout(), logger, config, args)
	},
}

func printTrees(w io.Writer, logger *zap.Logger, config lint.Config, paths []string) error {
	files, err := lint.CollectFiles(paths, lint.Options{
		Extensions:  config.Extensions,
		IgnorePaths: config.IgnorePaths,
	})
	if err != nil {
		return err
	}

	engine := lint.New(logger, config)
	for _, path := range files {
		file, err := tt.ReadSourceFile(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\n%s\n", path, engine.Extract(file))
	}
	return nil
}
