package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/sift/lint"
)

const defaultTimeout = 5 * time.Minute

// ErrIssuesFound is returned when a lint run reported issues. The caller
// turns it into a non-zero exit status without printing it.
var ErrIssuesFound = errors.New("issues found")

var (
	cfgFile   string
	rulesFile string
	timeout   time.Duration
	verbose   bool
	quiet     bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:              "sift [paths...]",
	Short:            "sift - a style linter for C-family sources",
	TraverseChildren: true, // Prioritize subcommands
	SilenceUsage:     true,
	SilenceErrors:    true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := lint.LoadEnv(); err != nil {
			return err
		}
		l, err := newLogger(verbose, quiet)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// no subcommand
		if len(args) == 0 {
			return cmd.Help()
		}
		// Format: sift [path1 path2 ...] => behaves like the lint subcommand
		return lintCmd.RunE(lintCmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func newLogger(verbose, quiet bool) (*zap.Logger, error) {
	switch {
	case quiet:
		return zap.NewNop(), nil
	case verbose:
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to the configuration file (default .sift.yaml)")
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules", "", "Path to a rules file overriding the configured rules")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "Set a timeout for the linter")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Disable logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)
}
