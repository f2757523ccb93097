package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnolang/sift/lint"
)

var forceInit bool

// initCmd: sift init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new linter configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := initConfigurationFile(cfgFile, forceInit)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created: %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing configuration file")
}

func initConfigurationFile(configurationPath string, force bool) (string, error) {
	if configurationPath == "" {
		configurationPath = lint.DefaultConfigFile
	}

	if !force {
		_, err := os.Stat(configurationPath)
		if err == nil {
			return "", fmt.Errorf("%s already exists, use --force to overwrite it", configurationPath)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}

	if err := lint.WriteConfig(configurationPath, lint.DefaultConfig()); err != nil {
		return "", err
	}
	return configurationPath, nil
}
