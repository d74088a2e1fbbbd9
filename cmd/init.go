package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/reduce/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "scaffold a default .reduce.yaml configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		path := cfgFile
		if err := config.Scaffold(path); err != nil {
			logger.Error("error initializing config file", zap.Error(err))
			return
		}
		if path == "" {
			path = config.DefaultFileName
		}
		fmt.Printf("configuration file created: %s\n", path)
	},
}
