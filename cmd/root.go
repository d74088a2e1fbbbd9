package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/gnolang/reduce/internal/config"
)

var (
	cfgFile string
	timeout time.Duration

	logger *zap.Logger
	v      = viper.New()
)

var rootCmd = &cobra.Command{
	Use:              "reduce [paths...]",
	Short:            "reduce - shrink a failing Go source tree to a minimal reproduction",
	TraverseChildren: true,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			return
		}
		runCmd.Run(runCmd, args)
	},
}

// Execute runs the root command, the entry point cmd/reduce/main.go calls.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default "+config.DefaultFileName+")")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall timeout for one run")
	config.BindFlags(rootCmd.PersistentFlags())

	cobra.OnInitialize(initConfig)

	var err error
	logger, err = zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
}

func initConfig() {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".reduce")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.AutomaticEnv()
	_ = v.ReadInConfig() // absent config file is not an error; flags and defaults still apply

	bindFlag := func(key, flag string) {
		_ = v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
	}
	bindFlag("extra_args", "extra-args")
	bindFlag("subcommand", "subcommand")
	bindFlag("subcommand_lints", "subcommand-lints")
	bindFlag("env", "env")
	bindFlag("project_dir", "project-dir")
	bindFlag("direct_compiler_mode", "direct-compiler-mode")
	bindFlag("no_verify", "no-verify")
	bindFlag("script_path", "script-path")
	bindFlag("script_path_lints", "script-path-lints")
}
