package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/reduce/internal/config"
	"github.com/gnolang/reduce/internal/interrupt"
	"github.com/gnolang/reduce/internal/oracle"
	"github.com/gnolang/reduce/internal/render"
	"github.com/gnolang/reduce/internal/scan"
	"github.com/gnolang/reduce/internal/scheduler"
	"github.com/gnolang/reduce/internal/watch"
	"github.com/gnolang/reduce/internal/workspace"
)

var watchFlag bool

var runCmd = &cobra.Command{
	Use:   "run <path>",
	Short: "reduce every tracked file under path to a fixpoint",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: please provide a file or directory path")
			os.Exit(1)
		}

		cfg, err := config.Load(v)
		if err != nil {
			logger.Fatal("failed to load config", zap.Error(err))
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		guard := interrupt.NewGuard(cancel)
		guard.Install()
		defer guard.Release()

		if err := runReduce(ctx, logger, cfg, args[0], guard); err != nil {
			logger.Error("reduce run failed", zap.Error(err))
			os.Exit(1)
		}
	},
}

func init() {
	runCmd.Flags().BoolVar(&watchFlag, "watch", false, "re-trigger a sweep when a tracked file changes on disk")
}

func runReduce(ctx context.Context, logger *zap.Logger, cfg *config.Config, root string, guard *interrupt.Guard) error {
	sc := scan.New(root, ".go")
	files, err := sc.Scan()
	if err != nil {
		return fmt.Errorf("scan %s: %w", root, err)
	}
	if len(files) == 0 {
		fmt.Println("no .go files found under", root)
		return nil
	}

	// a single-file root reports its path relative to its own directory,
	// so that directory is the workspace root.
	wsRoot := root
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		wsRoot = filepath.Dir(root)
	}
	ws := workspace.New(wsRoot)

	var o oracle.Oracle = oracle.NewScriptOracle(cfg)
	if cfg.NoVerify {
		o = oracle.NoVerifyOracle{}
	}

	sched := scheduler.New(logger, o, ws, guard)
	paths := scan.Paths(files)

	report, err := sched.RunToFixpoint(ctx, paths)
	if report != nil {
		fmt.Println(render.Summary(report))
		fmt.Println(render.Totals(report))
	}
	if err != nil {
		return err
	}

	if watchFlag {
		return watch.Run(ctx, logger, sched, root, paths)
	}
	return nil
}
