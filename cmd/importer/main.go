// Command importer loads plaintext movie catalog lists into the document
// store. It is run offline against a directory of <list>.list or
// <list>.list.gz files.
//
// Commands:
//
//	run      run the import passes (default: all, in canonical order)
//	reset    drop every movie and recreate the name index
//	passes   list pass names in execution order
//	version  print build information
//
// Exit codes: 0 = success, 1 = error or any failed pass.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/mmovies-importer/internal/app"
	"github.com/heartmarshall/mmovies-importer/internal/app/importer"
	"github.com/heartmarshall/mmovies-importer/internal/config"
)

// errPassesFailed signals a completed run with failed passes.
var errPassesFailed = errors.New("pipeline completed with errors")

type runFlags struct {
	passes       []string
	dir          string
	dryRun       bool
	noReset      bool
	importerPath string
	timeout      time.Duration
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "importer",
		Short:         "Import plaintext movie catalog lists into a document store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newResetCmd(), newPassesCmd(), newVersionCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the import passes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runImport(cmd.Context(), f)
		},
	}
	cmd.Flags().StringSliceVar(&f.passes, "pass", nil, "comma-separated passes to run (default: all)")
	cmd.Flags().StringVar(&f.dir, "dir", "", "directory holding the plaintext lists (overrides config)")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "parse lists without writing to the store")
	cmd.Flags().BoolVar(&f.noReset, "no-reset", false, "keep existing movies instead of dropping them first")
	cmd.Flags().StringVar(&f.importerPath, "importer-config", "", "path to importer YAML config file")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 6*time.Hour, "overall run timeout")
	return cmd
}

func runImport(ctx context.Context, f runFlags) error {
	appCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load app config: %v\n", err)
		return err
	}
	logger := app.NewLogger(appCfg.Log, os.Stderr)

	importerCfg, err := importer.LoadConfig(f.importerPath)
	if err != nil {
		logger.Error("load importer config", slog.String("error", err.Error()))
		return err
	}

	// CLI flags override config.
	if f.dir != "" {
		importerCfg.PlaintextDir = f.dir
	}
	if f.dryRun {
		importerCfg.DryRun = true
	}
	if f.noReset {
		importerCfg.Reset = false
	}
	if importerCfg.PlaintextDir == "" {
		err := errors.New("plaintext directory not configured (use --dir or IMPORTER_PLAINTEXT_DIR)")
		logger.Error("invalid importer config", slog.String("error", err.Error()))
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	logger.Info("starting importer",
		slog.String("version", app.BuildVersion()),
		slog.String("store", appCfg.Store.Driver),
		slog.String("dir", importerCfg.PlaintextDir),
		slog.Bool("dry_run", importerCfg.DryRun),
	)

	store, closeStore, err := app.OpenStore(ctx, appCfg, logger)
	if err != nil {
		logger.Error("open store", slog.String("error", err.Error()))
		return err
	}
	defer closeStore()

	pipeline := importer.NewPipeline(logger, store, *importerCfg)
	if err := pipeline.Run(ctx, f.passes); err != nil {
		logger.Error("pipeline failed", slog.String("error", err.Error()))
		return err
	}

	if pipeline.HasErrors() {
		logger.Warn(errPassesFailed.Error())
		return errPassesFailed
	}

	logger.Info("pipeline completed successfully")
	return nil
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Drop every movie and recreate the name index",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			appCfg, err := config.Load()
			if err != nil {
				fmt.Fprintf(os.Stderr, "load app config: %v\n", err)
				return err
			}
			logger := app.NewLogger(appCfg.Log, os.Stderr)

			store, closeStore, err := app.OpenStore(ctx, appCfg, logger)
			if err != nil {
				logger.Error("open store", slog.String("error", err.Error()))
				return err
			}
			defer closeStore()

			if err := importer.NewPipeline(logger, store, importer.Config{}).Reset(ctx); err != nil {
				logger.Error("reset failed", slog.String("error", err.Error()))
				return err
			}
			return nil
		},
	}
}

func newPassesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "passes",
		Short: "List pass names in execution order",
		Run: func(cmd *cobra.Command, _ []string) {
			for _, p := range importer.Passes() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s.list  /%s/\n", p.Name, p.List, p.Guard)
			}
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), app.BuildVersion())
		},
	}
}
