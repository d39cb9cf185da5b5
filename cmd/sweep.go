package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"prompt-console/core/config"
	"prompt-console/core/database"
	"prompt-console/core/docstore"
	"prompt-console/core/logger"
	"prompt-console/core/reconcile"
	"prompt-console/core/storage"
	"prompt-console/feature/country"
	"prompt-console/feature/prompt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags shared by all sweep subcommands
	sweepDryRun     bool
	sweepYesConfirm bool
	sweepJSON       bool
	sweepArchive    bool
)

// sweepCmd is the parent command for all reconciliation sweeps.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run reconciliation sweeps over the document store",
	Long: `Sweeps detect and repair orphaned references and drifted counters.

Every sweep runs in one of two modes:
  dry-run: report what would change, write nothing
  apply:   remove orphans and correct counters

Examples:
  # Report only
  sweep likes --dry-run

  # Repair with interactive confirmation
  sweep likes

  # Repair non-interactively, print the JSON summary
  sweep saves --yes --json

  # Repair and archive the summary to object storage
  sweep categories --yes --archive`,
}

var likesSweepCmd = &cobra.Command{
	Use:   "likes",
	Short: "Reconcile prompt likes and the likesCount counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSweep(func(client docstore.Client, l *zap.Logger) reconcile.Spec {
			return prompt.LikesSweep(client, l)
		})
	},
}

var savesSweepCmd = &cobra.Command{
	Use:   "saves",
	Short: "Reconcile prompt saves and the savesCount counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSweep(func(client docstore.Client, l *zap.Logger) reconcile.Spec {
			return prompt.SavesSweep(client, l)
		})
	},
}

var categoriesSweepCmd = &cobra.Command{
	Use:   "categories",
	Short: "Reconcile country category arrays against the category catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSweep(func(client docstore.Client, l *zap.Logger) reconcile.Spec {
			return country.CategorySweep(client)
		})
	},
}

func init() {
	sweepCmd.AddCommand(likesSweepCmd)
	sweepCmd.AddCommand(savesSweepCmd)
	sweepCmd.AddCommand(categoriesSweepCmd)

	sweepCmd.PersistentFlags().BoolVar(&sweepDryRun, "dry-run", false, "Report what would change without writing anything")
	sweepCmd.PersistentFlags().BoolVar(&sweepYesConfirm, "yes", false, "Auto-confirm repairs (non-interactive)")
	sweepCmd.PersistentFlags().BoolVar(&sweepJSON, "json", false, "Print the run summary as JSON to stdout")
	sweepCmd.PersistentFlags().BoolVar(&sweepArchive, "archive", false, "Upload the run summary to object storage")

	RootCmd.AddCommand(sweepCmd)
}

func runSweep(build func(docstore.Client, *zap.Logger) reconcile.Spec) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Connect to the document store
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	client, err := docstore.NewGormClient(db)
	if err != nil {
		return fmt.Errorf("failed to initialize document store: %w", err)
	}
	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("document store unreachable: %w", err)
	}

	spec := build(client, l)
	opts := reconcile.Options{DryRun: sweepDryRun}

	// Repairs mutate the store, so they need a confirmation unless --yes.
	// A declined prompt degrades to a dry-run rather than doing nothing.
	if !opts.DryRun && !confirmSweep(spec.Name) {
		l.Warn("Repair not confirmed, falling back to dry-run")
		opts.DryRun = true
	}

	reporters := reconcile.MultiReporter{reconcile.NewZapReporter(l)}
	if sweepJSON {
		reporters = append(reporters, reconcile.NewJSONReporter(os.Stdout))
	}

	engine := reconcile.NewEngine(client, l, reporters)
	summary, err := engine.Run(ctx, spec, opts)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	if sweepArchive {
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			l.Error("Skipping archive, cannot create storage client", zap.Error(err))
			return nil
		}
		archive := reconcile.NewArchive(store, cfg.Storage.Bucket)
		object, err := archive.Store(ctx, *summary)
		if err != nil {
			l.Error("Failed to archive sweep summary", zap.Error(err))
			return nil
		}
		l.Info("Sweep summary archived",
			zap.String("bucket", cfg.Storage.Bucket),
			zap.String("object", object),
		)
	}

	return nil
}

// confirmSweep prompts the operator before a mutating sweep, or uses --yes.
func confirmSweep(name string) bool {
	if sweepYesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("\n⚠️  The %s sweep will modify the document store. Type 'yes' to confirm: ", name)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
