package cmd

import (
	"context"
	"errors"
	"fmt"

	"quiz-manager/feature/integrity"
	"quiz-manager/feature/integrity/checks"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on the services Quiz Manager depends on",
	Long:  `Checks that the quiz backend is reachable, the backup bucket is laid out and the attempt history schema matches.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, true, true)
	},
}

var backendCheckCmd = &cobra.Command{
	Use:   "backend",
	Short: "Probe the quiz backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false, false)
	},
}

var storageCheckCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check and fix the backup bucket layout",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true, false)
	},
}

var databaseCheckCmd = &cobra.Command{
	Use:   "database",
	Short: "Check the attempt history schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, false, true)
	},
}

func init() {
	storageCheckCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create missing folders")
	integrityCmd.AddCommand(backendCheckCmd, storageCheckCmd, databaseCheckCmd)
	RootCmd.AddCommand(integrityCmd)
}

func runIntegrityChecks(ctx context.Context, backend, store, db bool) error {
	d, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	l := d.logger
	svc := integrity.NewService(d.client, d.openStorage(ctx), d.cfg.Storage.Bucket, d.cfg.Editor.BackupPrefix, d.openDatabase(), l)

	report := map[string]any{}
	failed := false

	if backend {
		r := svc.CheckBackend(ctx)
		report["backend"] = r
		if r.Reachable {
			l.Info("Backend reachable", zap.Int("quizzes", r.Quizzes), zap.Int64("latency_ms", r.LatencyMs))
		} else {
			l.Error("Backend unreachable", zap.String("error", r.Error))
			failed = true
		}
	}

	if store {
		missing, err := svc.CheckStructure(ctx)
		switch {
		case errors.Is(err, checks.ErrNotConfigured):
			l.Info("Storage check skipped, backups are disabled")
		case err != nil:
			l.Error("Storage check failed", zap.Error(err))
			failed = true
		case len(missing) == 0:
			l.Info("Storage structure is valid")
		case fixFlag:
			if err := svc.FixStructure(ctx, missing); err != nil {
				return fmt.Errorf("failed to fix storage structure: %w", err)
			}
			l.Info("Storage structure fixed", zap.Strings("created", missing))
		default:
			l.Warn("Missing folders detected, run with --fix", zap.Strings("missing", missing))
		}
		report["storage"] = missing
	}

	if db {
		r, err := svc.CheckDatabase()
		switch {
		case errors.Is(err, checks.ErrNotConfigured):
			l.Info("Database check skipped, attempt history is disabled")
		case err != nil:
			l.Error("Database check failed", zap.Error(err))
			failed = true
		default:
			report["database"] = r
			if r.Matched {
				l.Info("Database schema matches", zap.String("driver", r.Driver))
			} else {
				l.Warn("Database schema mismatch", zap.Any("tables", r.Tables), zap.Strings("errors", r.Errors))
				failed = true
			}
		}
	}

	if outputFormat != "text" {
		if err := render(report, func() {}); err != nil {
			return err
		}
	}
	if failed {
		return errors.New("integrity checks failed")
	}
	return nil
}
