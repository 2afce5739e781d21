// Package cli is the operator command line: serve, migrate and tier maintenance.
package cli

import (
	"fmt"
	"os"

	"p2p-lending-backend/internal/config"
	"p2p-lending-backend/internal/infrastructure/db"
	"p2p-lending-backend/internal/infrastructure/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// openDB is swapped in tests.
var openDB = func(cfg *config.Config, log logrus.FieldLogger) (*gorm.DB, error) {
	return db.OpenGorm(cfg.MySQLDSN(), log)
}

var logLevel string

func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "lending",
		Short:         "P2P lending core: lender capital, loans, repayments and tiers",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")

	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(rankCmd())
	return root
}

// Execute runs the root command
func Execute(version string) error {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func loadConfig() (*config.Config, *logrus.Logger) {
	cfg := config.Load()
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, logging.New(cfg.LogLevel)
}

func closeDB(gdb *gorm.DB) {
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
