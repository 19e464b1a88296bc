package main

import (
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/chirp/internal/initialization"
	"github.com/spf13/cobra"

	_ "github.com/mattn/go-sqlite3"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	Args:  cobra.NoArgs,
	RunE:  migrate,
}

func migrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	d, err := initialization.OpenDB(cfg.DbUrl)
	if err != nil {
		return err
	}
	defer d.Close()

	if err = initialization.SetupDB(d, cfg.MigrationsFolder, cfg.DbUrl); err != nil {
		return err
	}
	log.Info().Str("db", cfg.DbUrl).Msg("database is up to date")
	return nil
}
