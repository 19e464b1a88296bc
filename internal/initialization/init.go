// The init package contains functions that setup required dependencies such as the SQLite database.
package initialization

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/golang-migrate/migrate"
	"github.com/golang-migrate/migrate/database/sqlite3"
	_ "github.com/golang-migrate/migrate/source/file"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/chirp/internal/config"
)

// SetupDB creates the database, if it does not yet exist, and applies all remaining migrations.
func SetupDB(db *sql.DB, folder, dbname string) error {
	log.Info().Str("folder", folder).Msg("starting migrations")
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		log.Error().Err(err).Msg("failed to create sqlite3 migration driver")
		return err
	}

	mig, err := migrate.NewWithDatabaseInstance(
		"file://"+folder,
		dbname,
		driver,
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create Migrate object")
		return err
	}

	err = mig.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info().Msg("database is up to date")
		return nil
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to run migrations")
		return err
	}

	log.Info().Msg("migrations applied")
	return nil
}

// OpenDB opens the SQLite database with foreign key enforcement turned on.
func OpenDB(connString string) (*sql.DB, error) {
	sep := "?"
	if strings.Contains(connString, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite3", connString+sep+"_foreign_keys=on")
	if err != nil {
		log.Error().Err(err).Str("connection string", connString).Msg("failed to open database")
		return nil, err
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// InitQueue creates the background job client on top of the application database, installing its tables.
// Queues must be registered before the client is started.
func InitQueue(cfg *config.Configuration, db *sql.DB) (*backlite.Client, error) {
	client, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		Logger:          NewQueueLogger(log.Logger),
		ReleaseAfter:    time.Minute,
		NumWorkers:      cfg.QueueWorkers,
		CleanupInterval: time.Hour,
	})
	if err != nil {
		return nil, err
	}

	if err = client.Install(); err != nil {
		return nil, err
	}
	return client, nil
}
