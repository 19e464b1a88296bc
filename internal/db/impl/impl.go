package impl

import (
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/chirp/internal/config"
	"github.com/sidereusnuntius/chirp/internal/db"
)

type dbImpl struct {
	Config config.Configuration
	db     *sql.DB
}

func New(config config.Configuration, d *sql.DB) db.DB {
	return &dbImpl{
		Config: config,
		db:     d,
	}
}

// HandleError takes a database error and returns a higher level error that hides the implementation details
// and can be more easily handled by the calling functions without doing type assertions, checking error codes and
// comparing to sentinel errors.
func (d *dbImpl) HandleError(err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr sqlite3.Error
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return db.ErrNotFound
	case errors.As(err, &sqliteErr) && (sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey):
		return db.ErrConflict
	default:
		log.Error().Err(err).Msg("database error")
		return errors.Join(db.ErrInternal, err)
	}
}

func (d *dbImpl) WithTx(f func(tx *sql.Tx) error) (err error) {
	tx, err := d.db.Begin()
	if err != nil {
		return d.HandleError(err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		} else if err != nil {
			_ = tx.Rollback()
		} else {
			err = d.HandleError(tx.Commit())
		}
	}()

	err = f(tx)
	return
}
