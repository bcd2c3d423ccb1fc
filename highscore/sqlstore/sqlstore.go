package sqlstore

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq" // Import pq driver.

	"github.com/battlesnakeio/gravitysnake/config"
	"github.com/battlesnakeio/gravitysnake/highscore"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const migrations = `
CREATE TABLE IF NOT EXISTS high_scores (
	key VARCHAR(255) PRIMARY KEY,
	score INTEGER NOT NULL,
	updated TIMESTAMP DEFAULT now()
);
`

// NewSQLStore returns a new store using a postgres database.
func NewSQLStore(url string) (*Store, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	if err = db.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "unable to connect")
	}

	_, err = db.ExecContext(ctx, migrations)
	if err != nil {
		return nil, errors.Wrap(err, "unable to migrate")
	}
	return &Store{db: db}, nil
}

// Store represents an SQL store.
type Store struct {
	db *sql.DB
}

// transact is a transaction wrapper, helps avoid failed to close connections.
func (s *Store) transact(
	ctx context.Context, txFunc func(*sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			if rErr := tx.Rollback(); rErr != nil {
				log.WithError(rErr).Error("rollback failed")
			}
			panic(p) // re-throw panic after Rollback
		} else if err != nil {
			if rErr := tx.Rollback(); rErr != nil {
				log.WithError(rErr).Error("rollback failed")
			}
		} else {
			err = tx.Commit()
		}
	}()
	err = txFunc(tx)
	return err
}

// Get returns the score stored under key.
func (s *Store) Get(ctx context.Context, key string) (int, error) {
	r := s.db.QueryRowContext(ctx, `SELECT score FROM high_scores WHERE key=$1`, key)

	var score int
	if err := r.Scan(&score); err != nil {
		if err == sql.ErrNoRows {
			return 0, highscore.ErrNotFound
		}
		return 0, errors.Wrapf(err, "unable to get %s", key)
	}
	return score, nil
}

// Put stores score under key, replacing what was there.
func (s *Store) Put(ctx context.Context, key string, score int) error {
	return s.transact(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO high_scores (key, score, updated) VALUES ($1, $2, now())
		ON CONFLICT (key)
		DO UPDATE SET score=$2, updated=now()`,
			key, score,
		)
		return errors.Wrapf(err, "unable to put %s", key)
	})
}

// PutIfHigher stores score under key if it beats the stored one. The
// conditional upsert locks the row, so concurrent writers cannot lower it.
func (s *Store) PutIfHigher(ctx context.Context, key string, score int) (bool, error) {
	var wrote bool
	err := s.transact(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
		INSERT INTO high_scores (key, score, updated)
		SELECT $1::varchar, $2::integer, now() WHERE $2::integer > 0
		ON CONFLICT (key)
		DO UPDATE SET score=EXCLUDED.score, updated=now()
		WHERE high_scores.score < EXCLUDED.score`,
			key, score,
		)
		if err != nil {
			return errors.Wrapf(err, "unable to put %s", key)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		wrote = n > 0
		return nil
	})
	return wrote, err
}

// List returns every stored score.
func (s *Store) List(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, score FROM high_scores`)
	if err != nil {
		return nil, errors.Wrap(err, "unable to list scores")
	}
	defer rows.Close()

	scores := map[string]int{}
	for rows.Next() {
		var (
			key   string
			score int
		)
		if err := rows.Scan(&key, &score); err != nil {
			return nil, err
		}
		scores[key] = score
	}
	return scores, rows.Err()
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
