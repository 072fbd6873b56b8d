package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	apperrors "github.com/akulov/reservd/internal/errors"
	"github.com/akulov/reservd/reservations"
)

const schema = `
CREATE TABLE IF NOT EXISTS reservations (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	title      TEXT NOT NULL,
	starts_at  INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);`

var _ reservations.Repo = (*Repo)(nil)

// Repo implements the resource store over a single SQLite file.
type Repo struct {
	db *sql.DB
}

// Open opens (creating if needed) the reservations database at path and
// ensures the schema exists.
func Open(path string) (*Repo, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Repo{db: db}, nil
}

// Close releases the underlying database.
func (r *Repo) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repo) Insert(ctx context.Context, reservation *reservations.Reservation) error {
	if reservation.ID == "" {
		reservation.ID = uuid.New().String()
	}
	if reservation.CreatedAt.IsZero() {
		reservation.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reservations (id, user_id, title, starts_at, created_at) VALUES (?, ?, ?, ?, ?)`,
		reservation.ID, reservation.UserID, reservation.Title,
		reservation.StartsAt.UTC().UnixMilli(), reservation.CreatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return apperrors.Wrapf(err, "insert reservation")
	}
	return nil
}

func (r *Repo) List(ctx context.Context) ([]*reservations.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, starts_at, created_at FROM reservations ORDER BY created_at, id`)
	if err != nil {
		return nil, apperrors.Wrapf(err, "list reservations")
	}
	defer rows.Close()

	var list []*reservations.Reservation
	for rows.Next() {
		var res reservations.Reservation
		var startsAt, createdAt int64
		if err := rows.Scan(&res.ID, &res.UserID, &res.Title, &startsAt, &createdAt); err != nil {
			return nil, apperrors.Wrapf(err, "scan reservation")
		}
		res.StartsAt = time.UnixMilli(startsAt).UTC()
		res.CreatedAt = time.UnixMilli(createdAt).UTC()
		list = append(list, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrapf(err, "list reservations")
	}
	return list, nil
}
