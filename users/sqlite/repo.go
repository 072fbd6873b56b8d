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
	"github.com/akulov/reservd/users"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	login         TEXT NOT NULL UNIQUE,
	role          TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at    INTEGER NOT NULL
);`

var _ users.Repo = (*Repo)(nil)

// Repo implements the principal store over a single SQLite file. The same
// file is what the backup rotator snapshots.
type Repo struct {
	db *sql.DB
}

// Open opens (creating if needed) the users database at path and ensures the
// schema exists.
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

func (r *Repo) Insert(ctx context.Context, user *users.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, login, role, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Login, user.Role, user.PasswordHash, user.CreatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicateLogin
		}
		return apperrors.Wrapf(err, "insert user")
	}
	return nil
}

func (r *Repo) GetByLogin(ctx context.Context, login string) (*users.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, login, role, password_hash, created_at FROM users WHERE login = ?`, login)

	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, apperrors.Wrapf(err, "get user by login")
	}
	return user, nil
}

func (r *Repo) List(ctx context.Context) ([]*users.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, login, role, password_hash, created_at FROM users ORDER BY created_at, login`)
	if err != nil {
		return nil, apperrors.Wrapf(err, "list users")
	}
	defer rows.Close()

	var list []*users.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, apperrors.Wrapf(err, "scan user")
		}
		list = append(list, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrapf(err, "list users")
	}
	return list, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*users.User, error) {
	var u users.User
	var createdAt int64
	if err := row.Scan(&u.ID, &u.Login, &u.Role, &u.PasswordHash, &createdAt); err != nil {
		return nil, err
	}
	u.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &u, nil
}

// isUniqueViolation detects the SQLite unique-constraint failure raised on a
// duplicate login.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
