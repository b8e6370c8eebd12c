package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mverner/inkwell/internal/domain"
	"github.com/mverner/inkwell/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle and exposes the blog's repositories.
type DB struct {
	SqlDB *sql.DB
}

var _ domain.Database = (*DB)(nil)

// New opens a SQLite database at the given path and configures it for use.
// It enables WAL mode and foreign key enforcement; the latter is what makes
// deleting a post cascade to its comments.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// SQLite allows one writer at a time; a single connection keeps
	// writes serialized without busy-retry handling.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// Migrate applies any unapplied schema migrations. Safe to run on every
// startup.
func (d *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, d.SqlDB)
}

// Close closes the underlying database handle.
func (d *DB) Close() error {
	return d.SqlDB.Close()
}

// Users returns the SQLite-backed user repository.
func (d *DB) Users() *UserRepository {
	return NewUserRepository(d)
}

// Posts returns the SQLite-backed post repository.
func (d *DB) Posts() *PostRepository {
	return NewPostRepository(d)
}

// Comments returns the SQLite-backed comment repository.
func (d *DB) Comments() *CommentRepository {
	return NewCommentRepository(d)
}

// isUniqueConstraintError reports whether err is a SQLite unique constraint
// violation. The modernc driver does not export a typed error for this, so
// the message is the only signal available.
func isUniqueConstraintError(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, column)
}
