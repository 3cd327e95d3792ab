package storage

import (
	"context"
	"database/sql"
	"fmt"

	// import the SQLite driver to register it with the database/sql package.
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

type SQLite struct {
	Connection *sql.DB
}

// NewSQLite opens the SQLite file at path, creating it when missing.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	if err = conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return &SQLite{Connection: conn}, nil
}

func (that *SQLite) Init(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS decisions (
		size     INTEGER NOT NULL,
		player   TEXT    NOT NULL,
		board    TEXT    NOT NULL,
		move_row INTEGER NOT NULL,
		move_col INTEGER NOT NULL,
		score    INTEGER NOT NULL,
		PRIMARY KEY (size, player, board)
	)`

	_, err := that.Connection.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("can't create table: %w", err)
	}

	return nil
}

func (that *SQLite) Close() error {
	return that.Connection.Close()
}
