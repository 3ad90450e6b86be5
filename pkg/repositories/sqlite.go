package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cbodonnell/snakes/pkg/scores"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(ctx context.Context, path string, migrations string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	statements, err := readMigrations(migrations)
	if err != nil {
		db.Close()
		return nil, err
	}

	for i, migration := range statements {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute migration %d: %v", i, err)
		}
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) LoadScores(ctx context.Context) ([]scores.Entry, error) {
	q := `
	SELECT name, wins FROM scores ORDER BY ordinal;
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %v", err)
	}
	defer rows.Close()

	var entries []scores.Entry
	for rows.Next() {
		var e scores.Entry
		if err := rows.Scan(&e.Name, &e.Wins); err != nil {
			return nil, fmt.Errorf("failed to scan score: %v", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read scores: %v", err)
	}

	return entries, nil
}

func (r *SQLiteRepository) SaveScores(ctx context.Context, entries []scores.Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM scores;`); err != nil {
		return fmt.Errorf("failed to clear scores: %v", err)
	}

	for i, e := range entries {
		q := `
		INSERT INTO scores (ordinal, name, wins)
		VALUES (?, ?, ?);
		`
		if _, err := tx.ExecContext(ctx, q, i, e.Name, e.Wins); err != nil {
			return fmt.Errorf("failed to insert score for %s: %v", e.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}
