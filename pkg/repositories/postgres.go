package repositories

import (
	"context"
	"fmt"

	"github.com/cbodonnell/snakes/pkg/log"
	"github.com/cbodonnell/snakes/pkg/scores"
	"github.com/jackc/pgx/v5"
)

type PostgresRepository struct {
	conn *pgx.Conn
}

// NewPostgresRepository connects to connStr and applies the migrations.
// The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string, migrations string) (Repository, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	var username string
	var database string
	err = conn.QueryRow(ctx, "SELECT current_user, current_database()").Scan(&username, &database)
	if err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("unable to query database: %v", err)
	}
	log.Info("Connected to %s as %s", database, username)

	statements, err := readMigrations(migrations)
	if err != nil {
		conn.Close(ctx)
		return nil, err
	}
	for i, migration := range statements {
		if _, err := conn.Exec(ctx, migration); err != nil {
			conn.Close(ctx)
			return nil, fmt.Errorf("failed to execute migration %d: %v", i, err)
		}
	}

	return &PostgresRepository{
		conn: conn,
	}, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	return r.conn.Close(ctx)
}

func (r *PostgresRepository) LoadScores(ctx context.Context) ([]scores.Entry, error) {
	rows, err := r.conn.Query(ctx, "SELECT name, wins FROM scores ORDER BY ordinal")
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

func (r *PostgresRepository) SaveScores(ctx context.Context, entries []scores.Entry) error {
	tx, err := r.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM scores"); err != nil {
		return fmt.Errorf("failed to clear scores: %v", err)
	}

	batch := &pgx.Batch{}
	for i, e := range entries {
		batch.Queue("INSERT INTO scores (ordinal, name, wins) VALUES ($1, $2, $3)", i, e.Name, e.Wins)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert scores: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}
