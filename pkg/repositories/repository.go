package repositories

import (
	"context"

	"github.com/cbodonnell/snakes/pkg/scores"
)

// Repository is durable storage for the score table.
type Repository interface {
	Close(ctx context.Context) error
	// LoadScores returns the stored table in insertion order.
	LoadScores(ctx context.Context) ([]scores.Entry, error)
	// SaveScores replaces the stored table with entries.
	SaveScores(ctx context.Context, entries []scores.Entry) error
}
