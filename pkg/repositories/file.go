package repositories

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cbodonnell/snakes/pkg/scores"
)

// FileRepository keeps the score table in a plain text file with one
// "name wins" record per line.
type FileRepository struct {
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: path,
	}
}

func (r *FileRepository) Path() string {
	return r.path
}

func (r *FileRepository) Close(ctx context.Context) error {
	return nil
}

// LoadScores returns no entries if the file does not exist yet.
func (r *FileRepository) LoadScores(ctx context.Context) ([]scores.Entry, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open score file: %v", err)
	}
	defer f.Close()

	entries, err := scores.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse score file %s: %v", r.path, err)
	}
	return entries, nil
}

// SaveScores rewrites the whole file. The table is written to a temporary
// file in the same directory and renamed over the old one.
func (r *FileRepository) SaveScores(ctx context.Context, entries []scores.Entry) error {
	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary score file: %v", err)
	}
	defer os.Remove(tmp.Name())

	if err := scores.Write(tmp, entries); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary score file: %v", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace score file: %v", err)
	}
	return nil
}
