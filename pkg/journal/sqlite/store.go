package sqlite

import (
	"codeberg.org/miketth/layoutcast/pkg/journal"
	"codeberg.org/miketth/layoutcast/pkg/journal/sqlite/migrations"
	"codeberg.org/miketth/layoutcast/pkg/layout"
	"context"
	"database/sql"
	"fmt"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"time"
)

type Store struct {
	db      *sql.DB
	querier *Queries
}

func NewStore(filename string, log *zap.SugaredLogger) (*Store, error) {
	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := migrations.Migrate(db, log); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{
		db:      db,
		querier: New(db),
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Record(ctx context.Context, entry journal.Entry) error {
	if err := s.querier.InsertTransition(ctx, InsertTransitionParams{
		At:     entry.At.UnixNano(),
		Idx:    int64(entry.Index),
		Layout: string(entry.Layout),
	}); err != nil {
		return fmt.Errorf("sqlite insert: %w", err)
	}

	return nil
}

func (s *Store) Recent(ctx context.Context, limit int) ([]journal.Entry, error) {
	// sqlite treats a negative limit as no limit
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.querier.ListRecentTransitions(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("sqlite select: %w", err)
	}

	ret := make([]journal.Entry, 0, len(rows))
	for _, row := range rows {
		ret = append(ret, journal.Entry{
			At:     time.Unix(0, row.At),
			Index:  byte(row.Idx),
			Layout: layout.LanguageTag(row.Layout),
		})
	}

	return ret, nil
}
