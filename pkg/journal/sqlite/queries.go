package sqlite

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

type Transition struct {
	At     int64
	Idx    int64
	Layout string
}

const insertTransition = `insert into transitions (at, idx, layout) values (?, ?, ?)`

type InsertTransitionParams struct {
	At     int64
	Idx    int64
	Layout string
}

func (q *Queries) InsertTransition(ctx context.Context, arg InsertTransitionParams) error {
	_, err := q.db.ExecContext(ctx, insertTransition, arg.At, arg.Idx, arg.Layout)
	return err
}

const listRecentTransitions = `select at, idx, layout from transitions order by id desc limit ?`

func (q *Queries) ListRecentTransitions(ctx context.Context, limit int64) ([]Transition, error) {
	rows, err := q.db.QueryContext(ctx, listRecentTransitions, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Transition
	for rows.Next() {
		var i Transition
		if err := rows.Scan(&i.At, &i.Idx, &i.Layout); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

const dumpTables = `select sql from sqlite_master where type = 'table' and name not like 'sqlite_%' order by name`

func (q *Queries) DumpTables(ctx context.Context) ([]*string, error) {
	return q.dumpStatements(ctx, dumpTables)
}

const dumpRest = `select sql from sqlite_master where type <> 'table' and name not like 'sqlite_%' order by name`

func (q *Queries) DumpRest(ctx context.Context) ([]*string, error) {
	return q.dumpStatements(ctx, dumpRest)
}

func (q *Queries) dumpStatements(ctx context.Context, query string) ([]*string, error) {
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*string
	for rows.Next() {
		var stmt sql.NullString
		if err := rows.Scan(&stmt); err != nil {
			return nil, err
		}
		if stmt.Valid {
			items = append(items, &stmt.String)
		} else {
			items = append(items, nil)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
