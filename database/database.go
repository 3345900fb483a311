package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalallama/proposaldesk/database/db"
	"github.com/lalallama/proposaldesk/model"
	"github.com/lucsky/cuid"
)

type Database struct {
	connString string
	pool       *pgxpool.Pool
}

func NewDatabase(connString string) *Database {
	return &Database{
		connString: connString,
	}
}

func (d *Database) Connect(ctx context.Context) error {
	var err error
	d.pool, err = pgxpool.New(ctx, d.connString)
	if err != nil {
		return err
	}
	return nil
}

func (d *Database) Disconnect() {
	d.pool.Close()
}

func (d *Database) EnsureSchema(ctx context.Context) error {
	_, err := d.pool.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS call_journal (
		id        TEXT PRIMARY KEY,
		operation TEXT NOT NULL,
		resource  TEXT NOT NULL,
		mode      TEXT NOT NULL,
		succeeded BOOLEAN NOT NULL,
		called    TIMESTAMPTZ NOT NULL
	)`)
	return err
}

func (d *Database) AddCall(ctx context.Context, operation model.Operation, resource string, mode model.Mode, succeeded bool) error {
	_, err := d.pool.Exec(ctx, `
	INSERT INTO call_journal (id, operation, resource, mode, succeeded, called) VALUES ($1, $2, $3, $4, $5, $6)`,
		cuid.New(),
		operation,
		resource,
		mode,
		succeeded,
		time.Now().UTC(), // the DB stores timezones and assumes UTC
	)
	if err != nil {
		return err
	}
	return nil
}

func (d *Database) GetRecentCalls(ctx context.Context, limit int) ([]model.Call, error) {
	var calls []model.Call
	rows, err := d.pool.Query(ctx, `
	SELECT
		id,
		operation,
		resource,
		mode,
		succeeded,
		called
	FROM call_journal
	ORDER BY called DESC
	LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}

	raws, err := pgx.CollectRows(rows, pgx.RowToStructByName[db.CallJournal])
	if err != nil {
		return nil, err
	}

	for _, raw := range raws {
		call, err := model.CallFromJournalRow(raw)
		if err != nil {
			return nil, err
		}
		calls = append(calls, *call)
	}

	return calls, nil
}
