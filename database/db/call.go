package db

import "time"

type CallJournal struct {
	ID        string    `db:"id"`
	Operation string    `db:"operation"`
	Resource  string    `db:"resource"`
	Mode      string    `db:"mode"`
	Succeeded bool      `db:"succeeded"`
	Called    time.Time `db:"called"`
}
