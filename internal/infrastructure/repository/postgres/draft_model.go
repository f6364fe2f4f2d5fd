package postgres

import (
	"database/sql"
	"time"
)

var draftColumns = []string{"id", "name", "description", "created_at"}

type draftTableModel struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	CreatedAt   time.Time      `db:"created_at"`
}

type draftInsertModel struct {
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
}
