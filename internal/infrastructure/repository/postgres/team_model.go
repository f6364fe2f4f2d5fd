package postgres

import "time"

var teamColumns = []string{"id", "draft_id", "name", "captain", "created_at"}

type teamTableModel struct {
	ID        int64     `db:"id"`
	DraftID   int64     `db:"draft_id"`
	Name      string    `db:"name"`
	Captain   string    `db:"captain"`
	CreatedAt time.Time `db:"created_at"`
}

type teamInsertModel struct {
	DraftID int64  `db:"draft_id"`
	Name    string `db:"name"`
	Captain string `db:"captain"`
}
