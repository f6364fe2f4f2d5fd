package querybuilder

import (
	"reflect"
	"testing"
)

func TestSelect_ActivePlayers(t *testing.T) {
	query, args, err := Select("id", "name").
		From("players").
		Where(Eq("draft_id", int64(7)), NotEq("drafted_by", "REMOVED")).
		OrderBy("rank ASC", "id ASC").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	want := "SELECT id, name FROM players WHERE draft_id = $1 AND drafted_by <> $2 ORDER BY rank ASC, id ASC"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if !reflect.DeepEqual(args, []any{int64(7), "REMOVED"}) {
		t.Fatalf("unexpected args: %#v", args)
	}
}

func TestSelect_RequiresTableAndColumns(t *testing.T) {
	if _, _, err := Select().From("players").ToSQL(); err == nil {
		t.Fatalf("expected error without columns")
	}
	if _, _, err := Select("id").ToSQL(); err == nil {
		t.Fatalf("expected error without table")
	}
}

func TestInsert_ChunkWithUpsert(t *testing.T) {
	query, args, err := InsertInto("players").
		Columns("id", "name").
		Values(int64(1), "a").
		Values(int64(2), "b").
		Suffix(OnConflictUpdate("id", []string{"id", "name"})).
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	want := "INSERT INTO players (id, name) VALUES ($1, $2), ($3, $4) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if !reflect.DeepEqual(args, []any{int64(1), "a", int64(2), "b"}) {
		t.Fatalf("unexpected args: %#v", args)
	}
}

func TestInsert_RowWidthMismatch(t *testing.T) {
	_, _, err := InsertInto("teams").Columns("name", "captain").Values("only-name").ToSQL()
	if err == nil {
		t.Fatalf("expected error for short row")
	}
}

func TestUpdate_SoftDelete(t *testing.T) {
	query, args, err := Update("players").
		Set("drafted_by", "REMOVED").
		SetNull("team_id").
		SetExpr("name", "TRIM(?)", " Ann ").
		Where(Eq("id", int64(3)), Expr("draft_id = ? AND drafted_by <> ?", int64(1), "REMOVED")).
		Returning("id", "name").
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	want := "UPDATE players SET drafted_by = $1, team_id = NULL, name = TRIM($2) WHERE id = $3 AND draft_id = $4 AND drafted_by <> $5 RETURNING id, name"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 5 || args[1] != " Ann " || args[4] != "REMOVED" {
		t.Fatalf("unexpected args: %#v", args)
	}

	if _, _, err := Update("players").Where(Eq("id", 1)).ToSQL(); err == nil {
		t.Fatalf("expected error for empty set list")
	}
}

func TestDelete_RequiresCondition(t *testing.T) {
	query, args, err := DeleteFrom("teams").
		Where(Eq("id", int64(3)), Eq("draft_id", int64(1))).
		Returning("id").
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	want := "DELETE FROM teams WHERE id = $1 AND draft_id = $2 RETURNING id"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %#v", args)
	}

	if _, _, err := DeleteFrom("teams").ToSQL(); err == nil {
		t.Fatalf("expected error for unconditional delete")
	}
}

func TestExpr_SurplusPlaceholdersStayLiteral(t *testing.T) {
	query, args, err := Select("id").From("players").Where(Expr("name LIKE ? OR note = '?'", "A%")).ToSQL()
	if err != nil {
		t.Fatalf("build select: %v", err)
	}
	want := "SELECT id FROM players WHERE name LIKE $1 OR note = '?'"
	if query != want || len(args) != 1 {
		t.Fatalf("unexpected query %q args %#v", query, args)
	}
}
