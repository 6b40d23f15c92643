package querybuilder

import "testing"

func TestSelectWithConditionsAndLimit(t *testing.T) {
	query, args, err := Select("id", "slug").
		From("topics").
		Where(Eq("type", "club"), Expr("metadata->'external'->>'upstream_id' = ?", "133604")).
		OrderBy("slug").
		Limit(5).
		ToSQL()
	if err != nil {
		t.Fatalf("build select: %v", err)
	}

	want := "SELECT id, slug FROM topics WHERE type = $1 AND metadata->'external'->>'upstream_id' = $2 ORDER BY slug LIMIT 5"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 2 || args[0] != "club" || args[1] != "133604" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectInWithEmptySetMatchesNothing(t *testing.T) {
	query, args, err := Select("id").
		From("sync_jobs").
		Where(In("status", nil)).
		ToSQL()
	if err != nil {
		t.Fatalf("build select: %v", err)
	}

	want := "SELECT id FROM sync_jobs WHERE 1=0"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateMixesValuesAndExpressions(t *testing.T) {
	query, args, err := Update("sync_jobs").
		Set("status", "done").
		SetExpr("processed_at", "NOW()").
		Where(Eq("id", int64(42)), Eq("status", "processing")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update: %v", err)
	}

	want := "UPDATE sync_jobs SET status = $1, processed_at = NOW() WHERE id = $2 AND status = $3"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 3 || args[0] != "done" || args[1] != int64(42) || args[2] != "processing" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModelUsesDBTagsAndSuffix(t *testing.T) {
	row := struct {
		Slug   string `db:"slug"`
		Title  string `db:"title"`
		Hidden string `db:"-"`
		none   string `db:"ignored"`
	}{Slug: "arsenal", Title: "Arsenal", Hidden: "x", none: "y"}

	query, args, err := InsertModel("topics", &row, "ON CONFLICT (slug) DO NOTHING")
	if err != nil {
		t.Fatalf("build insert: %v", err)
	}

	want := "INSERT INTO topics (slug, title) VALUES ($1, $2) ON CONFLICT (slug) DO NOTHING"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 2 || args[0] != "arsenal" || args[1] != "Arsenal" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModelRejectsUntaggedStruct(t *testing.T) {
	if _, _, err := InsertModel("topics", struct{ Name string }{"x"}, ""); err == nil {
		t.Fatal("expected error for struct without db tags")
	}
	if _, _, err := InsertModel("topics", (*struct {
		Name string `db:"name"`
	})(nil), ""); err == nil {
		t.Fatal("expected error for nil model")
	}
}
