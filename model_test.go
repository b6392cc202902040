package querybuilder

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/kisielk/sqlstruct"

	"github.com/Mahmoud1478/go-query-builder/dialect"
)

type Audit struct {
	CreatedAt time.Time
}

func TestRecord(t *testing.T) {
	type User struct {
		ID        int `db:"id"`
		FirstName string
		Secret    string `db:"-"`
		password  string
		Audit
	}

	ts := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rec, err := Record(User{ID: 1, FirstName: "Ann", Secret: "x", password: "y", Audit: Audit{CreatedAt: ts}})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	expected := map[string]any{"id": 1, "first_name": "Ann", "created_at": ts}
	if !reflect.DeepEqual(rec, expected) {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestRecordInvalid(t *testing.T) {
	for _, model := range []any{nil, 3, "user", (*struct{ A int })(nil)} {
		_, err := Record(model)
		var invalid *ErrInvalidModel
		if !errors.As(err, &invalid) {
			t.Fatalf("Record(%#v): expected ErrInvalidModel, got %v", model, err)
		}
	}
}

func TestSQLStructConfig(t *testing.T) {
	if sqlstruct.TagName != "db" {
		t.Fatalf("unexpected tag name: %s", sqlstruct.TagName)
	}
	if got := sqlstruct.NameMapper("UserID"); got != "user_id" {
		t.Fatalf("unexpected name mapping: %s", got)
	}
}

func TestUpdateModel(t *testing.T) {
	type Widget struct {
		Name  string
		Price float64 `db:"unit_price"`
	}

	q := New(dialect.Postgres{}).Table("widgets").UpdateModel(Widget{Name: "gear", Price: 2.5}).Where("id", 9)
	sql, args, err := q.ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}
	if sql != "update widgets set name = $1,unit_price = $2 where id = $3" {
		t.Fatalf("unexpected SQL: %s", sql)
	}
	if !reflect.DeepEqual(args, []any{"gear", 2.5, 9}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestInsertModelInvalid(t *testing.T) {
	q := New(dialect.Postgres{}).Table("widgets").InsertModel([]int{1})
	var invalid *ErrInvalidModel
	if !errors.As(q.Err(), &invalid) {
		t.Fatalf("expected ErrInvalidModel, got %v", q.Err())
	}
	if invalid.Type != "[]int" {
		t.Fatalf("unexpected type: %s", invalid.Type)
	}
}
