package querybuilder

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Mahmoud1478/go-query-builder/dialect"
)

func TestExec(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	q := New(dialect.MySQL{}).Table("users").Update(map[string]any{"name": "Alice"}).Where("id", 1)

	mock.ExpectExec(regexp.QuoteMeta("update users set name = ? where id = ?")).
		WithArgs("Alice", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	res, err := Exec(context.Background(), db, q)
	if err != nil {
		t.Fatalf("Exec returned error: %v", err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		t.Fatalf("expected 1 row affected, got %d", n)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestExecInsertModel(t *testing.T) {
	type User struct {
		ID        int    `db:"id"`
		FirstName string `db:"first_name"`
		LastName  string
	}

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	u := &User{1, "Alice", "Smith"}
	q := New(dialect.Postgres{}).Table("users").InsertModel(u)

	mock.ExpectExec(regexp.QuoteMeta("insert into users (first_name,id,last_name) values ($1,$2,$3)")).
		WithArgs(u.FirstName, u.ID, u.LastName).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if _, err := Exec(context.Background(), db, q); err != nil {
		t.Fatalf("Exec returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestExecCompileErrorSkipsDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	q := New(dialect.Postgres{}).Table("users").Delete().Where("id", nil)

	_, err = Exec(context.Background(), db, q)
	var missing *ErrMissingValue
	if !errors.As(err, &missing) {
		t.Fatalf("expected ErrMissingValue, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected database call: %v", err)
	}
}

func TestRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	q := New(dialect.Postgres{}).Table("users").Select("id", "name").WhereIn("id", 1, 2).OrderBy("id")

	rows := sqlmock.NewRows([]string{"id", "name"}).
		AddRow(1, "Alice").
		AddRow(2, "Bob")
	mock.ExpectQuery(regexp.QuoteMeta("select id,name from users where id in($1,$2) order by id asc")).
		WithArgs(1, 2).
		WillReturnRows(rows)

	rs, err := Rows(context.Background(), db, q)
	if err != nil {
		t.Fatalf("Rows returned error: %v", err)
	}
	defer rs.Close()

	var names []string
	for rs.Next() {
		var (
			id   int
			name string
		)
		if err := rs.Scan(&id, &name); err != nil {
			t.Fatalf("scan: %v", err)
		}
		names = append(names, name)
	}
	if err := rs.Err(); err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(names) != 2 || names[0] != "Alice" || names[1] != "Bob" {
		t.Fatalf("unexpected rows: %v", names)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRowsWithPaginatedStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	pages, err := New(dialect.Postgres{}).Table("users").Where("active", true).Paginate(PaginateOptions{Page: 2, PerPage: 5})
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta("select count(*) from users where active = $1")).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	rs, err := Rows(context.Background(), db, pages.Count)
	if err != nil {
		t.Fatalf("Rows returned error: %v", err)
	}
	defer rs.Close()

	var total int
	for rs.Next() {
		if err := rs.Scan(&total); err != nil {
			t.Fatalf("scan: %v", err)
		}
	}
	if total != 12 {
		t.Fatalf("expected 12, got %d", total)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestExecWhereBeforeUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	q := New(dialect.MySQL{}).Table("users").Where("id", 1).Limit(1).Update(map[string]any{"name": "Alice"})

	mock.ExpectExec(regexp.QuoteMeta("update users set name = ? where id = ? limit ?")).
		WithArgs("Alice", 1, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if _, err := Exec(context.Background(), db, q); err != nil {
		t.Fatalf("Exec returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
