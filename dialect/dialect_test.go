package dialect

import (
	"errors"
	"testing"
	"time"
)

func TestByNamePostgres(t *testing.T) {
	for _, name := range []string{"pg", "postgres", "PostgreSQL"} {
		d, err := ByName(name)
		if err != nil {
			t.Fatalf("ByName(%q): %v", name, err)
		}
		if _, ok := d.(Postgres); !ok {
			t.Fatalf("expected Postgres for %q, got %T", name, d)
		}
	}
}

func TestByNameQuestionDialects(t *testing.T) {
	d, _ := ByName("mysql")
	if _, ok := d.(MySQL); !ok {
		t.Fatalf("expected MySQL, got %T", d)
	}
	d, _ = ByName("sqlite3")
	if _, ok := d.(SQLite); !ok {
		t.Fatalf("expected SQLite, got %T", d)
	}
}

func TestByNameUnknown(t *testing.T) {
	for _, name := range []string{"", "oracle"} {
		_, err := ByName(name)
		var unknown *ErrUnknownDialect
		if !errors.As(err, &unknown) {
			t.Fatalf("ByName(%q): expected ErrUnknownDialect, got %v", name, err)
		}
		if unknown.Name != name {
			t.Fatalf("unexpected name in error: %q", unknown.Name)
		}
	}
}

func TestPlaceholders(t *testing.T) {
	if got := (Postgres{}).Placeholder(3); got != "$3" {
		t.Fatalf("postgres placeholder: %s", got)
	}
	if got := (MySQL{}).Placeholder(3); got != "?" {
		t.Fatalf("mysql placeholder: %s", got)
	}
	if got := (SQLite{}).Placeholder(1); got != "?" {
		t.Fatalf("sqlite placeholder: %s", got)
	}
}

func TestPostgresSubstitute(t *testing.T) {
	values := make([]any, 10)
	for i := range values {
		values[i] = i + 1
	}
	query := "select * from t where a = $10 and b = $1 and c in($2,$3)"
	want := "select * from t where a = 10 and b = 1 and c in(2,3)"
	if got := (Postgres{}).Substitute(query, values); got != want {
		t.Fatalf("unexpected substitution: %s", got)
	}
}

func TestPostgresSubstituteDoesNotRescan(t *testing.T) {
	got := (Postgres{}).Substitute("a = $1 and b = $2", []any{"$2", "x"})
	if got != "a = $2 and b = x" {
		t.Fatalf("inlined text was substituted again: %s", got)
	}
}

func TestPostgresSubstituteKeepsUnboundTokens(t *testing.T) {
	got := (Postgres{}).Substitute("a = $1 and b = $2", []any{1})
	if got != "a = 1 and b = $2" {
		t.Fatalf("unexpected substitution: %s", got)
	}
}

func TestQuestionSubstitute(t *testing.T) {
	got := (MySQL{}).Substitute("a = ? and b in(?,?) and c = ?", []any{"x", 1, 2})
	if got != "a = x and b in(1,2) and c = ?" {
		t.Fatalf("unexpected substitution: %s", got)
	}
	if got := (SQLite{}).Substitute("a = ?", []any{"?"}); got != "a = ?" {
		t.Fatalf("unexpected substitution: %s", got)
	}
}

func TestRebase(t *testing.T) {
	if got := (Postgres{}).Rebase("a = $1 and b in($2,$3)", 4); got != "a = $5 and b in($6,$7)" {
		t.Fatalf("unexpected rebase: %s", got)
	}
	if got := (Postgres{}).Rebase("a = $1", 0); got != "a = $1" {
		t.Fatalf("zero offset changed the query: %s", got)
	}
	if got := (MySQL{}).Rebase("a = ?", 4); got != "a = ?" {
		t.Fatalf("mysql rebase changed the query: %s", got)
	}
}

type stringer struct{}

func (stringer) String() string { return "str" }

func TestFormatValue(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	cases := []struct {
		in   any
		want string
	}{
		{nil, "null"},
		{"mahmoud", "mahmoud"},
		{[]byte("raw"), "raw"},
		{0, "0"},
		{1.5, "1.5"},
		{true, "true"},
		{ts, "2024-01-02T03:04:05Z"},
		{stringer{}, "str"},
	}
	for _, c := range cases {
		if got := FormatValue(c.in); got != c.want {
			t.Fatalf("FormatValue(%v)=%q; want %q", c.in, got, c.want)
		}
	}
}
