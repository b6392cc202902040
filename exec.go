package querybuilder

import (
	"context"
	"database/sql"
	"fmt"
)

// Compiler is anything that compiles to SQL text and bound values.
// *Query and *Condition satisfy it.
type Compiler interface {
	ToSQL() (string, []any, error)
}

// Execer is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Querier is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Exec compiles b and executes it against db. Compile errors are returned
// before the database is touched.
func Exec(ctx context.Context, db Execer, b Compiler) (sql.Result, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("querybuilder: compile: %w", err)
	}
	return db.ExecContext(ctx, query, args...)
}

// Rows compiles b and runs it as a query against db. The caller closes the
// returned rows.
func Rows(ctx context.Context, db Querier, b Compiler) (*sql.Rows, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("querybuilder: compile: %w", err)
	}
	return db.QueryContext(ctx, query, args...)
}

var _ Compiler = Statement{}

// ToSQL returns the already compiled statement, so a Statement can be passed
// to Exec and Rows.
func (s Statement) ToSQL() (string, []any, error) {
	return s.SQL, s.Args, nil
}
