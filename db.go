// Package querybuilder assembles SQL statements from chained builder calls
// and compiles them into parameterized text plus the ordered bound values.
//
// A DB carries the dialect, resolved once at startup, and hands out fresh
// builders:
//
//	db := querybuilder.New(dialect.Postgres{})
//	sql, args, err := db.Table("users").Where("status", 1).OrderBy("id", "desc").Limit(10).ToSQL()
//	// select * from users where status = $1 order by id desc limit $2
//
// Builders are not safe for concurrent use. Use one per statement.
package querybuilder

import (
	"log/slog"

	"github.com/Mahmoud1478/go-query-builder/dialect"
)

// DB hands out builders bound to a single dialect.
type DB struct {
	dialect dialect.Dialect
	logger  *slog.Logger
}

// Option configures a DB.
type Option func(*DB)

// WithLogger makes every query created by the DB log its compiled text at
// debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(db *DB) {
		db.logger = logger
	}
}

// New returns a DB for the given dialect. A nil dialect falls back to Postgres.
func New(d dialect.Dialect, opts ...Option) *DB {
	if d == nil {
		d = dialect.Postgres{}
	}
	db := &DB{dialect: d}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Dialect returns the dialect the DB was created with.
func (db *DB) Dialect() dialect.Dialect {
	return db.dialect
}

// Table starts "select * from name".
func (db *DB) Table(name string) *Query {
	q := NewQuery(db.dialect, name)
	q.logger = db.logger
	return q
}

// Condition starts a standalone "where" clause.
func (db *DB) Condition() *Condition {
	return NewCondition(db.dialect)
}
