// Package dialect defines how compiled statements spell bound parameters for
// each supported database family.
package dialect

import (
	"fmt"
	"strings"
	"time"
)

// Dialect renders placeholders for one database family.
//
// Placeholder returns the token for the 1-based parameter position. Substitute
// inlines values into a compiled statement, positionally, and exists for
// inspection and tests only: it performs no quoting or escaping. Rebase shifts
// the numbered tokens of an already compiled fragment by offset; dialects
// whose tokens carry no position return the fragment unchanged.
type Dialect interface {
	Name() string
	Placeholder(position int) string
	Substitute(query string, values []any) string
	Rebase(query string, offset int) string
}

// ErrUnknownDialect is returned when a configuration key matches no dialect.
type ErrUnknownDialect struct {
	Name string
}

func (e *ErrUnknownDialect) Error() string {
	return fmt.Sprintf("dialect: unknown dialect %q (known: %s)", e.Name, strings.Join(Names(), ", "))
}

// ByName returns the Dialect matching the provided configuration key.
// Recognized names: "pg"/"postgres"/"postgresql", "mysql" and
// "sqlite"/"sqlite3". Any other value, including empty, is an error.
func ByName(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pg", "postgres", "postgresql":
		return Postgres{}, nil
	case "mysql":
		return MySQL{}, nil
	case "sqlite", "sqlite3":
		return SQLite{}, nil
	default:
		return nil, &ErrUnknownDialect{Name: name}
	}
}

// Names lists the accepted configuration keys.
func Names() []string {
	return []string{"pg", "postgres", "postgresql", "mysql", "sqlite", "sqlite3"}
}

// FormatValue returns the textual form used when a value is inlined by
// Substitute.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
