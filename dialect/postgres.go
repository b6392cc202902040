package dialect

import (
	"fmt"
	"regexp"
	"strconv"
)

var dollarToken = regexp.MustCompile(`\$[0-9]+`)

// Postgres renders dollar-prefixed, numbered placeholders.
type Postgres struct{}

func (Postgres) Name() string { return "pg" }

func (Postgres) Placeholder(idx int) string { return fmt.Sprintf("$%d", idx) }

// Substitute replaces every whole $N token with the text of values[N-1] in a
// single pass, so "$1" never matches inside "$10" and inlined text is never
// substituted again. Tokens without a matching value are kept.
func (Postgres) Substitute(query string, values []any) string {
	if len(values) == 0 {
		return query
	}
	return dollarToken.ReplaceAllStringFunc(query, func(tok string) string {
		n, err := strconv.Atoi(tok[1:])
		if err != nil || n < 1 || n > len(values) {
			return tok
		}
		return FormatValue(values[n-1])
	})
}

// Rebase adds offset to every $N token.
func (Postgres) Rebase(query string, offset int) string {
	if offset == 0 {
		return query
	}
	return dollarToken.ReplaceAllStringFunc(query, func(tok string) string {
		n, err := strconv.Atoi(tok[1:])
		if err != nil {
			return tok
		}
		return fmt.Sprintf("$%d", n+offset)
	})
}
