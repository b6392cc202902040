package dialect

import "strings"

// MySQL renders question mark placeholders.
type MySQL struct{ questionPlaceholder }

func (MySQL) Name() string { return "mysql" }

type questionPlaceholder struct{}

func (questionPlaceholder) Placeholder(_ int) string { return "?" }

// Substitute replaces the Nth "?" with the Nth value, strictly left to right.
// Question marks beyond the last value are kept.
func (questionPlaceholder) Substitute(query string, values []any) string {
	if len(values) == 0 {
		return query
	}
	var b strings.Builder
	b.Grow(len(query))
	next := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' && next < len(values) {
			b.WriteString(FormatValue(values[next]))
			next++
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (questionPlaceholder) Rebase(query string, _ int) string { return query }
