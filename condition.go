package querybuilder

import (
	"reflect"
	"strings"

	"github.com/Mahmoud1478/go-query-builder/dialect"
)

// fragment is a piece of compiled text together with the values bound by its
// placeholders. The placeholders in sql are numbered consecutively from at.
type fragment struct {
	sql    string
	values []any
	at     int
}

func countValues(list []fragment) int {
	n := 0
	for _, f := range list {
		n += len(f.values)
	}
	return n
}

// placer lays fragments out in the order they appear in the compiled text.
// Every fragment is renumbered to the next free position, so the statement's
// placeholders run consecutively and its values follow the same order no
// matter in which order the builder calls were made.
type placer struct {
	dialect dialect.Dialect
	next    int
	values  []any
}

func (p *placer) place(f fragment) string {
	sql := f.sql
	if len(f.values) > 0 && f.at != p.next {
		sql = p.dialect.Rebase(sql, p.next-f.at)
	}
	p.next += len(f.values)
	p.values = append(p.values, f.values...)
	return sql
}

func (p *placer) placeAll(list []fragment) []string {
	out := make([]string, len(list))
	for i, f := range list {
		out[i] = p.place(f)
	}
	return out
}

// accumulator collects AND-joined and OR-joined predicate fragments together
// with the values bound to their placeholders. Condition, Join and Query all
// compose it.
//
// counter is the next unused 1-based placeholder position and always equals
// start plus the number of values held. Nested builders are seeded with the
// parent's counter and absorbed through merge, which is the only place a
// child advances it.
type accumulator struct {
	dialect dialect.Dialect
	prefix  string
	wheres  []fragment
	ors     []fragment
	start   int
	counter int
	err     error
}

func newAccumulator(d dialect.Dialect, prefix string, start int) accumulator {
	if d == nil {
		d = dialect.Postgres{}
	}
	if start < 1 {
		start = 1
	}
	return accumulator{dialect: d, prefix: prefix, start: start, counter: start}
}

// Err returns the first error recorded by a builder call, if any.
func (a *accumulator) Err() error {
	return a.err
}

func (a *accumulator) fail(err error) {
	if a.err == nil {
		a.err = err
	}
}

// emit wraps sql, numbered from the current counter, and moves the counter
// past its values.
func (a *accumulator) emit(sql string, values ...any) fragment {
	f := fragment{sql: sql, values: values, at: a.counter}
	a.counter += len(values)
	return f
}

// drop gives back the positions of fragments that are being replaced.
func (a *accumulator) drop(list ...fragment) {
	a.counter -= countValues(list)
}

// merge absorbs a compiled child numbered from at. A failed child leaves the
// receiver untouched apart from the recorded error.
func (a *accumulator) merge(at int, sql string, values []any, err error) (fragment, bool) {
	if err != nil {
		a.fail(err)
		return fragment{}, false
	}
	f := fragment{sql: sql, values: values, at: at}
	a.counter += len(values)
	return f, true
}

func (a *accumulator) compare(list *[]fragment, column string, value any, op []string) {
	if value == nil {
		a.fail(NewErrMissingValue(column))
		return
	}
	*list = append(*list, a.emit(column+" "+operator(op)+" "+a.dialect.Placeholder(a.counter), value))
}

func (a *accumulator) compareColumns(list *[]fragment, first, second string, op []string) {
	*list = append(*list, a.emit(first+" "+operator(op)+" "+second))
}

func (a *accumulator) group(list *[]fragment, fn func(*Condition)) {
	c := &Condition{accumulator: newAccumulator(a.dialect, "", a.counter)}
	fn(c)
	sql, values, err := c.ToSQL()
	f, ok := a.merge(c.start, sql, values, err)
	if !ok || f.sql == "" {
		return
	}
	f.sql = "(" + f.sql + ")"
	*list = append(*list, f)
}

func (a *accumulator) in(column string, not bool, values []any) {
	values = expand(values)
	if len(values) == 0 {
		a.fail(NewErrEmptyValueSet(column))
		return
	}
	tokens := make([]string, len(values))
	for i := range values {
		tokens[i] = a.dialect.Placeholder(a.counter + i)
	}
	a.wheres = append(a.wheres, a.emit(column+" "+inKeyword(not)+"("+strings.Join(tokens, ",")+")", values...))
}

func (a *accumulator) inFunc(table, column string, not bool, fn func(*Query)) {
	sub := newQuery(a.dialect, table, a.counter)
	fn(sub)
	sql, values, err := sub.build()
	if f, ok := a.merge(sub.start, sql, values, err); ok {
		f.sql = column + " " + inKeyword(not) + "(" + f.sql + ")"
		a.wheres = append(a.wheres, f)
	}
}

func (a *accumulator) exists(table string, not bool, src any) {
	f, ok := a.resolve(table, src)
	if !ok {
		return
	}
	keyword := "exists"
	if not {
		keyword = "not exists"
	}
	f.sql = keyword + "(" + f.sql + ")"
	a.wheres = append(a.wheres, f)
}

// resolve turns a sub-query source into a compiled fragment and merges its
// values. A string is used verbatim. A *Query may have been built
// independently; it is compiled from its own start and renumbered when the
// fragment is placed, so the query passed in is left unchanged.
func (a *accumulator) resolve(table string, src any) (fragment, bool) {
	switch s := src.(type) {
	case string:
		return a.emit(s), true
	case *Query:
		if s == nil {
			break
		}
		sql, values, err := s.build()
		return a.merge(s.start, sql, values, err)
	case func(*Query):
		if s == nil {
			break
		}
		sub := newQuery(a.dialect, table, a.counter)
		s(sub)
		sql, values, err := sub.build()
		return a.merge(sub.start, sql, values, err)
	}
	a.fail(NewErrInvalidSource(src))
	return fragment{}, false
}

// rebase moves the first placeholder to position count. Fragments keep
// their own numbering and are shifted when placed.
func (a *accumulator) rebase(count int) {
	if count < 1 {
		count = 1
	}
	a.counter += count - a.start
	a.start = count
}

func (a *accumulator) placer() *placer {
	return &placer{dialect: a.dialect, next: a.start}
}

func (a *accumulator) compile(p *placer) string {
	preds := strings.Join(p.placeAll(a.wheres), " and ")
	if len(a.ors) > 0 {
		ors := strings.Join(p.placeAll(a.ors), " or ")
		if preds == "" {
			preds = ors
		} else {
			preds += " or " + ors
		}
	}
	if preds == "" {
		return ""
	}
	return strings.TrimSpace(a.prefix + " " + preds)
}

func (a *accumulator) result(sql string, p *placer) (string, []any, error) {
	if a.err != nil {
		return "", nil, a.err
	}
	return sql, p.values, nil
}

func operator(op []string) string {
	if len(op) > 0 && op[0] != "" {
		return op[0]
	}
	return "="
}

func inKeyword(not bool) string {
	if not {
		return "not in"
	}
	return "in"
}

// expand flattens a single slice argument so WhereIn("id", ids) and
// WhereIn("id", 1, 2, 3) behave the same.
func expand(values []any) []any {
	if len(values) != 1 {
		return values
	}
	rv := reflect.ValueOf(values[0])
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return values
	}
	if _, ok := values[0].([]byte); ok {
		return values
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// Condition is a standalone predicate builder. Used at the root it renders a
// "where ..." clause; inside WhereFunc and OrFunc callbacks it renders a bare
// predicate list that the parent wraps in parentheses.
type Condition struct {
	accumulator
}

// NewCondition returns a root Condition numbering placeholders from 1. A nil
// dialect falls back to Postgres.
func NewCondition(d dialect.Dialect) *Condition {
	return &Condition{accumulator: newAccumulator(d, "where", 1)}
}

// Where adds "column op placeholder" to the AND group. op defaults to "=".
// A nil value records ErrMissingValue; zero values are bound as usual.
func (c *Condition) Where(column string, value any, op ...string) *Condition {
	c.compare(&c.wheres, column, value, op)
	return c
}

// WhereFunc adds a parenthesized group built by fn to the AND group.
func (c *Condition) WhereFunc(fn func(*Condition)) *Condition {
	c.group(&c.wheres, fn)
	return c
}

// Or adds "column op placeholder" to the OR group.
func (c *Condition) Or(column string, value any, op ...string) *Condition {
	c.compare(&c.ors, column, value, op)
	return c
}

// OrFunc adds a parenthesized group built by fn to the OR group.
func (c *Condition) OrFunc(fn func(*Condition)) *Condition {
	c.group(&c.ors, fn)
	return c
}

// WhereColumn compares two columns, binding nothing.
func (c *Condition) WhereColumn(first, second string, op ...string) *Condition {
	c.compareColumns(&c.wheres, first, second, op)
	return c
}

func (c *Condition) OrColumn(first, second string, op ...string) *Condition {
	c.compareColumns(&c.ors, first, second, op)
	return c
}

// WhereIn emits one placeholder per value. An empty list records
// ErrEmptyValueSet.
func (c *Condition) WhereIn(column string, values ...any) *Condition {
	c.in(column, false, values)
	return c
}

func (c *Condition) WhereNotIn(column string, values ...any) *Condition {
	c.in(column, true, values)
	return c
}

// WhereInFunc renders "column in(<sub-select>)" with the sub-select built by fn.
func (c *Condition) WhereInFunc(column string, fn func(*Query)) *Condition {
	c.inFunc("", column, false, fn)
	return c
}

func (c *Condition) WhereNotInFunc(column string, fn func(*Query)) *Condition {
	c.inFunc("", column, true, fn)
	return c
}

// WhereExists accepts a *Query, a func(*Query) or raw SQL text.
func (c *Condition) WhereExists(sub any) *Condition {
	c.exists("", false, sub)
	return c
}

func (c *Condition) WhereNotExists(sub any) *Condition {
	c.exists("", true, sub)
	return c
}

// StartPlaceholderFrom renumbers the condition so its first bound value sits
// at position count.
func (c *Condition) StartPlaceholderFrom(count int) *Condition {
	c.rebase(count)
	return c
}

// ToSQL returns the compiled predicate text and its bound values.
func (c *Condition) ToSQL() (string, []any, error) {
	p := c.placer()
	return c.result(c.compile(p), p)
}

// ToRawSQL inlines the bound values into the compiled text. The values are
// neither quoted nor escaped, so the result is for inspection only.
func (c *Condition) ToRawSQL() (string, error) {
	sql, values, err := c.ToSQL()
	if err != nil {
		return "", err
	}
	return c.dialect.Substitute(sql, values), nil
}
