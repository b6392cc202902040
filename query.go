package querybuilder

import (
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/Mahmoud1478/go-query-builder/dialect"
)

// Query builds a complete select, insert, update or delete statement.
//
// Every clause keeps the values it binds. The compiled text places clauses in
// a fixed order and numbers placeholders in that order, so calls may be made
// in any order: Where before Update or Limit before Where still bind the Nth
// value to the Nth placeholder.
//
// The statement kind is set by the last of Select, Insert, Update and Delete.
// Switching kind keeps the columns gathered so far; clauses the final kind
// does not render (insert tuples outside insert, columns of a delete) bind
// nothing.
type Query struct {
	accumulator
	table     string
	kind      Kind
	columns   []fragment
	joins     []fragment
	groupBy   string
	orderBy   []string
	limit     fragment
	offset    fragment
	returning string
	union     fragment
	tuples    []fragment
	logger    *slog.Logger
}

// NewQuery returns "select * from table" numbering placeholders from 1.
func NewQuery(d dialect.Dialect, table string) *Query {
	return newQuery(d, table, 1)
}

func newQuery(d dialect.Dialect, table string, start int) *Query {
	q := &Query{
		accumulator: newAccumulator(d, "where", start),
		table:       table,
		kind:        KindSelect,
	}
	q.columns = []fragment{q.emit("*")}
	return q
}

// Kind reports the statement the query currently compiles to.
func (q *Query) Kind() Kind { return q.kind }

// Table reports the target table.
func (q *Query) Table() string { return q.table }

func (q *Query) From(table string) *Query {
	q.table = table
	return q
}

// Select switches to a select statement over columns, "*" when none given.
func (q *Query) Select(columns ...string) *Query {
	q.kind = KindSelect
	if len(columns) == 0 {
		columns = []string{"*"}
	}
	q.drop(q.columns...)
	q.columns = lo.Map(columns, func(col string, _ int) fragment { return q.emit(col) })
	return q
}

// SelectSub appends a parenthesized sub-select to the column list. src is raw
// SQL text, a *Query or a func(*Query).
func (q *Query) SelectSub(src any, alias string) *Query {
	f, ok := q.resolve(q.table, src)
	if !ok {
		return q
	}
	f.sql = "(" + f.sql + ")"
	if alias != "" {
		f.sql += " as " + alias
	}
	q.columns = append(q.columns, f)
	return q
}

// Update switches to an update statement assigning values in sorted key
// order. The assignments replace the column list and always bind ahead of
// the predicates.
func (q *Query) Update(values map[string]any) *Query {
	if len(values) == 0 {
		q.fail(NewErrEmptyValueSet(q.table))
		return q
	}
	q.kind = KindUpdate
	q.drop(q.columns...)
	q.columns = lo.Map(sortedKeys(values), func(key string, _ int) fragment {
		return q.emit(key+" = "+q.dialect.Placeholder(q.counter), values[key])
	})
	return q
}

// Insert switches to an insert statement and adds one row. Repeated calls add
// further rows; every row is expected to carry the same keys.
func (q *Query) Insert(values map[string]any) *Query {
	if len(values) == 0 {
		q.fail(NewErrEmptyValueSet(q.table))
		return q
	}
	keys := sortedKeys(values)
	q.kind = KindInsert
	q.drop(q.columns...)
	q.columns = lo.Map(keys, func(key string, _ int) fragment { return q.emit(key) })
	tokens := lo.Map(keys, func(_ string, i int) string {
		return q.dialect.Placeholder(q.counter + i)
	})
	row := lo.Map(keys, func(key string, _ int) any { return values[key] })
	q.tuples = append(q.tuples, q.emit("("+strings.Join(tokens, ",")+")", row...))
	return q
}

func (q *Query) Delete() *Query {
	q.kind = KindDelete
	return q
}

// Limit binds n as the row limit. A second call replaces the bound value.
func (q *Query) Limit(n int) *Query {
	q.setSlot(&q.limit, n)
	return q
}

// Offset binds n as the row offset. A second call replaces the bound value.
func (q *Query) Offset(n int) *Query {
	q.setSlot(&q.offset, n)
	return q
}

func (q *Query) setSlot(s *fragment, v any) {
	if s.sql != "" {
		s.values[0] = v
		return
	}
	*s = q.emit(q.dialect.Placeholder(q.counter), v)
}

func (q *Query) GroupBy(columns ...string) *Query {
	q.groupBy = strings.Join(columns, ",")
	return q
}

// OrderBy appends "column direction"; direction defaults to "asc".
func (q *Query) OrderBy(column string, direction ...string) *Query {
	dir := "asc"
	if len(direction) > 0 && direction[0] != "" {
		dir = direction[0]
	}
	q.orderBy = append(q.orderBy, column+" "+dir)
	return q
}

// Returning sets the returning list, "*" when none given.
func (q *Query) Returning(columns ...string) *Query {
	if len(columns) == 0 {
		columns = []string{"*"}
	}
	q.returning = strings.Join(columns, ",")
	return q
}

// Union appends "union <src>" to the statement. src is raw SQL text, a *Query
// or a func(*Query).
func (q *Query) Union(src any) *Query {
	q.drop(q.union)
	q.union = fragment{}
	if f, ok := q.resolve(q.table, src); ok {
		q.union = f
	}
	return q
}

// Join adds "inner join table on first op second".
func (q *Query) Join(table, first, second string, op ...string) *Query {
	return q.joinOn(JoinInner, table, first, second, op)
}

func (q *Query) LeftJoin(table, first, second string, op ...string) *Query {
	return q.joinOn(JoinLeft, table, first, second, op)
}

func (q *Query) RightJoin(table, first, second string, op ...string) *Query {
	return q.joinOn(JoinRight, table, first, second, op)
}

// JoinFunc adds an inner join whose condition is built by fn.
func (q *Query) JoinFunc(table string, fn func(*Join)) *Query {
	return q.join(JoinInner, table, fn)
}

func (q *Query) LeftJoinFunc(table string, fn func(*Join)) *Query {
	return q.join(JoinLeft, table, fn)
}

func (q *Query) RightJoinFunc(table string, fn func(*Join)) *Query {
	return q.join(JoinRight, table, fn)
}

// JoinSub joins "(src) as alias". src is raw SQL text, a *Query or a
// func(*Query).
func (q *Query) JoinSub(src any, alias, first, second string, op ...string) *Query {
	return q.joinSub(JoinInner, src, alias, func(j *Join) { j.On(first, second, op...) })
}

func (q *Query) LeftJoinSub(src any, alias, first, second string, op ...string) *Query {
	return q.joinSub(JoinLeft, src, alias, func(j *Join) { j.On(first, second, op...) })
}

func (q *Query) RightJoinSub(src any, alias, first, second string, op ...string) *Query {
	return q.joinSub(JoinRight, src, alias, func(j *Join) { j.On(first, second, op...) })
}

func (q *Query) JoinSubFunc(src any, alias string, fn func(*Join)) *Query {
	return q.joinSub(JoinInner, src, alias, fn)
}

func (q *Query) LeftJoinSubFunc(src any, alias string, fn func(*Join)) *Query {
	return q.joinSub(JoinLeft, src, alias, fn)
}

func (q *Query) RightJoinSubFunc(src any, alias string, fn func(*Join)) *Query {
	return q.joinSub(JoinRight, src, alias, fn)
}

func (q *Query) joinOn(kind JoinType, table, first, second string, op []string) *Query {
	return q.join(kind, table, func(j *Join) { j.On(first, second, op...) })
}

func (q *Query) joinSub(kind JoinType, src any, alias string, fn func(*Join)) *Query {
	j := &Join{accumulator: newAccumulator(q.dialect, "on", q.counter), kind: kind}
	source, ok := j.resolve(q.table, src)
	if !ok {
		q.fail(j.err)
		return q
	}
	source.sql = "(" + source.sql + ") as " + alias
	j.source = source
	return q.add(j, fn)
}

func (q *Query) join(kind JoinType, table string, fn func(*Join)) *Query {
	return q.add(newJoin(q.dialect, kind, table, q.counter), fn)
}

func (q *Query) add(j *Join, fn func(*Join)) *Query {
	fn(j)
	sql, values, err := j.ToSQL()
	if f, ok := q.merge(j.start, sql, values, err); ok {
		q.joins = append(q.joins, f)
	}
	return q
}

func (q *Query) Where(column string, value any, op ...string) *Query {
	q.compare(&q.wheres, column, value, op)
	return q
}

func (q *Query) WhereFunc(fn func(*Condition)) *Query {
	q.group(&q.wheres, fn)
	return q
}

func (q *Query) Or(column string, value any, op ...string) *Query {
	q.compare(&q.ors, column, value, op)
	return q
}

func (q *Query) OrFunc(fn func(*Condition)) *Query {
	q.group(&q.ors, fn)
	return q
}

func (q *Query) WhereColumn(first, second string, op ...string) *Query {
	q.compareColumns(&q.wheres, first, second, op)
	return q
}

func (q *Query) OrColumn(first, second string, op ...string) *Query {
	q.compareColumns(&q.ors, first, second, op)
	return q
}

func (q *Query) WhereIn(column string, values ...any) *Query {
	q.in(column, false, values)
	return q
}

func (q *Query) WhereNotIn(column string, values ...any) *Query {
	q.in(column, true, values)
	return q
}

// WhereInFunc renders "column in(<sub-select>)". The sub-select handed to fn
// starts as "select * from" the receiver's table.
func (q *Query) WhereInFunc(column string, fn func(*Query)) *Query {
	q.inFunc(q.table, column, false, fn)
	return q
}

func (q *Query) WhereNotInFunc(column string, fn func(*Query)) *Query {
	q.inFunc(q.table, column, true, fn)
	return q
}

func (q *Query) WhereExists(sub any) *Query {
	q.exists(q.table, false, sub)
	return q
}

func (q *Query) WhereNotExists(sub any) *Query {
	q.exists(q.table, true, sub)
	return q
}

// StartPlaceholderFrom numbers the compiled statement's placeholders from
// count.
func (q *Query) StartPlaceholderFrom(count int) *Query {
	q.rebase(count)
	return q
}

// Clone returns an independent copy of the query.
func (q *Query) Clone() *Query {
	c := *q
	c.wheres = slices.Clone(q.wheres)
	c.ors = slices.Clone(q.ors)
	c.columns = slices.Clone(q.columns)
	c.joins = slices.Clone(q.joins)
	c.orderBy = slices.Clone(q.orderBy)
	c.tuples = slices.Clone(q.tuples)
	c.limit.values = slices.Clone(q.limit.values)
	c.offset.values = slices.Clone(q.offset.values)
	return &c
}

// ToSQL compiles the statement. The Nth placeholder in the returned text is
// bound to the Nth returned value.
func (q *Query) ToSQL() (string, []any, error) {
	sql, args, err := q.build()
	if err != nil {
		return "", nil, err
	}
	if q.logger != nil {
		q.logger.Debug("querybuilder: sql built", "sql", sql, "args_len", len(args))
	}
	return sql, args, nil
}

// ToRawSQL inlines the bound values into the compiled statement. The values
// are neither quoted nor escaped, so the result is for inspection only.
func (q *Query) ToRawSQL() (string, error) {
	sql, args, err := q.build()
	if err != nil {
		return "", err
	}
	return q.dialect.Substitute(sql, args), nil
}

func (q *Query) build() (string, []any, error) {
	if q.err != nil {
		return "", nil, q.err
	}
	p := q.placer()

	var columns, tuples []string
	if q.kind != KindDelete {
		columns = p.placeAll(q.columns)
	}
	if q.kind == KindInsert {
		tuples = p.placeAll(q.tuples)
	}
	head, err := spell(q.kind, q.table, strings.Join(columns, ","), strings.Join(tuples, ", "))
	if err != nil {
		return "", nil, err
	}

	parts := append([]string{head}, p.placeAll(q.joins)...)
	parts = append(parts, q.compile(p))
	if q.groupBy != "" {
		parts = append(parts, "group by "+q.groupBy)
	}
	if len(q.orderBy) > 0 {
		parts = append(parts, "order by "+strings.Join(q.orderBy, ", "))
	}
	if q.limit.sql != "" {
		parts = append(parts, "limit "+p.place(q.limit))
	}
	if q.offset.sql != "" {
		parts = append(parts, "offset "+p.place(q.offset))
	}
	if q.returning != "" {
		parts = append(parts, "returning "+q.returning)
	}
	if q.union.sql != "" {
		parts = append(parts, "union "+p.place(q.union))
	}
	return q.result(strings.TrimSpace(strings.Join(lo.Without(parts, ""), " ")), p)
}

func sortedKeys(m map[string]any) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
