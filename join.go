package querybuilder

import (
	"strings"

	"github.com/Mahmoud1478/go-query-builder/dialect"
)

// JoinType is the keyword placed before "join".
type JoinType string

const (
	JoinInner JoinType = "inner"
	JoinLeft  JoinType = "left"
	JoinRight JoinType = "right"
)

// Join builds the predicates of a single join clause. Instances are created
// by the join methods of Query and handed to their callbacks; the compiled
// text is appended to the statement once the callback returns.
type Join struct {
	accumulator
	kind   JoinType
	source fragment
}

func newJoin(d dialect.Dialect, kind JoinType, table string, start int) *Join {
	j := &Join{accumulator: newAccumulator(d, "on", start), kind: kind}
	j.source = j.emit(table)
	return j
}

// On compares two columns in the AND group of the join condition.
func (j *Join) On(first, second string, op ...string) *Join {
	j.compareColumns(&j.wheres, first, second, op)
	return j
}

// OrOn compares two columns in the OR group of the join condition.
func (j *Join) OrOn(first, second string, op ...string) *Join {
	j.compareColumns(&j.ors, first, second, op)
	return j
}

func (j *Join) Where(column string, value any, op ...string) *Join {
	j.compare(&j.wheres, column, value, op)
	return j
}

func (j *Join) WhereFunc(fn func(*Condition)) *Join {
	j.group(&j.wheres, fn)
	return j
}

func (j *Join) Or(column string, value any, op ...string) *Join {
	j.compare(&j.ors, column, value, op)
	return j
}

func (j *Join) OrFunc(fn func(*Condition)) *Join {
	j.group(&j.ors, fn)
	return j
}

func (j *Join) WhereColumn(first, second string, op ...string) *Join {
	return j.On(first, second, op...)
}

func (j *Join) OrColumn(first, second string, op ...string) *Join {
	return j.OrOn(first, second, op...)
}

func (j *Join) WhereIn(column string, values ...any) *Join {
	j.in(column, false, values)
	return j
}

func (j *Join) WhereNotIn(column string, values ...any) *Join {
	j.in(column, true, values)
	return j
}

func (j *Join) WhereInFunc(column string, fn func(*Query)) *Join {
	j.inFunc("", column, false, fn)
	return j
}

func (j *Join) WhereNotInFunc(column string, fn func(*Query)) *Join {
	j.inFunc("", column, true, fn)
	return j
}

func (j *Join) WhereExists(sub any) *Join {
	j.exists("", false, sub)
	return j
}

func (j *Join) WhereNotExists(sub any) *Join {
	j.exists("", true, sub)
	return j
}

func (j *Join) StartPlaceholderFrom(count int) *Join {
	j.rebase(count)
	return j
}

// ToSQL renders "<type> join <table> on <predicates>". The "on" keyword is
// left out when no predicate was added. Values of a sub-select source come
// before the values of the predicates.
func (j *Join) ToSQL() (string, []any, error) {
	p := j.placer()
	source := p.place(j.source)
	return j.result(strings.TrimSpace(string(j.kind)+" join "+source+" "+j.compile(p)), p)
}

func (j *Join) ToRawSQL() (string, error) {
	sql, values, err := j.ToSQL()
	if err != nil {
		return "", err
	}
	return j.dialect.Substitute(sql, values), nil
}
