package querybuilder

// Filters is a column/value description of equality predicates, typically
// decoded from a request or a config file.
type Filters struct {
	Where map[string]any `json:"where" yaml:"where"`
	Or    map[string]any `json:"or,omitempty" yaml:"or,omitempty"`
}

// Filter adds an equality Where for every Filters.Where entry and then an
// equality Or for every Filters.Or entry, each in sorted key order.
func (q *Query) Filter(f Filters) *Query {
	for _, col := range keysOf(f.Where) {
		q.Where(col, f.Where[col])
	}
	for _, col := range keysOf(f.Or) {
		q.Or(col, f.Or[col])
	}
	return q
}

func keysOf(m map[string]any) []string {
	if len(m) == 0 {
		return nil
	}
	return sortedKeys(m)
}

// PaginateOptions selects a page. Zero or negative fields fall back to page 1
// and 10 rows per page.
type PaginateOptions struct {
	Page    int `json:"page" yaml:"page"`
	PerPage int `json:"per_page" yaml:"per_page"`
}

func (o PaginateOptions) normalize() PaginateOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PerPage < 1 {
		o.PerPage = 10
	}
	return o
}

// Statement is a compiled statement ready for a database/sql call.
type Statement struct {
	SQL  string
	Args []any
}

// PaginateQueries holds the two statements needed to serve one page.
type PaginateQueries struct {
	Count Statement
	Page  Statement
}

// Paginate compiles a row count over the query's predicates and the requested
// page of the query itself. The receiver is not modified. It fails with
// ErrPaginated when the query already has a limit or an offset.
//
// A grouped or unioned query counts its result rows through a derived table,
// "select count(*) from (<query>) as t"; any other query has its column list
// replaced by count(*).
func (q *Query) Paginate(opts PaginateOptions) (PaginateQueries, error) {
	if q.err != nil {
		return PaginateQueries{}, q.err
	}
	if q.limit.sql != "" || q.offset.sql != "" {
		return PaginateQueries{}, ErrPaginated
	}
	opts = opts.normalize()

	countSQL, countArgs, err := q.countSQL()
	if err != nil {
		return PaginateQueries{}, err
	}

	page := q.Clone().Limit(opts.PerPage).Offset((opts.Page - 1) * opts.PerPage)
	pageSQL, pageArgs, err := page.ToSQL()
	if err != nil {
		return PaginateQueries{}, err
	}

	return PaginateQueries{
		Count: Statement{SQL: countSQL, Args: countArgs},
		Page:  Statement{SQL: pageSQL, Args: pageArgs},
	}, nil
}

func (q *Query) countSQL() (string, []any, error) {
	counter := q.Clone()
	counter.orderBy = nil
	if counter.groupBy == "" && counter.union.sql == "" {
		return counter.Select("count(*)").ToSQL()
	}
	sql, args, err := counter.ToSQL()
	if err != nil {
		return "", nil, err
	}
	return "select count(*) from (" + sql + ") as t", args, nil
}
