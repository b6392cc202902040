// Package render turns YAML query descriptions into compiled statements and
// prints them for inspection.
package render

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	querybuilder "github.com/Mahmoud1478/go-query-builder"
	"github.com/Mahmoud1478/go-query-builder/dialect"
)

// OrderBy is one entry of the order_by list.
type OrderBy struct {
	Column    string `yaml:"column"`
	Direction string `yaml:"direction"`
}

// Description describes a single statement.
//
//	table: users
//	select: [id, name]
//	where: {status: 1}
//	where_in: {role: [admin, owner]}
//	order_by: [{column: id, direction: desc}]
//	paginate: {page: 2, per_page: 20}
type Description struct {
	Table     string                        `yaml:"table"`
	Statement string                        `yaml:"statement"`
	Select    []string                      `yaml:"select"`
	Values    map[string]any                `yaml:"values"`
	Where     map[string]any                `yaml:"where"`
	Or        map[string]any                `yaml:"or"`
	WhereIn   map[string][]any              `yaml:"where_in"`
	GroupBy   []string                      `yaml:"group_by"`
	OrderBy   []OrderBy                     `yaml:"order_by"`
	Limit     int                           `yaml:"limit"`
	Offset    int                           `yaml:"offset"`
	Returning []string                      `yaml:"returning"`
	Paginate  *querybuilder.PaginateOptions `yaml:"paginate"`
}

// Output is a labelled compiled statement.
type Output struct {
	Label string
	querybuilder.Statement
}

// Load reads and parses a description file.
func Load(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("render: read description: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML description.
func Parse(data []byte) (*Description, error) {
	var s Description
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("render: parse description: %w", err)
	}
	if s.Table == "" {
		return nil, fmt.Errorf("render: description has no table")
	}
	return &s, nil
}

// Build creates the query described by s. Map entries are applied in sorted
// key order so the compiled text is stable across runs.
func (s *Description) Build(db *querybuilder.DB) (*querybuilder.Query, error) {
	kind := querybuilder.KindSelect
	if s.Statement != "" {
		k, err := querybuilder.ParseKind(s.Statement)
		if err != nil {
			return nil, err
		}
		kind = k
	}

	q := db.Table(s.Table)
	switch kind {
	case querybuilder.KindSelect:
		q.Select(s.Select...)
	case querybuilder.KindInsert:
		q.Insert(s.Values)
	case querybuilder.KindUpdate:
		q.Update(s.Values)
	case querybuilder.KindDelete:
		q.Delete()
	}

	q.Filter(querybuilder.Filters{Where: s.Where})
	cols := lo.Keys(s.WhereIn)
	sort.Strings(cols)
	for _, col := range cols {
		q.WhereIn(col, s.WhereIn[col]...)
	}
	q.Filter(querybuilder.Filters{Or: s.Or})

	if len(s.GroupBy) > 0 {
		q.GroupBy(s.GroupBy...)
	}
	for _, o := range s.OrderBy {
		q.OrderBy(o.Column, o.Direction)
	}
	if s.Limit > 0 {
		q.Limit(s.Limit)
	}
	if s.Offset > 0 {
		q.Offset(s.Offset)
	}
	if len(s.Returning) > 0 {
		q.Returning(s.Returning...)
	}

	if err := q.Err(); err != nil {
		return nil, err
	}
	return q, nil
}

// Compile builds the description and compiles it. A paginated description yields the count
// statement followed by the page statement.
func (s *Description) Compile(db *querybuilder.DB) ([]Output, error) {
	q, err := s.Build(db)
	if err != nil {
		return nil, err
	}

	if s.Paginate != nil {
		pages, err := q.Paginate(*s.Paginate)
		if err != nil {
			return nil, err
		}
		return []Output{
			{Label: "count", Statement: pages.Count},
			{Label: "page", Statement: pages.Page},
		}, nil
	}

	sql, args, err := q.ToSQL()
	if err != nil {
		return nil, err
	}
	return []Output{{Label: string(q.Kind()), Statement: querybuilder.Statement{SQL: sql, Args: args}}}, nil
}

// Write prints each statement. With raw set the values are inlined; otherwise
// the bound values follow the statement as a table.
func Write(w io.Writer, d dialect.Dialect, outs []Output, raw bool) error {
	for i, out := range outs {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintf(w, "-- %s\n", out.Label)

		if raw {
			_, _ = fmt.Fprintln(w, d.Substitute(out.SQL, out.Args))
			continue
		}
		_, _ = fmt.Fprintln(w, out.SQL)
		if len(out.Args) == 0 {
			continue
		}

		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"#", "placeholder", "value", "type"})
		for n, arg := range out.Args {
			t.AppendRow(table.Row{n + 1, d.Placeholder(n + 1), dialect.FormatValue(arg), fmt.Sprintf("%T", arg)})
		}
		t.Render()
	}
	return nil
}
