package querybuilder

import (
	"errors"
	"fmt"
)

// ErrMissingValue is returned when Where or Or receives a nil comparison value.
type ErrMissingValue struct {
	Column string
}

func (e *ErrMissingValue) Error() string {
	return fmt.Sprintf("querybuilder: missing comparison value for column %q", e.Column)
}

// NewErrMissingValue constructs a new ErrMissingValue for the given column.
func NewErrMissingValue(column string) error {
	return &ErrMissingValue{Column: column}
}

// ErrEmptyValueSet is returned when WhereIn or WhereNotIn receives an empty list.
type ErrEmptyValueSet struct {
	Column string
}

func (e *ErrEmptyValueSet) Error() string {
	return fmt.Sprintf("querybuilder: empty value list for column %q", e.Column)
}

// NewErrEmptyValueSet constructs a new ErrEmptyValueSet for the given column.
func NewErrEmptyValueSet(column string) error {
	return &ErrEmptyValueSet{Column: column}
}

// ErrInvalidSource is returned when a sub-query argument is neither a table
// expression, a *Query nor a func(*Query).
type ErrInvalidSource struct {
	Type string
}

func (e *ErrInvalidSource) Error() string {
	return fmt.Sprintf("querybuilder: unsupported sub-query source of type %s", e.Type)
}

// NewErrInvalidSource constructs a new ErrInvalidSource describing src.
func NewErrInvalidSource(src any) error {
	return &ErrInvalidSource{Type: fmt.Sprintf("%T", src)}
}

// ErrInvalidStatement is returned when a statement kind has no spelling.
type ErrInvalidStatement struct {
	Statement string
}

func (e *ErrInvalidStatement) Error() string {
	return fmt.Sprintf("querybuilder: statement %q is invalid", e.Statement)
}

// NewErrInvalidStatement constructs a new ErrInvalidStatement for the given kind.
func NewErrInvalidStatement(kind Kind) error {
	return &ErrInvalidStatement{Statement: string(kind)}
}

// ErrInvalidModel is returned when a model cannot be mapped to columns.
type ErrInvalidModel struct {
	Type string
}

func (e *ErrInvalidModel) Error() string {
	return fmt.Sprintf("querybuilder: model of type %s is not a struct", e.Type)
}

// NewErrInvalidModel constructs a new ErrInvalidModel describing model.
func NewErrInvalidModel(model any) error {
	return &ErrInvalidModel{Type: fmt.Sprintf("%T", model)}
}

// ErrPaginated is returned by Paginate when the query already carries a
// limit or an offset.
var ErrPaginated = errors.New("querybuilder: query already has a limit or offset")
