package querybuilder

import (
	"reflect"

	"github.com/kisielk/sqlstruct"
)

// Struct fields map to columns through the "db" tag, or their snake_case name
// when the tag is absent.
func init() {
	sqlstruct.TagName = "db"
	sqlstruct.NameMapper = sqlstruct.ToSnakeCase
}

// Record maps the exported fields of a struct, or pointer to struct, to a
// column/value map. Fields tagged `db:"-"` are skipped and anonymous struct
// fields are flattened.
func Record(model any) (map[string]any, error) {
	val := reflect.ValueOf(model)
	for val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return nil, NewErrInvalidModel(model)
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil, NewErrInvalidModel(model)
	}

	out := make(map[string]any)
	collect(val, out)
	return out, nil
}

func collect(val reflect.Value, out map[string]any) {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		// Skip unexported fields
		if f.PkgPath != "" {
			continue
		}
		tag := f.Tag.Get(sqlstruct.TagName)
		if tag == "-" {
			continue
		}
		if f.Anonymous && tag == "" && f.Type.Kind() == reflect.Struct {
			collect(val.Field(i), out)
			continue
		}
		if tag == "" {
			tag = sqlstruct.NameMapper(f.Name)
		}
		out[tag] = val.Field(i).Interface()
	}
}

// InsertModel adds one row built from the fields of model.
func (q *Query) InsertModel(model any) *Query {
	rec, err := Record(model)
	if err != nil {
		q.fail(err)
		return q
	}
	return q.Insert(rec)
}

// UpdateModel assigns every mapped field of model.
func (q *Query) UpdateModel(model any) *Query {
	rec, err := Record(model)
	if err != nil {
		q.fail(err)
		return q
	}
	return q.Update(rec)
}
