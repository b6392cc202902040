package querybuilder

import (
	"fmt"
	"strings"
)

// Kind is the statement a Query compiles to.
type Kind string

const (
	KindSelect Kind = "select"
	KindInsert Kind = "insert"
	KindUpdate Kind = "update"
	KindDelete Kind = "delete"
)

// ParseKind maps a statement keyword to its Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindSelect, KindInsert, KindUpdate, KindDelete:
		return k, nil
	default:
		return "", NewErrInvalidStatement(k)
	}
}

// spell renders the leading template of a statement. columns is the already
// joined column list and tuples the joined insert placeholder tuples.
func spell(kind Kind, table, columns, tuples string) (string, error) {
	switch kind {
	case KindSelect:
		return fmt.Sprintf("select %s from %s", columns, table), nil
	case KindUpdate:
		return fmt.Sprintf("update %s set %s", table, columns), nil
	case KindDelete:
		return fmt.Sprintf("delete from %s", table), nil
	case KindInsert:
		return fmt.Sprintf("insert into %s (%s) values %s", table, columns, tuples), nil
	default:
		return "", NewErrInvalidStatement(kind)
	}
}
