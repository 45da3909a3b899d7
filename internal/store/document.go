// internal/store/document.go
package store

import (
	"fmt"
	"sort"
	"strings"
)

// Document is a single record identified by (collection, id) in the external
// document store.
type Document struct {
	ID   string
	Data map[string]any
}

// Op is a comparison operator for field constraints.
type Op string

const (
	OpEqual        Op = "=="
	OpLess         Op = "<"
	OpLessEqual    Op = "<="
	OpGreater      Op = ">"
	OpGreaterEqual Op = ">="
)

// Direction orders a sort constraint.
type Direction int

const (
	Asc Direction = iota
	Desc
)

type constraintKind int

const (
	kindWhere constraintKind = iota
	kindOrderBy
	kindLimit
)

// Constraint is a server-side filter, sort, or limit clause. Build them with
// Where / OrderBy / Limit; the zero value is not usable.
type Constraint struct {
	kind  constraintKind
	Field string
	Op    Op
	Value any
	Dir   Direction
	N     int
}

// Where filters on field <op> value.
func Where(field string, op Op, value any) Constraint {
	return Constraint{kind: kindWhere, Field: field, Op: op, Value: value}
}

// OrderBy sorts by field in the given direction.
func OrderBy(field string, dir Direction) Constraint {
	return Constraint{kind: kindOrderBy, Field: field, Dir: dir}
}

// Limit caps the number of returned documents.
func Limit(n int) Constraint {
	return Constraint{kind: kindLimit, N: n}
}

// IsWhere / IsOrderBy / IsLimit expose the kind to drivers.
func (c Constraint) IsWhere() bool   { return c.kind == kindWhere }
func (c Constraint) IsOrderBy() bool { return c.kind == kindOrderBy }
func (c Constraint) IsLimit() bool   { return c.kind == kindLimit }

// Cursor is an opaque "resume after this document" token. It is valid only
// for the (collection, constraints) pair it was issued under; Paginate
// rejects a cursor whose fingerprint does not match.
type Cursor struct {
	collection  string
	fingerprint string
	token       any // driver-specific resume token (last document seen)
}

// Token returns the driver resume token.
func (c *Cursor) Token() any {
	if c == nil {
		return nil
	}
	return c.token
}

// fingerprintOf builds a deterministic identity for a constraint set.
// Where clauses are order-insensitive; order-by clauses are not.
func fingerprintOf(collection string, cs []Constraint) string {
	var wheres, orders []string
	limit := 0
	for _, c := range cs {
		switch c.kind {
		case kindWhere:
			wheres = append(wheres, fmt.Sprintf("w:%s%s%v", c.Field, c.Op, c.Value))
		case kindOrderBy:
			orders = append(orders, fmt.Sprintf("o:%s/%d", c.Field, c.Dir))
		case kindLimit:
			limit = c.N
		}
	}
	sort.Strings(wheres)
	parts := append([]string{"c:" + collection}, wheres...)
	parts = append(parts, orders...)
	parts = append(parts, fmt.Sprintf("l:%d", limit))
	return strings.Join(parts, "|")
}

// Page is one pagination step.
//
// HasMore is the same approximation the storefront has always used:
// a full page is assumed to mean more data. When the remaining count equals
// the page size exactly, one extra empty page is reported.
type Page struct {
	Items      []Document
	NextCursor *Cursor
	HasMore    bool
}
