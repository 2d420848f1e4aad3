// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package compile turns a parsed query (internal/query/lang) into one
// parameterised SQL statement, per §4.E: field projection decides which
// statistics joins run, pagination is capped, and the caller's privilege
// filter is injected as a leading WHERE conjunct.
package compile

// FieldKind controls how a named token's Value is matched against Column.
type FieldKind int

const (
	// FieldText matches scalars and composites by exact, case-sensitive
	// equality; a value containing * becomes lower(col) LIKE lower(pattern).
	FieldText FieldKind = iota
	// FieldNumber matches scalars/ranges/composites with numeric comparison.
	FieldNumber
	// FieldDate matches scalars/ranges resolved against a timestamp column.
	FieldDate
	// FieldNameLookup resolves through an owning name table (tag/pool/user name).
	FieldNameLookup
	// FieldEnum matches against a fixed set of string values (safety, type).
	FieldEnum
)

// Field describes one queryable logical column.
type Field struct {
	Column string // SQL expression, already table-qualified
	Kind   FieldKind

	// NameTable/NameJoinColumn/OwnerColumn describe the join used by
	// FieldNameLookup (EXISTS subquery against NameTable joined back via
	// OwnerColumn to the owning row's id).
	NameTable      string
	NameJoinColumn string
	OwnerColumn    string

	// StatsJoin, if non-empty, is a LEFT JOIN clause added to the FROM
	// clause only when this field (or its sort) is projected or used —
	// the field-projection-before-join rule that is the compiler's reason
	// to exist.
	StatsJoin string
}

// Resource describes one queryable aggregate: its table, default fields,
// sortable columns, and the anonymous-token default field.
type Resource struct {
	Table          string
	Alias          string
	IDColumn       string
	DefaultField   string // field consulted for an anonymous (no ':') token
	DefaultSortCol string // secondary/sole sort when no sort: token is given
	Fields         map[string]*Field
	SortColumns    map[string]string // sort style name -> SQL expression
	BaseColumns    []string          // always-selected columns (id, name, etc.)

	// PrivilegeFilter returns an extra WHERE conjunct (or "") enforcing
	// rank-gated visibility, e.g. hiding unsafe posts from anonymous callers.
	PrivilegeFilter func(rank string) string

	// SpecialFilters compiles a special:<value> token to a WHERE conjunct
	// scoped to the calling user (liked, disliked, fav, tumbleweed); nil
	// for resources that don't define any.
	SpecialFilters map[string]*SpecialFilter
}

// SpecialFilter pairs a special:<value> predicate with the join (if any)
// its predicate depends on, so Compile only adds that join when the
// special is actually used.
type SpecialFilter struct {
	Join    string
	Compile func(callerUserID *int, bind func(interface{}) string) (string, error)
}
