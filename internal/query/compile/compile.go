// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package compile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yomira/booru/internal/platform/apperr"
	"github.com/yomira/booru/internal/platform/sec"
	"github.com/yomira/booru/internal/query/lang"
	"github.com/yomira/booru/pkg/pagination"
)

// Compiled is one ready-to-run statement plus the matching count query —
// issuing both lets a list endpoint report a total in the same round-trip
// when the caller's driver pipelines them, per §4.E. CountSQL reuses the
// same WHERE clause and placeholder numbering as SQL, so it must be run
// with Args[:CountArgs] rather than the full slice (SQL additionally binds
// the sort and pagination arguments after the WHERE clause's own).
type Compiled struct {
	SQL       string
	CountSQL  string
	Args      []interface{}
	CountArgs int
}

// Compile turns a parsed query into parameterised SQL against res, honoring
// field projection (only join what's requested), the caller's privilege
// filter, and a hard pagination cap. requestSeed is an opaque per-request
// identifier the caller supplies (and echoes back across pages of the same
// browse session) to keep sort:random stable within that session — see
// compileSort.
func Compile(res *Resource, q *lang.Query, caller *sec.Principal, fields []string, offset, limit int, requestSeed string) (*Compiled, error) {
	if limit <= 0 || limit > pagination.QueryCap {
		limit = pagination.QueryCap
	}

	var joins []string
	joinSeen := map[string]bool{}
	addJoin := func(clause string) {
		if clause == "" || joinSeen[clause] {
			return
		}
		joinSeen[clause] = true
		joins = append(joins, clause)
	}

	var conjuncts []string
	var args []interface{}
	bind := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if rank := string(caller.EffectiveRank()); res.PrivilegeFilter != nil {
		if clause := res.PrivilegeFilter(rank); clause != "" {
			conjuncts = append(conjuncts, clause)
		}
	}

	var callerUserID *int
	if caller != nil {
		id := caller.UserID
		callerUserID = &id
	}

	for _, tok := range q.Tokens {
		var clause string
		var err error

		if tok.Kind == lang.KindSpecial {
			special, ok := res.SpecialFilters[tok.Head]
			if !ok {
				return nil, apperr.ValidationError(fmt.Sprintf("unknown special filter %q", tok.Head))
			}
			addJoin(special.Join)
			clause, err = special.Compile(callerUserID, bind)
		} else {
			fieldName := tok.Head
			if tok.Kind == lang.KindAnonymous {
				fieldName = res.DefaultField
			}
			field, ok := res.Fields[fieldName]
			if !ok {
				return nil, apperr.ValidationError(fmt.Sprintf("unknown query field %q", fieldName))
			}
			addJoin(field.StatsJoin)
			clause, err = compileField(field, tok, bind)
		}

		if err != nil {
			return nil, err
		}
		if tok.Negated {
			clause = "NOT (" + clause + ")"
		}
		conjuncts = append(conjuncts, clause)
	}

	for _, projected := range fields {
		if field, ok := res.Fields[projected]; ok {
			addJoin(field.StatsJoin)
		}
	}

	joinForColumn := func(col string) {
		for _, field := range res.Fields {
			if field.Column == col {
				addJoin(field.StatsJoin)
			}
		}
	}
	// The default sort column doubles as every query's secondary tie-breaker,
	// and a caller-requested sort style may reference a stats-joined column
	// neither named in a query token nor in the projected field list.
	joinForColumn(res.DefaultSortCol)
	if q.Sort != nil {
		if col, ok := res.SortColumns[q.Sort.Head]; ok {
			joinForColumn(col)
		}
	}

	where := "TRUE"
	if len(conjuncts) > 0 {
		where = strings.Join(conjuncts, " AND ")
	}
	countArgs := len(args)

	orderBy := compileSort(res, q.Sort, requestSeed, bind)

	selectCols := strings.Join(res.BaseColumns, ", ")
	from := fmt.Sprintf("%s %s", res.Table, res.Alias)
	if len(joins) > 0 {
		from += " " + strings.Join(joins, " ")
	}

	limitArg := bind(limit)
	offsetArg := bind(offset)

	sql := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s ORDER BY %s OFFSET %s LIMIT %s",
		selectCols, from, where, orderBy, offsetArg, limitArg,
	)
	countSQL := fmt.Sprintf("SELECT count(*) FROM %s WHERE %s", from, where)

	return &Compiled{SQL: sql, CountSQL: countSQL, Args: args, CountArgs: countArgs}, nil
}

func compileField(field *Field, tok lang.Token, bind func(interface{}) string) (string, error) {
	if field.Kind == FieldNameLookup {
		return compileNameLookup(field, tok, bind)
	}

	switch tok.Value.Kind {
	case lang.ValueDate:
		return compileDate(field, tok.Value.Scalar, bind)
	case lang.ValueScalar:
		return compileScalar(field, tok.Value.Scalar, bind)
	case lang.ValueRange:
		return compileRange(field, tok.Value, bind)
	case lang.ValueComposite:
		var parts []string
		for _, item := range tok.Value.Items {
			clause, err := compileScalar(field, item, bind)
			if err != nil {
				return "", err
			}
			parts = append(parts, clause)
		}
		return "(" + strings.Join(parts, " OR ") + ")", nil
	default:
		return "", apperr.ValidationError("unsupported query value shape")
	}
}

func compileScalar(field *Field, value string, bind func(interface{}) string) (string, error) {
	if strings.Contains(value, "*") {
		pattern := strings.ReplaceAll(value, "*", "%")
		return fmt.Sprintf("lower(%s) LIKE lower(%s)", field.Column, bind(pattern)), nil
	}
	switch field.Kind {
	case FieldNumber:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "", apperr.ValidationError(fmt.Sprintf("expected a number, got %q", value))
		}
		return fmt.Sprintf("%s = %s", field.Column, bind(n)), nil
	default:
		return fmt.Sprintf("%s = %s", field.Column, bind(value)), nil
	}
}

// compileDate matches a date field against a calendar period: a bare year or
// year-month matches any timestamp within that period, a full date matches
// the calendar day, and today/yesterday resolve against the database clock
// so the comparison stays correct across time zones configured server-side.
// Every case compiles to a half-open [low, high) range so the upper bound
// never has to special-case month lengths or leap years.
func compileDate(field *Field, value string, bind func(interface{}) string) (string, error) {
	switch value {
	case "today":
		return fmt.Sprintf("%s >= date_trunc('day', now()) AND %s < date_trunc('day', now()) + interval '1 day'", field.Column, field.Column), nil
	case "yesterday":
		return fmt.Sprintf("%s >= date_trunc('day', now()) - interval '1 day' AND %s < date_trunc('day', now())", field.Column, field.Column), nil
	}

	var low string
	var unit string
	switch len(value) {
	case 4: // YYYY
		low, unit = value+"-01-01", "1 year"
	case 7: // YYYY-MM
		low, unit = value+"-01", "1 month"
	default: // YYYY-MM-DD
		low, unit = value, "1 day"
	}
	lowArg := bind(low)
	return fmt.Sprintf("%s >= %s::date AND %s < %s::date + interval '%s'", field.Column, lowArg, field.Column, lowArg, unit), nil
}

func compileRange(field *Field, v lang.Value, bind func(interface{}) string) (string, error) {
	var parts []string
	if v.HasLow {
		parts = append(parts, fmt.Sprintf("%s >= %s", field.Column, bind(rangeBound(field, v.Low))))
	}
	if v.HasHigh {
		parts = append(parts, fmt.Sprintf("%s <= %s", field.Column, bind(rangeBound(field, v.High))))
	}
	if len(parts) == 0 {
		return "TRUE", nil
	}
	return "(" + strings.Join(parts, " AND ") + ")", nil
}

func rangeBound(field *Field, raw string) interface{} {
	if field.Kind == FieldNumber {
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return n
		}
	}
	return raw
}

// compileNameLookup compiles a tag/pool/uploader/name field to an EXISTS
// subquery against the owning name table, joined back to the current row.
func compileNameLookup(field *Field, tok lang.Token, bind func(interface{}) string) (string, error) {
	var names []string
	switch tok.Value.Kind {
	case lang.ValueScalar:
		names = []string{tok.Value.Scalar}
	case lang.ValueComposite:
		names = tok.Value.Items
	default:
		return "", apperr.ValidationError("name fields accept a scalar or composite value only")
	}

	var clauses []string
	for _, name := range names {
		cmp := fmt.Sprintf("%s = %s", field.Column, bind(name))
		if strings.Contains(name, "*") {
			cmp = fmt.Sprintf("lower(%s) LIKE lower(%s)", field.Column, bind(strings.ReplaceAll(name, "*", "%")))
		}
		clauses = append(clauses, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM %s WHERE %s = %s AND %s)",
			field.NameTable, field.NameJoinColumn, field.OwnerColumn, cmp,
		))
	}
	return "(" + strings.Join(clauses, " OR ") + ")", nil
}

// compileSort resolves a sort: token (or the resource default) to an ORDER
// BY clause. sort:random hashes requestSeed together with each row's id so
// pagination stays stable for the caller's session without a persisted
// global ordering (§9: stability within a session only).
func compileSort(res *Resource, sortTok *lang.Token, requestSeed string, bind func(interface{}) string) string {
	secondary := res.DefaultSortCol + " DESC"

	if sortTok == nil {
		return fmt.Sprintf("%s DESC", res.DefaultSortCol)
	}

	if sortTok.Head == "random" {
		col := fmt.Sprintf("hashtext(%s || %s::text)", bind(requestSeed), res.IDColumn)
		return fmt.Sprintf("%s, %s", col, secondary)
	}

	col, ok := res.SortColumns[sortTok.Head]
	if !ok {
		col = res.DefaultSortCol
	}
	dir := "DESC"
	if sortTok.SortDir == lang.SortAsc {
		dir = "ASC"
	}
	if col == res.DefaultSortCol {
		return fmt.Sprintf("%s %s", col, dir)
	}
	return fmt.Sprintf("%s %s, %s", col, dir, secondary)
}
