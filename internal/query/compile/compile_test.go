// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package compile_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yomira/booru/internal/platform/sec"
	"github.com/yomira/booru/internal/query/compile"
	"github.com/yomira/booru/internal/query/lang"
)

// fixture is a minimal resource exercising every Field kind without
// depending on the real post/tag schema, so these tests don't break every
// time a column gets renamed.
func fixture() *compile.Resource {
	statsJoin := "LEFT JOIN widget_stats ws ON ws.widget_id = w.id"
	return &compile.Resource{
		Table:          "widget",
		Alias:          "w",
		IDColumn:       "w.id",
		DefaultField:   "name",
		DefaultSortCol: "w.id",
		BaseColumns:    []string{"w.id", "w.name"},
		SortColumns: map[string]string{
			"id":    "w.id",
			"views": "ws.views",
		},
		Fields: map[string]*compile.Field{
			"name":  {Column: "w.name", Kind: compile.FieldText},
			"count": {Column: "w.count", Kind: compile.FieldNumber},
			"made":  {Column: "w.made", Kind: compile.FieldDate},
			"views": {Column: "ws.views", Kind: compile.FieldNumber, StatsJoin: statsJoin},
			"owner": {
				Column: "o.name", Kind: compile.FieldNameLookup,
				NameTable: "owner o", NameJoinColumn: "o.id", OwnerColumn: "w.owner_id",
			},
		},
		PrivilegeFilter: func(rank string) string {
			if rank == "anonymous" {
				return "w.public = TRUE"
			}
			return ""
		},
		SpecialFilters: map[string]*compile.SpecialFilter{
			"mine": {
				Join: statsJoin,
				Compile: func(callerUserID *int, bind func(interface{}) string) (string, error) {
					if callerUserID == nil {
						return "FALSE", nil
					}
					return fmt.Sprintf("w.owner_id = %s", bind(*callerUserID)), nil
				},
			},
		},
	}
}

func mustParse(t *testing.T, query string) *lang.Query {
	t.Helper()
	q, err := lang.Parse(query)
	require.NoError(t, err)
	return q
}

func TestCompile_AnonymousCallerGetsPrivilegeFilter(t *testing.T) {
	q := mustParse(t, "")
	c, err := compile.Compile(fixture(), q, nil, nil, 0, 20, "seed")
	require.NoError(t, err)
	assert.Contains(t, c.SQL, "w.public = TRUE")
}

func TestCompile_RegisteredCallerSkipsPrivilegeFilter(t *testing.T) {
	q := mustParse(t, "")
	caller := &sec.Principal{UserID: 7, Rank: sec.RankRegular}
	c, err := compile.Compile(fixture(), q, caller, nil, 0, 20, "seed")
	require.NoError(t, err)
	assert.NotContains(t, c.SQL, "w.public")
}

func TestCompile_StatsJoinOmittedWhenFieldUnused(t *testing.T) {
	q := mustParse(t, "name:foo")
	c, err := compile.Compile(fixture(), q, nil, nil, 0, 20, "seed")
	require.NoError(t, err)
	assert.NotContains(t, c.SQL, "widget_stats")
}

func TestCompile_StatsJoinAddedWhenFieldQueried(t *testing.T) {
	q := mustParse(t, "views:10..")
	c, err := compile.Compile(fixture(), q, nil, nil, 0, 20, "seed")
	require.NoError(t, err)
	assert.Contains(t, c.SQL, "widget_stats")
}

func TestCompile_StatsJoinAddedWhenProjected(t *testing.T) {
	q := mustParse(t, "")
	c, err := compile.Compile(fixture(), q, nil, []string{"views"}, 0, 20, "seed")
	require.NoError(t, err)
	assert.Contains(t, c.SQL, "widget_stats")
}

func TestCompile_StatsJoinAddedWhenSortedOn(t *testing.T) {
	q := mustParse(t, "sort:views")
	c, err := compile.Compile(fixture(), q, nil, nil, 0, 20, "seed")
	require.NoError(t, err)
	assert.Contains(t, c.SQL, "widget_stats")
}

func TestCompile_StatsJoinAddedOnlyOnce(t *testing.T) {
	q := mustParse(t, "views:1.. sort:views")
	c, err := compile.Compile(fixture(), q, nil, []string{"views"}, 0, 20, "seed")
	require.NoError(t, err)
	assert.Equal(t, 1, countOccurrences(c.SQL, "widget_stats"))
}

func TestCompile_SpecialFilterUnknownErrors(t *testing.T) {
	q := mustParse(t, "special:nonexistent")
	_, err := compile.Compile(fixture(), q, nil, nil, 0, 20, "seed")
	assert.Error(t, err)
}

func TestCompile_SpecialFilterAnonymousIsFalse(t *testing.T) {
	q := mustParse(t, "special:mine")
	c, err := compile.Compile(fixture(), q, nil, nil, 0, 20, "seed")
	require.NoError(t, err)
	assert.Contains(t, c.SQL, "FALSE")
}

func TestCompile_SpecialFilterBindsCallerID(t *testing.T) {
	q := mustParse(t, "special:mine")
	caller := &sec.Principal{UserID: 42, Rank: sec.RankRegular}
	c, err := compile.Compile(fixture(), q, caller, nil, 0, 20, "seed")
	require.NoError(t, err)
	assert.Contains(t, c.Args, 42)
}

func TestCompile_UnknownFieldErrors(t *testing.T) {
	q := mustParse(t, "bogus:1")
	_, err := compile.Compile(fixture(), q, nil, nil, 0, 20, "seed")
	assert.Error(t, err)
}

func TestCompile_Negation(t *testing.T) {
	q := mustParse(t, "-name:foo")
	c, err := compile.Compile(fixture(), q, nil, nil, 0, 20, "seed")
	require.NoError(t, err)
	assert.Contains(t, c.SQL, "NOT (w.name")
}

func TestCompile_NumberFieldRejectsNonNumeric(t *testing.T) {
	q := mustParse(t, "count:abc")
	_, err := compile.Compile(fixture(), q, nil, nil, 0, 20, "seed")
	assert.Error(t, err)
}

func TestCompile_RangeCompilesBothBounds(t *testing.T) {
	q := mustParse(t, "count:1..10")
	c, err := compile.Compile(fixture(), q, nil, nil, 0, 20, "seed")
	require.NoError(t, err)
	assert.Contains(t, c.SQL, "w.count >=")
	assert.Contains(t, c.SQL, "w.count <=")
}

func TestCompile_DateYearCompilesToYearRange(t *testing.T) {
	q := mustParse(t, "made:2024")
	c, err := compile.Compile(fixture(), q, nil, nil, 0, 20, "seed")
	require.NoError(t, err)
	assert.Contains(t, c.Args, "2024-01-01")
	assert.Contains(t, c.SQL, "interval '1 year'")
}

func TestCompile_NameLookupCompilesExists(t *testing.T) {
	q := mustParse(t, "owner:alice")
	c, err := compile.Compile(fixture(), q, nil, nil, 0, 20, "seed")
	require.NoError(t, err)
	assert.Contains(t, c.SQL, "EXISTS (SELECT 1 FROM owner o WHERE o.id = w.owner_id AND o.name = ")
}

func TestCompile_WildcardUsesLike(t *testing.T) {
	q := mustParse(t, "name:fo*")
	c, err := compile.Compile(fixture(), q, nil, nil, 0, 20, "seed")
	require.NoError(t, err)
	assert.Contains(t, c.SQL, "LIKE lower(")
	assert.Contains(t, c.Args, "fo%")
}

func TestCompile_CompositeIsOred(t *testing.T) {
	q := mustParse(t, "name:a,b")
	c, err := compile.Compile(fixture(), q, nil, nil, 0, 20, "seed")
	require.NoError(t, err)
	assert.Contains(t, c.SQL, " OR ")
}

func TestCompile_DefaultSortDescendingByID(t *testing.T) {
	q := mustParse(t, "")
	c, err := compile.Compile(fixture(), q, nil, nil, 0, 20, "seed")
	require.NoError(t, err)
	assert.Contains(t, c.SQL, "ORDER BY w.id DESC")
}

func TestCompile_ExplicitSortAscendingKeepsTiebreaker(t *testing.T) {
	q := mustParse(t, "sort:views,asc")
	c, err := compile.Compile(fixture(), q, nil, nil, 0, 20, "seed")
	require.NoError(t, err)
	assert.Contains(t, c.SQL, "ORDER BY ws.views ASC, w.id DESC")
}

func TestCompile_RandomSortBindsRequestSeed(t *testing.T) {
	q := mustParse(t, "sort:random")
	c, err := compile.Compile(fixture(), q, nil, nil, 0, 20, "a-session-seed")
	require.NoError(t, err)
	assert.Contains(t, c.SQL, "hashtext(")
	assert.Contains(t, c.Args, "a-session-seed")
}

func TestCompile_CountArgsExcludesSortAndPaginationBinds(t *testing.T) {
	q := mustParse(t, "name:foo sort:random")
	c, err := compile.Compile(fixture(), q, nil, nil, 5, 20, "seed")
	require.NoError(t, err)
	// "foo" is the only WHERE-clause bind; the random seed and the two
	// pagination args must not leak into the count query's argument count.
	assert.Equal(t, 1, c.CountArgs)
	assert.Equal(t, "foo", c.Args[0])
}

func TestCompile_LimitIsCappedAtQueryCap(t *testing.T) {
	q := mustParse(t, "")
	c, err := compile.Compile(fixture(), q, nil, nil, 0, 1_000_000, "seed")
	require.NoError(t, err)
	assert.Contains(t, c.Args, 1000)
}

func countOccurrences(s, substr string) int {
	count := 0
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			count++
			i += len(substr) - 1
		}
	}
	return count
}
