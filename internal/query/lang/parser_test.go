// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lang_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yomira/booru/internal/query/lang"
)

/*
TestParse_TokenKinds covers the anonymous/named/sort/special token shapes
the DSL grammar defines.
*/
func TestParse_TokenKinds(t *testing.T) {
	q, err := lang.Parse("cat_girl tag:touhou sort:score,desc special:liked")
	require.NoError(t, err)
	require.Len(t, q.Tokens, 3)

	assert.Equal(t, lang.KindAnonymous, q.Tokens[0].Kind)
	assert.Equal(t, "cat_girl", q.Tokens[0].Value.Scalar)

	assert.Equal(t, lang.KindNamed, q.Tokens[1].Kind)
	assert.Equal(t, "tag", q.Tokens[1].Head)
	assert.Equal(t, "touhou", q.Tokens[1].Value.Scalar)

	assert.Equal(t, lang.KindSpecial, q.Tokens[2].Kind)
	assert.Equal(t, "liked", q.Tokens[2].Head)

	require.NotNil(t, q.Sort)
	assert.Equal(t, "score", q.Sort.Head)
	assert.Equal(t, lang.SortDesc, q.Sort.SortDir)
}

func TestParse_Negation(t *testing.T) {
	q, err := lang.Parse("-tag:loli")
	require.NoError(t, err)
	require.Len(t, q.Tokens, 1)
	assert.True(t, q.Tokens[0].Negated)
	assert.Equal(t, "tag", q.Tokens[0].Head)
}

func TestParse_ValueKinds(t *testing.T) {
	tests := []struct {
		name  string
		value string
		kind  lang.ValueKind
	}{
		{"scalar", "field:touhou", lang.ValueScalar},
		{"composite", "field:a,b,c", lang.ValueComposite},
		{"range_both", "field:1..10", lang.ValueRange},
		{"range_open_low", "field:..10", lang.ValueRange},
		{"range_open_high", "field:10..", lang.ValueRange},
		{"date_year", "field:2024", lang.ValueDate},
		{"date_month", "field:2024-05", lang.ValueDate},
		{"date_day", "field:2024-05-01", lang.ValueDate},
		{"date_today", "field:today", lang.ValueDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := lang.Parse(tt.value)
			require.NoError(t, err)
			require.Len(t, q.Tokens, 1)
			assert.Equal(t, tt.kind, q.Tokens[0].Value.Kind)
		})
	}
}

func TestParse_RangeBounds(t *testing.T) {
	q, err := lang.Parse("field:5..10")
	require.NoError(t, err)
	v := q.Tokens[0].Value
	assert.True(t, v.HasLow)
	assert.True(t, v.HasHigh)
	assert.Equal(t, "5", v.Low)
	assert.Equal(t, "10", v.High)
}

func TestParse_MalformedNumericRangeErrors(t *testing.T) {
	_, err := lang.Parse("field:10..5")
	assert.Error(t, err)
}

func TestParse_CompositeItems(t *testing.T) {
	q, err := lang.Parse("field:a,b,c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, q.Tokens[0].Value.Items)
}

func TestParse_Escapes(t *testing.T) {
	q, err := lang.Parse(`field:a\:b\,c`)
	require.NoError(t, err)
	assert.Equal(t, lang.ValueScalar, q.Tokens[0].Value.Kind)
	assert.Equal(t, "a:b,c", q.Tokens[0].Value.Scalar)
}

func TestParse_UnclosedEscapeErrors(t *testing.T) {
	_, err := lang.Parse(`field:a\`)
	assert.Error(t, err)
}

func TestParse_UnknownEscapeErrors(t *testing.T) {
	_, err := lang.Parse(`field:a\qb`)
	assert.Error(t, err)
}

func TestParse_SortWithoutDirectionDefaults(t *testing.T) {
	q, err := lang.Parse("sort:id")
	require.NoError(t, err)
	require.NotNil(t, q.Sort)
	assert.Equal(t, lang.SortDefault, q.Sort.SortDir)
}

func TestParse_UnknownSortDirectionErrors(t *testing.T) {
	_, err := lang.Parse("sort:id,sideways")
	assert.Error(t, err)
}

func TestParse_LastSortWins(t *testing.T) {
	q, err := lang.Parse("sort:id sort:score")
	require.NoError(t, err)
	require.NotNil(t, q.Sort)
	assert.Equal(t, "score", q.Sort.Head)
}

func TestParse_EmptyQueryYieldsNoTokens(t *testing.T) {
	q, err := lang.Parse("   ")
	require.NoError(t, err)
	assert.Empty(t, q.Tokens)
	assert.Nil(t, q.Sort)
}
