// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package compile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yomira/booru/internal/query/compile"
)

/*
TestResources_CompileCleanly runs every static resource through Compile
with an empty query, an explicit sort, and a full field projection, so a
typo in a SortColumns/Fields wiring (an undefined alias, a join that never
gets registered) surfaces as a test failure instead of a runtime 500.
*/
func TestResources_CompileCleanly(t *testing.T) {
	resources := map[string]*compile.Resource{
		"post":    compile.Post,
		"tag":     compile.Tag,
		"pool":    compile.Pool,
		"comment": compile.Comment,
		"user":    compile.User,
	}
	for name, res := range resources {
		t.Run(name, func(t *testing.T) {
			q := mustParse(t, "")
			_, err := compile.Compile(res, q, nil, nil, 0, 20, "seed")
			require.NoError(t, err)

			var projected []string
			for field := range res.Fields {
				projected = append(projected, field)
			}
			_, err = compile.Compile(res, q, nil, projected, 0, 20, "seed")
			require.NoError(t, err)

			for style := range res.SortColumns {
				sq := mustParse(t, "sort:"+style)
				_, err := compile.Compile(res, sq, nil, nil, 0, 20, "seed")
				require.NoError(t, err, "sort style %q", style)
			}
		})
	}
}

func TestPost_SpecialFiltersKnown(t *testing.T) {
	for _, name := range []string{"liked", "disliked", "fav", "tumbleweed"} {
		_, ok := compile.Post.SpecialFilters[name]
		assert.True(t, ok, name)
	}
}

func TestPost_AnonymousSeesOnlySafeContent(t *testing.T) {
	q := mustParse(t, "")
	c, err := compile.Compile(compile.Post, q, nil, nil, 0, 20, "seed")
	require.NoError(t, err)
	assert.Contains(t, c.SQL, "safety")
}
