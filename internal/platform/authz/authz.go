// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package authz implements the rank × privilege authorization matrix.

Every mutating or sensitive read action in the API is named by a lowercase,
underscore-separated privilege string (e.g. "post_edit_tag",
"post_view_featured"). The matrix maps each privilege to the minimum [sec.Rank]
required to perform it. Actions that distinguish acting on one's own resource
from acting on anyone's carry both a "_self" and an "_any" variant; the
caller is responsible for checking ownership before consulting the "_self"
variant (see [Allow]'s doc comment).

Unknown privilege names resolve to the highest rank (administrator) to fail
safe: a typo in a privilege string can never accidentally open up an action,
only close it down further than intended.
*/
package authz

import "github.com/yomira/booru/internal/platform/sec"

// Matrix maps privilege name to the minimum rank required to exercise it.
// [Load] can install an override, but nothing in the module calls it and
// Config has no privilege-matrix setting, so [Default] is the matrix in
// effect. An installed Matrix is never mutated — concurrent reads need no
// locking.
type Matrix map[string]sec.Rank

// Default is the built-in privilege matrix, used when no configuration
// override is loaded. It mirrors a conservative, anonymous-friendly-read
// image board: browsing is open, mutation requires an account, destructive
// or cross-user actions require elevated rank.
var Default = Matrix{
	"user_create":        sec.RankAnonymous,
	"user_list":           sec.RankAnonymous,
	"user_view":           sec.RankAnonymous,
	"user_edit_self":      sec.RankRestricted,
	"user_edit_any":       sec.RankModerator,
	"user_edit_rank":      sec.RankAdministrator,
	"user_delete_self":    sec.RankRegular,
	"user_delete_any":     sec.RankAdministrator,

	"post_list":            sec.RankAnonymous,
	"post_view":            sec.RankAnonymous,
	"post_view_featured":   sec.RankAnonymous,
	"post_view_unsafe":     sec.RankRegular,
	"post_create":          sec.RankRegular,
	"post_edit_content":    sec.RankPower,
	"post_edit_tag":        sec.RankRegular,
	"post_edit_safety":     sec.RankPower,
	"post_edit_source":     sec.RankRegular,
	"post_edit_relation":   sec.RankRegular,
	"post_edit_note":       sec.RankRegular,
	"post_edit_flag":       sec.RankPower,
	"post_feature":         sec.RankModerator,
	"post_delete":          sec.RankPower,
	"post_favorite":        sec.RankRegular,
	"post_score":           sec.RankRegular,
	"post_merge":           sec.RankPower,
	"post_reverse_search":  sec.RankAnonymous,

	"tag_list":        sec.RankAnonymous,
	"tag_view":        sec.RankAnonymous,
	"tag_create":      sec.RankRegular,
	"tag_edit_name":   sec.RankPower,
	"tag_edit_category": sec.RankPower,
	"tag_edit_implication": sec.RankPower,
	"tag_edit_suggestion":  sec.RankPower,
	"tag_delete":      sec.RankPower,
	"tag_merge":       sec.RankPower,
	"tag_category_edit": sec.RankModerator,

	"pool_list":   sec.RankAnonymous,
	"pool_view":   sec.RankAnonymous,
	"pool_create": sec.RankRegular,
	"pool_edit":   sec.RankRegular,
	"pool_delete": sec.RankPower,
	"pool_merge":  sec.RankPower,
	"pool_category_edit": sec.RankModerator,

	"comment_list":      sec.RankAnonymous,
	"comment_create":    sec.RankRegular,
	"comment_edit_self": sec.RankRegular,
	"comment_edit_any":  sec.RankModerator,
	"comment_delete_self": sec.RankRegular,
	"comment_delete_any":  sec.RankModerator,
	"comment_score":       sec.RankRegular,

	"snapshot_list": sec.RankPower,

	"admin_job_run": sec.RankAdministrator,
}

// active is the matrix consulted by [Allow]. It defaults to [Default]; [Load]
// replaces it with [Default] merged with an override.
var active = Default

// Load installs [Default] merged with overrides as the active privilege
// matrix. Entries [Default] defines but overrides omits keep their default
// value, so an override only needs to list the privileges it changes.
func Load(overrides Matrix) {
	merged := make(Matrix, len(Default)+len(overrides))
	for k, v := range Default {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	active = merged
}

// RankFor returns the minimum rank required for privilege, failing safe to
// [sec.RankAdministrator] when privilege is not a recognized key.
func RankFor(privilege string) sec.Rank {
	rank, ok := active[privilege]
	if !ok {
		return sec.RankAdministrator
	}
	return rank
}

// Allow reports whether p's effective rank clears the minimum rank
// configured for privilege. A nil p is treated as an anonymous caller.
//
// Allow only checks the rank axis of the matrix. For privileges with a
// "_self"/"_any" split, the caller must first decide which variant applies
// by comparing the acted-upon resource's owning user id against p.UserID,
// then pass the matching privilege name — Allow does not know about
// resource ownership.
func Allow(p *sec.Principal, privilege string) bool {
	return p.IsAtLeast(RankFor(privilege))
}
