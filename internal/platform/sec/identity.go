// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// Principal is the authenticated identity attached to a request context by
// the Authenticate middleware once the Authorization header has been verified.
//
// For the Basic and Token schemes its fields are read from the database on
// every request, so revocation and rank changes take effect immediately. For
// the Bearer scheme they are copied from the session JWT's claims and can be
// stale until that JWT expires.
type Principal struct {
	UserID   int
	Username string
	Rank     Rank
}

// IsAtLeast reports whether the principal's rank meets or exceeds target.
// A nil Principal is treated as an anonymous caller.
func (p *Principal) IsAtLeast(target Rank) bool {
	if p == nil {
		return RankAnonymous.AtLeast(target)
	}
	return p.Rank.AtLeast(target)
}

// EffectiveRank returns the principal's rank, or RankAnonymous if p is nil.
func (p *Principal) EffectiveRank() Rank {
	if p == nil {
		return RankAnonymous
	}
	return p.Rank
}
