// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"image"
	"log/slog"
	"sort"
	"time"

	"github.com/yomira/booru/internal/platform/apperr"
	"github.com/yomira/booru/internal/signature"
)

// TagResolver auto-creates tags referenced by name that don't exist yet,
// per the upload lifecycle note (missing tags land in the default category).
type TagResolver interface {
	ResolveOrCreateByName(ctx context.Context, names []string) ([]int, error)
}

// Service orchestrates the post write path: version checks, tag/relation
// diffing, cycle checks on relations, and reverse-search's two-tier filter.
type Service struct {
	repo      Repository
	tags      TagResolver
	logger    *slog.Logger
	simThresh float64
}

// NewService wires a post service. similarityThreshold is the maximum
// Euclidean signature distance accepted as a reverse-search match (§4.C).
func NewService(repo Repository, tags TagResolver, logger *slog.Logger, similarityThreshold float64) *Service {
	return &Service{repo: repo, tags: tags, logger: logger, simThresh: similarityThreshold}
}

// # Lifecycle

func (s *Service) Create(ctx context.Context, actorUserID *int, p *Post, tagNames []string, relatedIDs []int, notes []Note) (*Post, error) {
	tagIDs, err := s.tags.ResolveOrCreateByName(ctx, tagNames)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p, tagIDs, actorUserID); err != nil {
		return nil, err
	}
	if len(relatedIDs) > 0 {
		for _, relatedID := range relatedIDs {
			would, err := s.repo.WouldCycle(ctx, p.ID, relatedID)
			if err != nil {
				return nil, err
			}
			if would {
				return nil, apperr.CyclicDependency("post relation")
			}
		}
		if err := s.repo.SetRelations(ctx, p.ID, relatedIDs); err != nil {
			return nil, err
		}
		p.RelationIDs = relatedIDs
	}
	if len(notes) > 0 {
		if err := s.repo.SetNotes(ctx, p.ID, notes); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id int) (*Post, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByChecksum(ctx context.Context, checksum string) (*Post, error) {
	return s.repo.GetByChecksum(ctx, checksum)
}

// ListPage returns up to limit posts with id > afterID, ordered by id
// ascending. Used by resumable batch jobs (internal/admin) rather than by
// any HTTP handler, so it takes a page cursor instead of offset/limit.
func (s *Service) ListPage(ctx context.Context, afterID, limit int) ([]*Post, error) {
	return s.repo.ListPage(ctx, afterID, limit)
}

// Update applies the caller's field changes to a copy of the currently
// stored post, then persists the diff under the expected version, per
// §4.F's "re-read, diff, version-check" protocol.
func (s *Service) Update(ctx context.Context, actorUserID *int, after *Post, expectedVersion time.Time, tagNames []string, relatedIDs []int) error {
	before, err := s.repo.GetByID(ctx, after.ID)
	if err != nil {
		return err
	}

	if err := s.repo.Update(ctx, before, after, expectedVersion, actorUserID); err != nil {
		return err
	}

	if tagNames != nil {
		tagIDs, err := s.tags.ResolveOrCreateByName(ctx, tagNames)
		if err != nil {
			return err
		}
		if err := s.repo.SetTags(ctx, after.ID, tagIDs); err != nil {
			return err
		}
		after.TagIDs = tagIDs
	}

	if relatedIDs != nil {
		for _, relatedID := range relatedIDs {
			would, err := s.repo.WouldCycle(ctx, after.ID, relatedID)
			if err != nil {
				return err
			}
			if would {
				return apperr.CyclicDependency("post relation")
			}
		}
		if err := s.repo.SetRelations(ctx, after.ID, relatedIDs); err != nil {
			return err
		}
		after.RelationIDs = relatedIDs
	}

	return nil
}

func (s *Service) Delete(ctx context.Context, actorUserID *int, p *Post) error {
	return s.repo.Delete(ctx, p, actorUserID)
}

// # Favorites / features / notes / scores

func (s *Service) AddFavorite(ctx context.Context, postID, userID int) error {
	return s.repo.AddFavorite(ctx, postID, userID)
}

func (s *Service) RemoveFavorite(ctx context.Context, postID, userID int) error {
	return s.repo.RemoveFavorite(ctx, postID, userID)
}

func (s *Service) ListFavoriteUserIDs(ctx context.Context, postID int) ([]int, error) {
	return s.repo.ListFavoriteUserIDs(ctx, postID)
}

func (s *Service) Feature(ctx context.Context, postID, userID int) (*Feature, error) {
	return s.repo.Feature(ctx, postID, userID)
}

func (s *Service) GetCurrentFeature(ctx context.Context) (*Feature, error) {
	return s.repo.GetCurrentFeature(ctx)
}

func (s *Service) ListNotes(ctx context.Context, postID int) ([]*Note, error) {
	return s.repo.ListNotes(ctx, postID)
}

func (s *Service) SetNotes(ctx context.Context, postID int, notes []Note) error {
	return s.repo.SetNotes(ctx, postID, notes)
}

// SetScore accepts only {-1, 0, +1}; any other value is rejected rather than
// silently clamped, since an out-of-range vote usually means a client bug.
func (s *Service) SetScore(ctx context.Context, postID, userID, score int) error {
	if score < -1 || score > 1 {
		return apperr.ValidationError("score must be -1, 0, or 1")
	}
	return s.repo.SetScore(ctx, postID, userID, score)
}

func (s *Service) GetScore(ctx context.Context, postID, userID int) (int, error) {
	return s.repo.GetScore(ctx, postID, userID)
}

// # Reverse search

// SimilarityMatch is one ranked result of FindSimilar: a candidate post
// plus how far its signature is from the query and whether it's close
// enough to call the same underlying image rather than merely similar.
type SimilarityMatch struct {
	Post     *Signature `json:"post"`
	Distance float64    `json:"distance"`
	Exact    bool       `json:"exact"`
}

// FindSimilar runs the two-tier reverse search of §4.C: FindByWordOverlap
// is the coarse filter (inverted-index word overlap, deliberately not
// truncated in SQL), then the normalised Euclidean distance over the full
// signature vector ranks and prunes the candidates by simThresh. checksum,
// when non-empty, marks the candidate whose stored post has that checksum
// as "exact" whatever its distance; that candidate must still share a word
// with the query and fall within simThresh to be returned at all.
func (s *Service) FindSimilar(ctx context.Context, query *Signature, checksum string, limit int) ([]*SimilarityMatch, error) {
	candidates, err := s.repo.FindByWordOverlap(ctx, query.Words)
	if err != nil {
		return nil, err
	}

	var exactChecksumPostID int
	if checksum != "" {
		if existing, err := s.repo.GetByChecksum(ctx, checksum); err == nil && existing != nil {
			exactChecksumPostID = existing.ID
		}
	}

	matches := make([]*SimilarityMatch, 0, len(candidates))
	for _, c := range candidates {
		if c.PostID == query.PostID {
			continue
		}
		d := signature.Distance(query.Signature, c.Signature)
		if d > s.simThresh {
			continue
		}
		matches = append(matches, &SimilarityMatch{
			Post:     c,
			Distance: d,
			Exact:    signature.IsExact(d) || c.PostID == exactChecksumPostID,
		})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Distance < matches[j].Distance })
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (s *Service) SetSignature(ctx context.Context, sig *Signature) error {
	return s.repo.SetSignature(ctx, sig)
}

func (s *Service) GetSignature(ctx context.Context, postID int) (*Signature, error) {
	return s.repo.GetSignature(ctx, postID)
}

// ComputeSignature derives a perceptual signature from a decoded image,
// per §4.C's pipeline in internal/signature.
func ComputeSignature(img image.Image) (*Signature, error) {
	sig, err := signature.Compute(img)
	if err != nil {
		return nil, err
	}
	return &Signature{Signature: sig.Vector, Words: sig.Words}, nil
}
