// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"log/slog"
	"time"

	"github.com/yomira/booru/internal/platform/apperr"
)

// Service orchestrates category and tag mutations: version checks, cyclic
// dependency guards on the implication/suggestion graphs, and merges.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// # Categories

func (s *Service) CreateCategory(ctx context.Context, actorUserID *int, name, color string, order int) (*Category, error) {
	c := &Category{Name: name, Color: color, Order: order}
	if err := s.repo.CreateCategory(ctx, c, actorUserID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) GetCategory(ctx context.Context, id int) (*Category, error) {
	return s.repo.GetCategoryByID(ctx, id)
}

func (s *Service) GetCategoryByName(ctx context.Context, name string) (*Category, error) {
	return s.repo.GetCategoryByName(ctx, name)
}

func (s *Service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.repo.ListCategories(ctx)
}

// UpdateCategory re-reads the currently stored category so the snapshot can
// carry a before/after diff, then persists after under the expected version.
func (s *Service) UpdateCategory(ctx context.Context, actorUserID *int, after *Category, expectedVersion time.Time) error {
	before, err := s.repo.GetCategoryByID(ctx, after.ID)
	if err != nil {
		return err
	}
	return s.repo.UpdateCategory(ctx, before, after, expectedVersion, actorUserID)
}

// DeleteCategory removes a category. The default category (id 0) can never
// be deleted; tags belonging to a deleted category are reparented to it by
// the schema's ON DELETE SET DEFAULT foreign key.
func (s *Service) DeleteCategory(ctx context.Context, actorUserID *int, id int) error {
	c, err := s.repo.GetCategoryByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.DeleteCategory(ctx, c, actorUserID)
}

// # Tags

func (s *Service) CreateTag(ctx context.Context, actorUserID *int, categoryID int, description string, names []string) (*Tag, error) {
	if len(names) == 0 {
		return nil, apperr.ValidationError("a tag needs at least one name")
	}
	t := &Tag{CategoryID: categoryID, Description: description}
	if err := s.repo.CreateTag(ctx, t, names, actorUserID); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) GetTag(ctx context.Context, id int) (*Tag, error) {
	return s.repo.GetTagByID(ctx, id)
}

func (s *Service) GetTagByName(ctx context.Context, name string) (*Tag, error) {
	return s.repo.GetTagByName(ctx, name)
}

func (s *Service) ListTags(ctx context.Context, offset, limit int, namePattern string) ([]*Tag, int, error) {
	return s.repo.ListTags(ctx, offset, limit, namePattern)
}

func (s *Service) UpdateTag(ctx context.Context, actorUserID *int, after *Tag, names []string, expectedVersion time.Time) error {
	if names != nil && len(names) == 0 {
		return apperr.ValidationError("a tag needs at least one name")
	}
	before, err := s.repo.GetTagByID(ctx, after.ID)
	if err != nil {
		return err
	}
	return s.repo.UpdateTag(ctx, before, after, names, expectedVersion, actorUserID)
}

func (s *Service) DeleteTag(ctx context.Context, actorUserID *int, id int) error {
	t, err := s.repo.GetTagByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.DeleteTag(ctx, t, actorUserID)
}

// ResolveOrCreateByName looks up each name against tag_name, auto-creating a
// new tag in the default category for any name that doesn't resolve, per
// the post upload lifecycle's "auto-creating missing ones" rule.
func (s *Service) ResolveOrCreateByName(ctx context.Context, names []string) ([]int, error) {
	ids := make([]int, 0, len(names))
	for _, name := range names {
		t, err := s.repo.GetTagByName(ctx, name)
		if err == nil {
			ids = append(ids, t.ID)
			continue
		}
		if ae := apperr.As(err); ae == nil || ae.Code != "NOT_FOUND" {
			return nil, err
		}
		created := &Tag{CategoryID: defaultCategoryID}
		if err := s.repo.CreateTag(ctx, created, []string{name}, nil); err != nil {
			return nil, err
		}
		ids = append(ids, created.ID)
	}
	return ids, nil
}

// # Implications / suggestions
//
// Both graphs are directed and must stay acyclic: before an edge is
// inserted, the repository walks the transitive closure of the proposed
// child to confirm the proposed parent isn't already reachable from it.

func (s *Service) AddImplication(ctx context.Context, parentID, childID int) error {
	return s.addEdge(ctx, "implication", parentID, childID, s.repo.AddImplication)
}

func (s *Service) RemoveImplication(ctx context.Context, parentID, childID int) error {
	return s.repo.RemoveImplication(ctx, parentID, childID)
}

func (s *Service) AddSuggestion(ctx context.Context, parentID, childID int) error {
	return s.addEdge(ctx, "suggestion", parentID, childID, s.repo.AddSuggestion)
}

func (s *Service) RemoveSuggestion(ctx context.Context, parentID, childID int) error {
	return s.repo.RemoveSuggestion(ctx, parentID, childID)
}

func (s *Service) addEdge(ctx context.Context, relation string, parentID, childID int, add func(context.Context, int, int) error) error {
	would, err := s.repo.WouldCycle(ctx, relation, parentID, childID)
	if err != nil {
		return err
	}
	if would {
		return apperr.CyclicDependency(relation)
	}
	return add(ctx, parentID, childID)
}

// # Merge

// Merge folds sourceID into targetID: every post tagged with source ends up
// tagged with target instead, the implication/suggestion graphs are
// re-homed, usage counts are summed, and source is deleted.
func (s *Service) Merge(ctx context.Context, actorUserID *int, sourceID, targetID int) error {
	if sourceID == targetID {
		return apperr.SelfMerge("Tag")
	}
	return s.repo.Merge(ctx, sourceID, targetID, actorUserID)
}
