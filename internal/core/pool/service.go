// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pool

import (
	"context"
	"log/slog"
	"time"

	"github.com/yomira/booru/internal/platform/apperr"
)

// Service orchestrates category, pool, and post-membership mutations.
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

func (s *Service) DeleteCategory(ctx context.Context, actorUserID *int, id int) error {
	c, err := s.repo.GetCategoryByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.DeleteCategory(ctx, c, actorUserID)
}

// # Pools

func (s *Service) CreatePool(ctx context.Context, actorUserID *int, categoryID int, description string, names []string, postIDs []int) (*Pool, error) {
	if len(names) == 0 {
		return nil, apperr.ValidationError("a pool needs at least one name")
	}
	p := &Pool{CategoryID: categoryID, Description: description}
	if err := s.repo.CreatePool(ctx, p, names, actorUserID); err != nil {
		return nil, err
	}
	if len(postIDs) > 0 {
		if err := s.repo.SetPosts(ctx, p.ID, postIDs); err != nil {
			return nil, err
		}
		p.PostCount = len(postIDs)
	}
	return p, nil
}

func (s *Service) GetPool(ctx context.Context, id int) (*Pool, error) {
	return s.repo.GetPoolByID(ctx, id)
}

func (s *Service) GetPoolByName(ctx context.Context, name string) (*Pool, error) {
	return s.repo.GetPoolByName(ctx, name)
}

func (s *Service) ListPools(ctx context.Context, offset, limit int, namePattern string) ([]*Pool, int, error) {
	return s.repo.ListPools(ctx, offset, limit, namePattern)
}

func (s *Service) UpdatePool(ctx context.Context, actorUserID *int, after *Pool, names []string, expectedVersion time.Time) error {
	if names != nil && len(names) == 0 {
		return apperr.ValidationError("a pool needs at least one name")
	}
	before, err := s.repo.GetPoolByID(ctx, after.ID)
	if err != nil {
		return err
	}
	return s.repo.UpdatePool(ctx, before, after, names, expectedVersion, actorUserID)
}

func (s *Service) DeletePool(ctx context.Context, actorUserID *int, id int) error {
	p, err := s.repo.GetPoolByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.DeletePool(ctx, p, actorUserID)
}

// # Post membership

func (s *Service) ListPosts(ctx context.Context, poolID int) ([]int, error) {
	return s.repo.ListPosts(ctx, poolID)
}

// Reorder replaces poolID's entire post membership with postIDs in the
// given order, maintaining the dense-permutation invariant on PoolPost.order.
func (s *Service) Reorder(ctx context.Context, poolID int, postIDs []int) error {
	return s.repo.SetPosts(ctx, poolID, postIDs)
}

func (s *Service) AddPost(ctx context.Context, poolID, postID int) error {
	return s.repo.AppendPost(ctx, poolID, postID)
}

func (s *Service) RemovePost(ctx context.Context, poolID, postID int) error {
	return s.repo.RemovePost(ctx, poolID, postID)
}

// # Merge

// Merge folds sourceID into targetID: target keeps its own post order and
// gains any of source's posts it didn't already have, appended in source's
// order; source is then deleted.
func (s *Service) Merge(ctx context.Context, actorUserID *int, sourceID, targetID int) error {
	if sourceID == targetID {
		return apperr.SelfMerge("Pool")
	}
	return s.repo.Merge(ctx, sourceID, targetID, actorUserID)
}
