// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"log/slog"
	"time"

	"github.com/yomira/booru/internal/platform/apperr"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, postID int, userID *int, text string) (*Comment, error) {
	if text == "" {
		return nil, apperr.ValidationError("comment text must not be empty")
	}
	c := &Comment{PostID: postID, UserID: userID, Text: text}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id int) (*Comment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPost(ctx context.Context, postID, offset, limit int) ([]*Comment, int, error) {
	return s.repo.ListByPost(ctx, postID, offset, limit)
}

func (s *Service) Update(ctx context.Context, c *Comment, text string, expectedVersion time.Time) error {
	if text == "" {
		return apperr.ValidationError("comment text must not be empty")
	}
	before := *c
	after := *c
	after.Text = text
	if err := s.repo.Update(ctx, &before, &after, expectedVersion); err != nil {
		return err
	}
	*c = after
	return nil
}

func (s *Service) Delete(ctx context.Context, c *Comment) error {
	return s.repo.Delete(ctx, c)
}

func (s *Service) SetScore(ctx context.Context, commentID, userID, score int) error {
	if score < -1 || score > 1 {
		return apperr.ValidationError("score must be -1, 0, or 1")
	}
	return s.repo.SetScore(ctx, commentID, userID, score)
}

func (s *Service) GetScore(ctx context.Context, commentID, userID int) (int, error) {
	return s.repo.GetScore(ctx, commentID, userID)
}
