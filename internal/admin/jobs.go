// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package admin implements the long-running maintenance jobs described in
// §9's Design Notes: recompute_signatures and reset_filenames. Both are
// structured as explicit iterators over (id, version) pairs — here, pages
// of posts in ascending id order — with one unit of work per post and
// idempotent effects, so a crash or restart resumes from the last
// successfully processed id instead of redoing the whole run. The
// (out-of-scope) administrator CLI is the intended caller; this package is
// the library it would call into.
package admin

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"

	"github.com/yomira/booru/internal/content"
	"github.com/yomira/booru/internal/core/post"
)

// PageSize bounds how many posts a single ListPage call fetches per batch,
// keeping each resumable job's working set small and its progress
// checkpoints frequent.
const PageSize = 100

// PostSource is the subset of post.Service a batch job pages through.
type PostSource interface {
	ListPage(ctx context.Context, afterID, limit int) ([]*post.Post, error)
}

// SignatureSetter persists a recomputed perceptual signature.
type SignatureSetter interface {
	SetSignature(ctx context.Context, sig *post.Signature) error
}

// ContentOpener is the subset of *content.Store a signature-recompute job
// needs to read a post's stored bytes back.
type ContentOpener interface {
	HashName(kind content.Kind, id int) string
	Open(kind content.Kind, hash, ext string) (io.ReadCloser, error)
}

// Progress reports a resumable job's position so a caller can persist it
// and resume a later run from LastID instead of starting over.
type Progress struct {
	LastID    int
	Processed int
	Failed    int
}

// RecomputeSignatures walks every post in id order and recomputes its
// perceptual signature from its stored content, overwriting whatever
// internal/signature produced at upload time — the job exists for when the
// signature scheme's parameters change and every existing post needs its
// signature brought current. A failure reading or signing one post is
// logged and counted rather than aborting the run, since a single
// corrupted or missing file shouldn't stall the rest of the library.
func RecomputeSignatures(ctx context.Context, posts PostSource, store ContentOpener, sigs SignatureSetter, logger *slog.Logger, afterID int) (Progress, error) {
	prog := Progress{LastID: afterID}
	for {
		page, err := posts.ListPage(ctx, prog.LastID, PageSize)
		if err != nil {
			return prog, fmt.Errorf("admin: list posts after %d: %w", prog.LastID, err)
		}
		if len(page) == 0 {
			return prog, nil
		}

		for _, p := range page {
			if err := ctx.Err(); err != nil {
				return prog, err
			}
			if err := recomputeOne(ctx, p, store, sigs); err != nil {
				prog.Failed++
				logger.Warn("recompute_signature_failed",
					slog.Int("post_id", p.ID), slog.Any("error", err))
			} else {
				prog.Processed++
			}
			prog.LastID = p.ID
		}
	}
}

func recomputeOne(ctx context.Context, p *post.Post, store ContentOpener, sigs SignatureSetter) error {
	hash := store.HashName(content.KindPost, p.ID)
	ext := content.ExtForMimeType(p.MimeType)

	f, err := store.Open(content.KindPost, hash, ext)
	if err != nil {
		return fmt.Errorf("open content: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	sig, err := post.ComputeSignature(img)
	if err != nil {
		return fmt.Errorf("compute signature: %w", err)
	}
	sig.PostID = p.ID

	if err := sigs.SetSignature(ctx, sig); err != nil {
		return fmt.Errorf("persist signature: %w", err)
	}
	return nil
}

// ResetFilenames recomputes every post's content filename under a new
// content secret and renames any file still sitting at the name derived
// from the old one — the job a CONTENT_SECRET rotation requires, since
// filenames are a keyed hash of (kind, post id, secret) rather than stored
// in the database. A post whose file was already renamed, or never
// existed under the old name, is a no-op rather than an error, so a
// half-finished prior run resumes cleanly from afterID.
func ResetFilenames(ctx context.Context, posts PostSource, oldStore, newStore *content.Store, logger *slog.Logger, afterID int) (Progress, error) {
	prog := Progress{LastID: afterID}
	for {
		page, err := posts.ListPage(ctx, prog.LastID, PageSize)
		if err != nil {
			return prog, fmt.Errorf("admin: list posts after %d: %w", prog.LastID, err)
		}
		if len(page) == 0 {
			return prog, nil
		}

		for _, p := range page {
			if err := ctx.Err(); err != nil {
				return prog, err
			}
			ext := content.ExtForMimeType(p.MimeType)
			oldHash := oldStore.HashName(content.KindPost, p.ID)
			newHash := newStore.HashName(content.KindPost, p.ID)
			if err := newStore.Rename(content.KindPost, oldHash, newHash, ext); err != nil {
				prog.Failed++
				logger.Warn("reset_filename_failed",
					slog.Int("post_id", p.ID), slog.Any("error", err))
			} else {
				prog.Processed++
			}
			prog.LastID = p.ID
		}
	}
}
