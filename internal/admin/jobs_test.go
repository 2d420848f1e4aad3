// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yomira/booru/internal/admin"
	"github.com/yomira/booru/internal/content"
	"github.com/yomira/booru/internal/core/post"
)

type fakePostSource struct {
	posts []*post.Post
}

func (f *fakePostSource) ListPage(ctx context.Context, afterID, limit int) ([]*post.Post, error) {
	var page []*post.Post
	for _, p := range f.posts {
		if p.ID > afterID {
			page = append(page, p)
		}
		if len(page) == limit {
			break
		}
	}
	return page, nil
}

type fakeSignatureSetter struct {
	saved []*post.Signature
}

func (f *fakeSignatureSetter) SetSignature(ctx context.Context, sig *post.Signature) error {
	f.saved = append(f.saved, sig)
	return nil
}

func testImage() []byte {
	img := image.NewGray(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x * 7) % 256)})
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func TestRecomputeSignatures_WalksAllPagesAndPersists(t *testing.T) {
	store := content.New(t.TempDir(), "secret")
	posts := []*post.Post{{ID: 1, MimeType: "image/png"}, {ID: 2, MimeType: "image/png"}}
	for _, p := range posts {
		hash := store.HashName(content.KindPost, p.ID)
		path := store.Path(content.KindPost, hash, "png")
		require.NoError(t, store.WriteAtomic(path, bytes.NewReader(testImage())))
	}

	sigs := &fakeSignatureSetter{}
	prog, err := admin.RecomputeSignatures(context.Background(), &fakePostSource{posts: posts}, store, sigs, slog.Default(), 0)

	require.NoError(t, err)
	assert.Equal(t, 2, prog.Processed)
	assert.Equal(t, 0, prog.Failed)
	assert.Equal(t, 2, prog.LastID)
	require.Len(t, sigs.saved, 2)
	assert.Equal(t, 1, sigs.saved[0].PostID)
	assert.Equal(t, 2, sigs.saved[1].PostID)
}

func TestRecomputeSignatures_MissingFileIsCountedNotFatal(t *testing.T) {
	store := content.New(t.TempDir(), "secret")
	posts := []*post.Post{{ID: 1, MimeType: "image/png"}}

	sigs := &fakeSignatureSetter{}
	prog, err := admin.RecomputeSignatures(context.Background(), &fakePostSource{posts: posts}, store, sigs, slog.Default(), 0)

	require.NoError(t, err)
	assert.Equal(t, 0, prog.Processed)
	assert.Equal(t, 1, prog.Failed)
	assert.Equal(t, 1, prog.LastID)
	assert.Empty(t, sigs.saved)
}

func TestResetFilenames_RenamesUnderNewSecret(t *testing.T) {
	dir := t.TempDir()
	oldStore := content.New(dir, "old-secret")
	newStore := content.New(dir, "new-secret")

	p := &post.Post{ID: 7, MimeType: "image/png"}
	oldHash := oldStore.HashName(content.KindPost, p.ID)
	require.NoError(t, oldStore.WriteAtomic(oldStore.Path(content.KindPost, oldHash, "png"), bytes.NewReader(testImage())))

	prog, err := admin.ResetFilenames(context.Background(), &fakePostSource{posts: []*post.Post{p}}, oldStore, newStore, slog.Default(), 0)

	require.NoError(t, err)
	assert.Equal(t, 1, prog.Processed)
	assert.Equal(t, 0, prog.Failed)

	newHash := newStore.HashName(content.KindPost, p.ID)
	f, err := newStore.Open(content.KindPost, newHash, "png")
	require.NoError(t, err)
	defer f.Close()
	got, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, testImage(), got)
}

func TestResetFilenames_ResumesFromLastID(t *testing.T) {
	store := content.New(t.TempDir(), "secret")
	posts := []*post.Post{{ID: 1, MimeType: "image/png"}, {ID: 2, MimeType: "image/png"}, {ID: 3, MimeType: "image/png"}}

	prog, err := admin.ResetFilenames(context.Background(), &fakePostSource{posts: posts}, store, store, slog.Default(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, prog.LastID)
	assert.Equal(t, 2, prog.Processed)
}
