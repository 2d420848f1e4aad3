// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yomira/booru/internal/content"
)

func TestHashName_DeterministicPerSecret(t *testing.T) {
	a := content.New(t.TempDir(), "secret-a")
	b := content.New(t.TempDir(), "secret-b")

	assert.Equal(t, a.HashName(content.KindPost, 42), a.HashName(content.KindPost, 42))
	assert.NotEqual(t, a.HashName(content.KindPost, 42), b.HashName(content.KindPost, 42))
	assert.NotEqual(t, a.HashName(content.KindPost, 42), a.HashName(content.KindPost, 43))
	assert.NotEqual(t, a.HashName(content.KindPost, 42), a.HashName(content.KindGeneratedThumbnail, 42))
}

func TestWriteAtomic_NeverLeavesPartialFile(t *testing.T) {
	store := content.New(t.TempDir(), "secret")
	hash := store.HashName(content.KindPost, 1)
	dst := store.Path(content.KindPost, hash, "jpg")

	require.NoError(t, store.WriteAtomic(dst, bytes.NewReader([]byte("fake-jpeg-bytes"))))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "fake-jpeg-bytes", string(got))

	entries, err := os.ReadDir(filepath.Dir(dst))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-", "temp file should not survive a successful write")
	}
}

func TestRename_MissingSourceIsNotAnError(t *testing.T) {
	store := content.New(t.TempDir(), "secret")
	err := store.Rename(content.KindPost, "does-not-exist", "new-name", "jpg")
	assert.NoError(t, err)
}

func TestRename_MovesFileToNewHash(t *testing.T) {
	store := content.New(t.TempDir(), "secret")
	oldHash, newHash := "old-hash", "new-hash"

	oldPath := store.Path(content.KindPost, oldHash, "jpg")
	require.NoError(t, store.WriteAtomic(oldPath, bytes.NewReader([]byte("bytes"))))

	require.NoError(t, store.Rename(content.KindPost, oldHash, newHash, "jpg"))

	_, err := os.Stat(oldPath)
	assert.True(t, os.IsNotExist(err))

	got, err := os.ReadFile(store.Path(content.KindPost, newHash, "jpg"))
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(got))
}

func TestExtForMimeType(t *testing.T) {
	assert.Equal(t, "jpg", content.ExtForMimeType("image/jpeg"))
	assert.Equal(t, "png", content.ExtForMimeType("image/png"))
	assert.Equal(t, "bin", content.ExtForMimeType("application/octet-stream"))
}
