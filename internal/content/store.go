// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package content is the filesystem data directory described in §6: posts,
// generated/custom thumbnails, and avatars, named by a keyed hash of the
// owning resource's id rather than its database checksum, so a leaked URL
// reveals nothing about row ordering and a content_secret rotation can
// relocate every file deterministically (internal/admin's ResetFilenames).
package content

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Kind selects which subdirectory of the data directory a file belongs to.
type Kind string

const (
	KindPost               Kind = "posts"
	KindGeneratedThumbnail Kind = "generated-thumbnails"
	KindCustomThumbnail    Kind = "custom-thumbnails"
	KindAvatar             Kind = "avatars"
)

// Store is the filesystem data directory rooted at Dir, written only by the
// server process itself (§6: "the filesystem data directory is written by
// the server process only").
type Store struct {
	Dir    string
	Secret string
}

func New(dir, secret string) *Store {
	return &Store{Dir: dir, Secret: secret}
}

// HashName derives the stable, unguessable filename for (kind, id): an
// HMAC-SHA256 of the kind and id keyed by the content secret, hex-encoded
// and truncated to 32 characters. Same (kind, id, secret) always yields the
// same name; rotating the secret (internal/admin.ResetFilenames) changes
// every name at once.
func (s *Store) HashName(kind Kind, id int) string {
	mac := hmac.New(sha256.New, []byte(s.Secret))
	fmt.Fprintf(mac, "%s:%d", kind, id)
	return hex.EncodeToString(mac.Sum(nil))[:32]
}

// Path returns the on-disk path for a (kind, hash, ext) triple. ext should
// not include the leading dot.
func (s *Store) Path(kind Kind, hash, ext string) string {
	name := hash
	if ext != "" {
		name += "." + ext
	}
	return filepath.Join(s.Dir, string(kind), name)
}

// TempPath returns a path under the data directory's temp/ subdirectory for
// a caller-chosen token, used as the write destination before an atomic
// rename into its final Kind directory.
func (s *Store) TempPath(token string) string {
	return filepath.Join(s.Dir, "temp", token)
}

// WriteAtomic writes r to dst by first writing to a sibling temp file in
// the same directory, then renaming it into place, so a reader never
// observes a partially-written file (§6).
func (s *Store) WriteAtomic(dst string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("content: mkdir %s: %w", filepath.Dir(dst), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".tmp-*")
	if err != nil {
		return fmt.Errorf("content: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("content: write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("content: sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("content: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		return fmt.Errorf("content: rename %s to %s: %w", tmpName, dst, err)
	}
	return nil
}

// Open opens an existing file at (kind, hash, ext) for reading.
func (s *Store) Open(kind Kind, hash, ext string) (io.ReadCloser, error) {
	return os.Open(s.Path(kind, hash, ext))
}

// Remove deletes the file at (kind, hash, ext), if present.
func (s *Store) Remove(kind Kind, hash, ext string) error {
	err := os.Remove(s.Path(kind, hash, ext))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("content: remove %s: %w", s.Path(kind, hash, ext), err)
	}
	return nil
}

// Rename moves the file at (kind, oldHash, ext) to (kind, newHash, ext),
// used by internal/admin.ResetFilenames after a content_secret rotation.
// A missing source file is not an error: some posts may already be current.
func (s *Store) Rename(kind Kind, oldHash, newHash, ext string) error {
	if oldHash == newHash {
		return nil
	}
	oldPath := s.Path(kind, oldHash, ext)
	newPath := s.Path(kind, newHash, ext)
	if _, err := os.Stat(oldPath); os.IsNotExist(err) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(newPath), 0o755); err != nil {
		return fmt.Errorf("content: mkdir %s: %w", filepath.Dir(newPath), err)
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("content: rename %s to %s: %w", oldPath, newPath, err)
	}
	return nil
}

// extByMimeType maps the post mime types named in §3 to their on-disk
// extension. Unknown types fall back to "bin" rather than erroring, since a
// missing extension would otherwise crash a filename-reset job mid-run.
var extByMimeType = map[string]string{
	"image/jpeg":             "jpg",
	"image/png":              "png",
	"image/gif":              "gif",
	"image/webp":             "webp",
	"video/mp4":              "mp4",
	"video/webm":             "webm",
	"application/x-shockwave-flash": "swf",
}

// ExtForMimeType returns the conventional file extension (no leading dot)
// for a post's stored mime type.
func ExtForMimeType(mimeType string) string {
	if ext, ok := extByMimeType[mimeType]; ok {
		return ext
	}
	return "bin"
}
