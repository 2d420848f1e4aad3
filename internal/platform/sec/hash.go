// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// # Password Security (Argon2id)

// Argon2 tuning parameters. These follow the OWASP baseline recommendation
// for argon2id (m=19MiB was the old default; we use a larger memory cost
// since this service runs on a single, non-memory-constrained host).
const (
	argon2Time    = 2
	argon2MemKiB  = 64 * 1024
	argon2Threads = 4
	argon2KeyLen  = 32
	saltLen       = 16
)

// HashPassword derives an Argon2id hash for plainTextPassword and encodes it,
// together with its salt and parameters, into a single self-describing string
// of the form "$argon2id$v=19$m=...,t=...,p=...$<salt>$<hash>".
func HashPassword(plainTextPassword string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("sec: failed to generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(plainTextPassword), salt, argon2Time, argon2MemKiB, argon2Threads, argon2KeyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argon2MemKiB, argon2Time, argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)
	return encoded, nil
}

// CheckPasswordHash compares a plain-text password against an encoded
// Argon2id hash produced by [HashPassword]. Comparison of the derived key is
// constant-time to prevent timing attacks.
func CheckPasswordHash(plainTextPassword, encodedHash string) bool {
	params, salt, hash, err := decodeArgon2Hash(encodedHash)
	if err != nil {
		return false
	}

	candidate := argon2.IDKey([]byte(plainTextPassword), salt, params.time, params.memory, params.threads, uint32(len(hash)))
	return subtle.ConstantTimeCompare(candidate, hash) == 1
}

type argon2Params struct {
	memory  uint32
	time    uint32
	threads uint8
}

func decodeArgon2Hash(encoded string) (argon2Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return argon2Params{}, nil, nil, fmt.Errorf("sec: malformed argon2id hash")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return argon2Params{}, nil, nil, fmt.Errorf("sec: malformed version segment: %w", err)
	}

	var params argon2Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.time, &params.threads); err != nil {
		return argon2Params{}, nil, nil, fmt.Errorf("sec: malformed parameter segment: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return argon2Params{}, nil, nil, fmt.Errorf("sec: malformed salt: %w", err)
	}

	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return argon2Params{}, nil, nil, fmt.Errorf("sec: malformed digest: %w", err)
	}

	return params, salt, hash, nil
}

// # Token Security (CSPRNG & SHA-256)

// tokenByteLen is the length of a generated opaque bearer token: 128 bits.
const tokenByteLen = 16

// GenerateOpaqueToken creates a cryptographically secure 128-bit bearer
// token. The return value is the URL-safe base64 string handed to the
// client; only its SHA-256 digest ([HashToken]) is ever persisted.
func GenerateOpaqueToken() (string, error) {
	raw := make([]byte, tokenByteLen)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("sec: failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// HashToken generates a SHA-256 hash of a bearer token for storage lookup.
// Raw tokens are never persisted: a leaked database dump must not be
// directly replayable as a credential.
func HashToken(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}

// HashTokenHex is [HashToken] encoded as hex. It is the form stored in
// user_token.token and used to look tokens up.
func HashTokenHex(token string) string {
	sum := HashToken(token)
	return hex.EncodeToString(sum)
}
