// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"context"
	"log/slog"
	"time"

	"github.com/yomira/booru/internal/platform/apperr"
	"github.com/yomira/booru/internal/platform/sec"
)

// SessionSigner mints and checks the stateless "Bearer" session fast path.
// Implemented by [sec.TokenService]; abstracted here so Service stays
// testable without a real RSA keypair.
type SessionSigner interface {
	Sign(p *sec.Principal, tokenID int, ttl time.Duration) (string, error)
	Verify(sessionToken string) (*sec.SessionClaims, error)
}

// SessionTTL bounds how long a signed session JWT is trusted before the
// client must present the opaque token again, refreshing the rank snapshot.
const SessionTTL = 24 * time.Hour

// Service implements account registration, credential verification, and
// token lifecycle management.
type Service struct {
	repo    Repository
	signer  SessionSigner
	logger  *slog.Logger
	defRank sec.Rank
}

func NewService(repo Repository, signer SessionSigner, defaultRank sec.Rank, logger *slog.Logger) *Service {
	return &Service{repo: repo, signer: signer, defRank: defaultRank, logger: logger}
}

// Register creates a new user with a freshly Argon2id-hashed password.
//
// PasswordSalt is left empty: [sec.HashPassword] embeds the salt in its
// self-describing encoded hash, so the column exists only for schemas that
// pre-date the argon2id switch.
func (s *Service) Register(ctx context.Context, name, password string, email *string) (*User, error) {
	hash, err := sec.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	u := &User{
		Name:         name,
		Rank:         s.defRank,
		Email:        email,
		AvatarStyle:  AvatarStyleGravatar,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, u, nil); err != nil {
		return nil, err
	}
	return u, nil
}

// VerifyPassword implements [middleware.TokenVerifier] for the Basic scheme.
func (s *Service) VerifyPassword(ctx context.Context, username, password string) (*sec.Principal, error) {
	u, err := s.repo.GetByName(ctx, username)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid username or password")
	}

	if !sec.CheckPasswordHash(password, u.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid username or password")
	}

	_ = s.repo.TouchLastLogin(ctx, u.ID, time.Now().UTC())

	return &sec.Principal{UserID: u.ID, Username: u.Name, Rank: u.Rank}, nil
}

// VerifyOpaqueToken implements [middleware.TokenVerifier] for the Token scheme.
func (s *Service) VerifyOpaqueToken(ctx context.Context, username, rawToken string) (*sec.Principal, error) {
	u, err := s.repo.GetByName(ctx, username)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid username or token")
	}

	hash := sec.HashTokenHex(rawToken)
	t, err := s.repo.GetTokenByHash(ctx, hash)
	if err != nil || t.UserID != u.ID {
		return nil, apperr.Unauthorized("Invalid username or token")
	}
	if !t.Enabled {
		return nil, apperr.Unauthorized("Token has been disabled")
	}
	if t.IsExpired(time.Now().UTC()) {
		return nil, apperr.ExpiredToken()
	}

	_ = s.repo.TouchTokenUsage(ctx, t.ID, time.Now().UTC())

	return &sec.Principal{UserID: u.ID, Username: u.Name, Rank: u.Rank}, nil
}

// VerifySession implements [middleware.TokenVerifier] for the Bearer scheme.
//
// The JWT signature and expiry are checked locally; the rank it carries may
// be briefly stale relative to the database (bounded by [SessionTTL]).
func (s *Service) VerifySession(ctx context.Context, sessionToken string) (*sec.Principal, error) {
	claims, err := s.signer.Verify(sessionToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired session")
	}
	return &sec.Principal{UserID: claims.UserID, Username: claims.Username, Rank: claims.Rank}, nil
}

// IssueToken creates a new opaque bearer token for userID and, alongside it,
// a signed session JWT wrapping that token's identity.
func (s *Service) IssueToken(ctx context.Context, userID int, note *string, expiration *time.Time) (rawToken string, t *Token, sessionJWT string, err error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", nil, "", err
	}

	rawToken, err = sec.GenerateOpaqueToken()
	if err != nil {
		return "", nil, "", apperr.Internal(err)
	}

	t = &Token{
		UserID:    userID,
		TokenHash: sec.HashTokenHex(rawToken),
		Note:      note,
		Enabled:   true,
	}
	if expiration != nil {
		t.ExpirationTime = expiration
	}
	if err := s.repo.CreateToken(ctx, t); err != nil {
		return "", nil, "", err
	}

	principal := &sec.Principal{UserID: u.ID, Username: u.Name, Rank: u.Rank}
	sessionJWT, err = s.signer.Sign(principal, t.ID, SessionTTL)
	if err != nil {
		s.logger.Warn("session_jwt_sign_failed", slog.Any("error", err))
		sessionJWT = ""
	}

	return rawToken, t, sessionJWT, nil
}

func (s *Service) ListTokens(ctx context.Context, userID int) ([]*Token, error) {
	return s.repo.ListTokens(ctx, userID)
}

func (s *Service) RevokeToken(ctx context.Context, tokenID int, expectedVersion time.Time) error {
	return s.repo.DeleteToken(ctx, tokenID)
}

func (s *Service) GetUser(ctx context.Context, id int) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetUserByName(ctx context.Context, name string) (*User, error) {
	return s.repo.GetByName(ctx, name)
}

func (s *Service) ListUsers(ctx context.Context, offset, limit int, namePattern string) ([]*User, int, error) {
	return s.repo.List(ctx, offset, limit, namePattern)
}

// UpdateProfile applies a self-service profile edit (email, avatar style,
// custom avatar size) under an optimistic-concurrency check.
func (s *Service) UpdateProfile(ctx context.Context, actorUserID *int, after *User, expectedVersion time.Time) error {
	before, err := s.repo.GetByID(ctx, after.ID)
	if err != nil {
		return err
	}
	return s.repo.Update(ctx, before, after, expectedVersion, actorUserID)
}

// UpdateRank is an administrator-only privilege escalation/demotion.
func (s *Service) UpdateRank(ctx context.Context, actorUserID *int, userID int, rank sec.Rank, expectedVersion time.Time) (*User, error) {
	before, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	after := *before
	after.Rank = rank
	if err := s.repo.Update(ctx, before, &after, expectedVersion, actorUserID); err != nil {
		return nil, err
	}
	return &after, nil
}

// ChangePassword re-hashes and persists a new password.
func (s *Service) ChangePassword(ctx context.Context, actorUserID *int, userID int, newPassword string, expectedVersion time.Time) error {
	before, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	hash, err := sec.HashPassword(newPassword)
	if err != nil {
		return apperr.Internal(err)
	}
	after := *before
	after.PasswordHash = hash
	return s.repo.Update(ctx, before, &after, expectedVersion, actorUserID)
}

func (s *Service) DeleteUser(ctx context.Context, actorUserID *int, id int) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, u, actorUserID)
}
