// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload of a signed session token: a stateless
// envelope wrapping the identity of one [Token] row so that verifying a
// presented session does not always require a database round-trip.
//
// The Bearer path does not consult the opaque [Token] row: disabling or
// expiring it leaves an outstanding SessionClaims valid until its own
// ExpiresAt.
type SessionClaims struct {
	jwt.RegisteredClaims

	UserID   int    `json:"uid"`
	Username string `json:"unm"`
	Rank     Rank   `json:"rnk"`
	TokenID  int    `json:"tid"`
}

// TokenService signs and verifies [SessionClaims] using RS256.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
}

// NewTokenService loads an RSA keypair from disk and returns a ready
// [TokenService].
func NewTokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	privateKeyData, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read private key from %s: %w", privateKeyPath, err)
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse private key: %w", err)
	}

	publicKeyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read public key from %s: %w", publicKeyPath, err)
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
	}

	return &TokenService{privateKey: privateKey, publicKey: publicKey, issuer: issuer}, nil
}

// Sign issues a session JWT for the given principal/token pair.
func (s *TokenService) Sign(p *Principal, tokenID int, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Username,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:   p.UserID,
		Username: p.Username,
		Rank:     p.Rank,
		TokenID:  tokenID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(s.privateKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a session JWT and returns the
// claims it carries. It does not consult the database; callers that need to
// honor a revoked/disabled [Token] row must re-check it periodically.
func (s *TokenService) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return s.publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("sec: invalid session token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid session token claims")
	}
	return claims, nil
}
