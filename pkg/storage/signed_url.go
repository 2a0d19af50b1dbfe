package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignedLink is the decoded content of a download token.
type SignedLink struct {
	Token     string
	Subject   string
	Path      string
	ExpiresAt time.Time
}

// SignedURLSigner creates and validates signed download tokens.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedURLSigner constructs a signer with the provided secret and TTL.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SignedURLSigner{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock overrides the time source, used by tests.
func (s *SignedURLSigner) WithClock(now func() time.Time) *SignedURLSigner {
	if now != nil {
		s.now = now
	}
	return s
}

// Sign returns a token binding subject and relPath until the TTL elapses.
func (s *SignedURLSigner) Sign(subject, relPath string) (SignedLink, error) {
	if subject == "" || relPath == "" {
		return SignedLink{}, fmt.Errorf("subject and relPath required")
	}
	if len(s.secret) == 0 {
		return SignedLink{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	ts := strconv.FormatInt(expiresAt.Unix(), 10)
	encodedPath := base64.RawURLEncoding.EncodeToString([]byte(relPath))
	signature := s.signature(subject, ts, encodedPath)
	return SignedLink{
		Token:     strings.Join([]string{subject, ts, encodedPath, signature}, "."),
		Subject:   subject,
		Path:      relPath,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify validates a token and returns the embedded metadata.
// When allowExpired is true, the timestamp check is skipped (used by cleanup routines).
func (s *SignedURLSigner) Verify(token string, allowExpired bool) (SignedLink, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return SignedLink{}, fmt.Errorf("invalid token format")
	}
	subject, ts, encodedPath, signature := parts[0], parts[1], parts[2], parts[3]

	rawPath, err := base64.RawURLEncoding.DecodeString(encodedPath)
	if err != nil {
		return SignedLink{}, fmt.Errorf("decode path: %w", err)
	}
	expUnix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return SignedLink{}, fmt.Errorf("invalid timestamp")
	}
	if !hmac.Equal([]byte(s.signature(subject, ts, encodedPath)), []byte(signature)) {
		return SignedLink{}, fmt.Errorf("invalid token signature")
	}
	expiresAt := time.Unix(expUnix, 0)
	if !allowExpired && s.now().After(expiresAt) {
		return SignedLink{}, fmt.Errorf("token expired")
	}
	return SignedLink{Token: token, Subject: subject, Path: string(rawPath), ExpiresAt: expiresAt}, nil
}

func (s *SignedURLSigner) signature(subject, ts, encodedPath string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(subject + "|" + ts + "|" + encodedPath))
	return hex.EncodeToString(mac.Sum(nil))
}
