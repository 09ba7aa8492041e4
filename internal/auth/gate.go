// Package auth implements the single-secret admin session gate. The secret
// is stored as a bcrypt hash in the data directory; a successful verify
// mints an in-memory bearer token that the API middleware checks on every
// mutating request. Tokens do not survive a restart, which matches the
// session-scoped admin mode this gate protects.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/calder/folio/internal/apperr"
	"github.com/calder/folio/internal/storage"
)

const (
	// MinSecretLength mirrors the length check the settings dashboard
	// applies before provisioning.
	MinSecretLength = 6

	defaultTokenTTL = 12 * time.Hour
	bcryptCost      = 12
)

// Gate verifies the admin secret and tracks live session tokens.
type Gate struct {
	dir        *storage.Dir
	secretFile string
	ttl        time.Duration

	mu     sync.Mutex
	tokens map[string]time.Time // token -> expiry
	now    func() time.Time
}

// New creates a gate whose secret hash lives at secretFile inside dir.
func New(dir *storage.Dir, secretFile string) *Gate {
	return &Gate{
		dir:        dir,
		secretFile: secretFile,
		ttl:        defaultTokenTTL,
		tokens:     make(map[string]time.Time),
		now:        time.Now,
	}
}

// IsProvisioned reports whether a secret has been set.
func (g *Gate) IsProvisioned() bool {
	return g.dir.Exists(g.secretFile)
}

// Provision hashes and stores a new secret, replacing any existing one.
// All live sessions are revoked so a changed secret takes effect at once.
func (g *Gate) Provision(secret string) error {
	if len(secret) < MinSecretLength {
		return fmt.Errorf("%w: secret must be at least %d characters", apperr.ErrInvalid, MinSecretLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcryptCost)
	if err != nil {
		return fmt.Errorf("auth: hash secret: %w", err)
	}
	if err := g.dir.Write(g.secretFile, hash); err != nil {
		return fmt.Errorf("auth: store secret: %w", err)
	}
	g.mu.Lock()
	g.tokens = make(map[string]time.Time)
	g.mu.Unlock()
	return nil
}

// Verify reports whether candidate matches the provisioned secret.
func (g *Gate) Verify(candidate string) bool {
	hash, err := g.dir.Read(g.secretFile)
	if err != nil {
		return false
	}
	hash = []byte(strings.TrimSpace(string(hash)))
	return bcrypt.CompareHashAndPassword(hash, []byte(candidate)) == nil
}

// Login verifies the candidate secret and mints a session token.
func (g *Gate) Login(candidate string) (string, error) {
	if !g.Verify(candidate) {
		return "", apperr.ErrUnauthorized
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("auth: generate token: %w", err)
	}
	token := hex.EncodeToString(buf)

	g.mu.Lock()
	g.pruneLocked()
	g.tokens[token] = g.now().Add(g.ttl)
	g.mu.Unlock()
	return token, nil
}

// Check reports whether token belongs to a live session.
func (g *Gate) Check(token string) bool {
	if token == "" {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	exp, ok := g.tokens[token]
	if !ok {
		return false
	}
	if g.now().After(exp) {
		delete(g.tokens, token)
		return false
	}
	return true
}

// Logout revokes a session token.
func (g *Gate) Logout(token string) {
	g.mu.Lock()
	delete(g.tokens, token)
	g.mu.Unlock()
}

func (g *Gate) pruneLocked() {
	now := g.now()
	for t, exp := range g.tokens {
		if now.After(exp) {
			delete(g.tokens, t)
		}
	}
}
