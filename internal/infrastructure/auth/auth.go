// Package auth provides password hashing and session token generation
// for the FinEdu backend.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/finedu-app/finedu-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PASSWORD HASHER
// ══════════════════════════════════════════════════════════════════════════════

// BcryptHasher implements command.PasswordHasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher with the given cost.
// Cost outside the bcrypt range falls back to the library default.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash hashes a plain-text password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Compare checks a plain-text password against a hash.
// Returns shared.ErrInvalidCredentials on mismatch so the caller never
// needs to know about bcrypt error types.
func (h *BcryptHasher) Compare(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return shared.ErrInvalidCredentials
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// TOKEN GENERATOR
// ══════════════════════════════════════════════════════════════════════════════

// tokenBytes is the entropy of a session token. 32 bytes = 64 hex chars.
const tokenBytes = 32

// RandomTokenGenerator implements command.TokenGenerator with crypto/rand.
// Tokens are opaque: all session state lives in the session store.
type RandomTokenGenerator struct{}

// NewRandomTokenGenerator creates a new RandomTokenGenerator.
func NewRandomTokenGenerator() *RandomTokenGenerator {
	return &RandomTokenGenerator{}
}

// Generate returns a new random token.
func (g *RandomTokenGenerator) Generate() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
