// Package command contains write operations (CQRS - Commands).
package command

// PasswordHasher hashes and verifies user passwords.
// Implemented with bcrypt in infrastructure/auth.
type PasswordHasher interface {
	// Hash returns the hash of a plaintext password.
	Hash(password string) (string, error)

	// Compare checks a plaintext password against a stored hash.
	// Returns a non-nil error on mismatch.
	Compare(hash, password string) error
}

// TokenGenerator issues opaque session tokens.
// Tokens carry no information; the token -> user mapping lives in the
// session store.
type TokenGenerator interface {
	Generate() (string, error)
}
