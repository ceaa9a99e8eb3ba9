// Package password provides credential hashing and verification.
//
// It defines a Hasher interface with two implementations:
//   - HMACHasher: keyed HMAC-SHA256 digest, hex encoded. This is the
//     historical scheme: the key is process-wide, so equal passwords
//     produce equal digests. Verification is constant-time.
//   - BcryptHasher: per-record salted bcrypt, for deployments that want
//     to move off the fixed-key scheme.
//
// The implementation is selected by config; HMAC is the default.
package password

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/skillsenselab/identity/errors"
)

// Hasher defines the interface for credential hashing and verification.
type Hasher interface {
	// Hash returns a stored representation of the plaintext.
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches the stored digest.
	// A digest that cannot be decoded is a hard error (data corruption),
	// not a false result.
	Verify(digest, plaintext string) (bool, error)
}

// --- HMAC-SHA256 Implementation ---

// HMACHasher implements Hasher using a keyed HMAC-SHA256 digest.
type HMACHasher struct {
	key []byte
}

// NewHMACHasher creates an HMAC-SHA256 hasher with the given secret key.
// The key is fixed for the life of the process and safe for concurrent use.
func NewHMACHasher(secret string) *HMACHasher {
	return &HMACHasher{key: []byte(secret)}
}

func (h *HMACHasher) Hash(plaintext string) (string, error) {
	mac := hmac.New(sha256.New, h.key)
	mac.Write([]byte(plaintext))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

func (h *HMACHasher) Verify(digest, plaintext string) (bool, error) {
	stored, err := hex.DecodeString(digest)
	if err != nil {
		return false, errors.HashDecode(fmt.Errorf("password: decode digest: %w", err))
	}

	mac := hmac.New(sha256.New, h.key)
	mac.Write([]byte(plaintext))

	// hmac.Equal is constant-time.
	return hmac.Equal(stored, mac.Sum(nil)), nil
}

// --- Bcrypt Implementation ---

// BcryptHasher implements Hasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a bcrypt-based credential hasher.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = 12
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("password: hash: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(digest, plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	switch err {
	case nil:
		return true, nil
	case bcrypt.ErrMismatchedHashAndPassword:
		return false, nil
	default:
		return false, errors.HashDecode(fmt.Errorf("password: decode digest: %w", err))
	}
}
