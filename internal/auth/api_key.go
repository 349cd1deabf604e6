// Package auth provides credential hashing and verification for the admin API.
//
// The admin surface is protected by a single static API key configured at
// deploy time. The key is hashed with Argon2id at startup and every request
// is verified against that hash in constant time, so the plaintext never has
// to be held next to request handling state.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/wecomkit/rulesync/internal/constants"
)

// KeyConfig holds the parameters for the Argon2id key hashing algorithm
type KeyConfig struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultKeyConfig returns the default configuration for API key hashing
func DefaultKeyConfig() *KeyConfig {
	return &KeyConfig{
		Memory:      constants.DefaultAPIKeyHashMemory,
		Iterations:  constants.DefaultAPIKeyHashIterations,
		Parallelism: constants.DefaultAPIKeyHashParallelism,
		SaltLength:  constants.DefaultAPIKeyHashSaltLength,
		KeyLength:   constants.DefaultAPIKeyHashKeyLength,
	}
}

// HashKey generates a hash of the provided key using Argon2id
// Returns the encoded hash and the salt used for hashing
func HashKey(key string, cfg *KeyConfig) (string, string, error) {
	// Generate a random salt
	salt := make([]byte, cfg.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", "", fmt.Errorf("failed to generate salt: %w", err)
	}

	// Hash the key using Argon2id
	hash := argon2.IDKey(
		[]byte(key),
		salt,
		cfg.Iterations,
		cfg.Memory,
		cfg.Parallelism,
		cfg.KeyLength,
	)

	// Encode the hash and salt as base64
	encodedHash := base64.StdEncoding.EncodeToString(hash)
	encodedSalt := base64.StdEncoding.EncodeToString(salt)

	return encodedHash, encodedSalt, nil
}

// VerifyKey compares a key with a hash and salt using Argon2id
func VerifyKey(key, encodedHash, encodedSalt string, cfg *KeyConfig) (bool, error) {
	// Decode the hash and salt from base64
	hash, err := base64.StdEncoding.DecodeString(encodedHash)
	if err != nil {
		return false, fmt.Errorf("failed to decode hash: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(encodedSalt)
	if err != nil {
		return false, fmt.Errorf("failed to decode salt: %w", err)
	}

	// Calculate the hash of the provided key
	comparisonHash := argon2.IDKey(
		[]byte(key),
		salt,
		cfg.Iterations,
		cfg.Memory,
		cfg.Parallelism,
		cfg.KeyLength,
	)

	// Use constant-time comparison to avoid timing attacks
	match := subtle.ConstantTimeCompare(hash, comparisonHash) == 1
	return match, nil
}

// Verifier holds a pre-hashed admin API key and checks presented keys
// against it.
type Verifier struct {
	cfg  *KeyConfig
	hash string
	salt string
}

// NewVerifier hashes the configured key once up front
func NewVerifier(key string) (*Verifier, error) {
	cfg := DefaultKeyConfig()
	hash, salt, err := HashKey(key, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to hash API key: %w", err)
	}
	return &Verifier{cfg: cfg, hash: hash, salt: salt}, nil
}

// Verify reports whether the presented key matches the configured one
func (v *Verifier) Verify(key string) bool {
	match, err := VerifyKey(key, v.hash, v.salt, v.cfg)
	if err != nil {
		return false
	}
	return match
}
