package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

var (
	ErrPasswordEmpty    = errors.New("password must not be empty")
	ErrPasswordMismatch = errors.New("password does not match")
	ErrInvalidHash      = errors.New("invalid password hash format")
)

const (
	// PBKDF2Iterations is the iteration count used for new hashes
	PBKDF2Iterations = 600000
	// SaltLength is the salt length in bytes
	SaltLength = 8
	// KeyLength is the derived key length in bytes (SHA-256 output size)
	KeyLength = 32

	hashPrefix = "pbkdf2:sha256"
)

// GenerateSalt generates a cryptographically secure random salt
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// HashPassword derives a salted PBKDF2-HMAC-SHA256 hash of the password.
// The result is self-describing: "pbkdf2:sha256:<iterations>$<salt>$<key>"
// with salt and key base64-encoded, so the parameters can change without
// invalidating stored hashes.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrPasswordEmpty
	}

	salt, err := GenerateSalt()
	if err != nil {
		return "", err
	}

	key := pbkdf2.Key([]byte(password), salt, PBKDF2Iterations, KeyLength, sha256.New)

	return fmt.Sprintf("%s:%d$%s$%s",
		hashPrefix,
		PBKDF2Iterations,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword checks if the provided password matches the stored hash
func VerifyPassword(hashedPassword, password string) error {
	iterations, salt, key, err := parseHash(hashedPassword)
	if err != nil {
		return err
	}

	derived := pbkdf2.Key([]byte(password), salt, iterations, len(key), sha256.New)
	if subtle.ConstantTimeCompare(derived, key) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

func parseHash(encoded string) (iterations int, salt []byte, key []byte, err error) {
	rest, ok := strings.CutPrefix(encoded, hashPrefix+":")
	if !ok {
		return 0, nil, nil, ErrInvalidHash
	}

	parts := strings.Split(rest, "$")
	if len(parts) != 3 {
		return 0, nil, nil, ErrInvalidHash
	}

	iterations, err = strconv.Atoi(parts[0])
	if err != nil || iterations <= 0 {
		return 0, nil, nil, ErrInvalidHash
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return 0, nil, nil, ErrInvalidHash
	}

	key, err = base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil || len(key) == 0 {
		return 0, nil, nil, ErrInvalidHash
	}

	return iterations, salt, key, nil
}
