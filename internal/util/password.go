package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matthewhartstonge/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Supported password hashing algorithms.
const (
	AlgorithmArgon2id = "argon2id"
	AlgorithmBcrypt   = "bcrypt"
)

var ErrUnsupportedAlgorithm = errors.New("unsupported password hash algorithm")

// PasswordHasher produces self-describing digests: the algorithm, its
// parameters and the salt are encoded in the digest string, so no separate
// salt column is needed.
type PasswordHasher struct {
	algorithm  string
	argon      argon2.Config
	bcryptCost int
}

func NewPasswordHasher(algorithm string) (*PasswordHasher, error) {
	algorithm = strings.ToLower(strings.TrimSpace(algorithm))
	switch algorithm {
	case "":
		algorithm = AlgorithmArgon2id
	case AlgorithmArgon2id, AlgorithmBcrypt:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}
	return &PasswordHasher{
		algorithm:  algorithm,
		argon:      argon2.DefaultConfig(),
		bcryptCost: bcrypt.DefaultCost,
	}, nil
}

func (h *PasswordHasher) Algorithm() string {
	return h.algorithm
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	if len(password) == 0 {
		return "", errors.New("password cannot be empty")
	}
	switch h.algorithm {
	case AlgorithmBcrypt:
		digest, err := bcrypt.GenerateFromPassword([]byte(password), h.bcryptCost)
		if err != nil {
			return "", err
		}
		return string(digest), nil
	default:
		digest, err := h.argon.HashEncoded([]byte(password))
		if err != nil {
			return "", err
		}
		return string(digest), nil
	}
}

// Verify checks password against a digest produced by any supported
// algorithm, regardless of the one the hasher is configured to write.
func (h *PasswordHasher) Verify(password, digest string) bool {
	if len(password) == 0 || len(digest) == 0 {
		return false
	}
	switch {
	case strings.HasPrefix(digest, "$argon2"):
		ok, err := argon2.VerifyEncoded([]byte(password), []byte(digest))
		return err == nil && ok
	case strings.HasPrefix(digest, "$2a$"), strings.HasPrefix(digest, "$2b$"), strings.HasPrefix(digest, "$2y$"):
		return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
	default:
		return false
	}
}
