package auth

import (
	"crypto/hmac"
	"crypto/md5"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/shelfwise/bookshelf/internal/config"
)

// legacySalt is the fixed HMAC key the existing user table was hashed with.
// It cannot change without invalidating every stored password.
const legacySalt = "@SADqqwqed~35@#76ajbkaljf"

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrPasswordTooLong = errors.New("password exceeds maximum length of 72 bytes")
)

// Hasher hashes and verifies passwords according to the configured scheme.
type Hasher struct {
	scheme config.PasswordScheme
	cost   int
}

func NewHasher(scheme config.PasswordScheme, bcryptCost int) *Hasher {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Hasher{scheme: scheme, cost: bcryptCost}
}

// Scheme reports the active password scheme.
func (h *Hasher) Scheme() config.PasswordScheme {
	return h.scheme
}

// Hash creates a password digest under the active scheme.
//
// The legacy scheme is HMAC-MD5 with a fixed site-wide salt. It is weak by
// modern standards but deterministic, which existing rows depend on; new
// deployments should configure the bcrypt scheme instead.
func (h *Hasher) Hash(password string) (string, error) {
	switch h.scheme {
	case config.PasswordSchemeBcrypt:
		// bcrypt has a 72-byte limit
		if len(password) > 72 {
			return "", ErrPasswordTooLong
		}
		digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
		if err != nil {
			return "", err
		}
		return string(digest), nil
	default:
		return legacyDigest(password), nil
	}
}

// Check compares a password with its stored digest.
func (h *Hasher) Check(password, stored string) error {
	switch h.scheme {
	case config.PasswordSchemeBcrypt:
		err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password))
		if err != nil {
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return ErrInvalidPassword
			}
			return err
		}
		return nil
	default:
		if !hmac.Equal([]byte(legacyDigest(password)), []byte(stored)) {
			return ErrInvalidPassword
		}
		return nil
	}
}

func legacyDigest(password string) string {
	mac := hmac.New(md5.New, []byte(legacySalt))
	mac.Write([]byte(password))
	return hex.EncodeToString(mac.Sum(nil))
}
