package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2KeyLen   = 32
	pbkdf2SaltLen  = 16
	hashMethodName = "pbkdf2:sha256"
)

// HashPassword derives a salted PBKDF2-SHA256 hash of the password, encoded
// as "pbkdf2:sha256:<iterations>$<salt-hex>$<hash-hex>". The plaintext is
// never stored anywhere.
func HashPassword(password string, iterations int) (string, error) {
	salt := make([]byte, pbkdf2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, pbkdf2KeyLen, sha256.New)
	return fmt.Sprintf("%s:%d$%s$%s",
		hashMethodName, iterations, hex.EncodeToString(salt), hex.EncodeToString(key)), nil
}

// VerifyPassword reports whether the password matches the stored hash.
// The comparison of derived keys is constant-time.
func VerifyPassword(stored, password string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 3 {
		return false
	}

	method := parts[0]
	if !strings.HasPrefix(method, hashMethodName+":") {
		return false
	}
	iterations, err := strconv.Atoi(strings.TrimPrefix(method, hashMethodName+":"))
	if err != nil || iterations < 1 {
		return false
	}

	salt, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(parts[2])
	if err != nil || len(want) != pbkdf2KeyLen {
		return false
	}

	got := pbkdf2.Key([]byte(password), salt, iterations, pbkdf2KeyLen, sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}
