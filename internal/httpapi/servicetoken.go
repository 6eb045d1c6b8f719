package httpapi

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrInvalidServiceToken is returned when the bearer token presented to a
// guarded route does not match the configured hash.
var ErrInvalidServiceToken = errors.New("httpapi: invalid service token")

// errInvalidTokenHash is returned when AGENDA_SERVICE_TOKEN_HASH is not a
// well-formed argon2id PHC string.
var errInvalidTokenHash = errors.New("httpapi: invalid service token hash format")

// tokenHashParams mirrors internal/application's Argon2idParams: this route
// guards a mutating, compute-expensive endpoint rather than a user login,
// but the same argon2id primitive applies unchanged.
type tokenHashParams struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
}

var defaultTokenHashParams = tokenHashParams{Memory: 64 * 1024, Iterations: 3, Parallelism: 2}

// HashServiceToken produces the argon2id PHC string stored in
// AGENDA_SERVICE_TOKEN_HASH, for use by operator tooling that provisions a
// new token.
func HashServiceToken(token string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	p := defaultTokenHashParams
	hash := argon2.IDKey([]byte(token), salt, p.Iterations, p.Memory, p.Parallelism, 32)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Iterations, p.Parallelism, b64Salt, b64Hash), nil
}

// VerifyServiceToken checks token against the argon2id PHC string hash.
func VerifyServiceToken(hash, token string) error {
	parts := strings.Split(hash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return errInvalidTokenHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return errInvalidTokenHash
	}
	if version != argon2.Version {
		return errInvalidTokenHash
	}

	var p tokenHashParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return errInvalidTokenHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return errInvalidTokenHash
	}
	decodedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return errInvalidTokenHash
	}

	comparisonHash := argon2.IDKey([]byte(token), salt, p.Iterations, p.Memory, p.Parallelism, uint32(len(decodedHash)))
	if subtle.ConstantTimeCompare(decodedHash, comparisonHash) == 1 {
		return nil
	}
	return ErrInvalidServiceToken
}
