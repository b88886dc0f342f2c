package security

import (
	"github.com/matthewhartstonge/argon2"
)

// Hasher hashes and verifies passwords using argon2id. The work factor is
// fixed at construction time and shared by every request.
type Hasher struct {
	config argon2.Config
}

// HasherParams overrides the argon2 work factor. Zero values fall back to
// the library defaults.
type HasherParams struct {
	TimeCost   uint32
	MemoryCost uint32
}

// NewHasher creates a Hasher with the given work factor.
func NewHasher(params HasherParams) *Hasher {
	cfg := argon2.DefaultConfig()
	if params.TimeCost > 0 {
		cfg.TimeCost = params.TimeCost
	}
	if params.MemoryCost > 0 {
		cfg.MemoryCost = params.MemoryCost
	}

	return &Hasher{config: cfg}
}

// Hash returns the encoded argon2id hash of password. The salt is generated
// by the library; the plaintext is never retained.
func (h *Hasher) Hash(password string) (string, error) {
	encoded, err := h.config.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

// Verify reports whether password matches the encoded hash. The comparison
// inside the library is constant time.
func (h *Hasher) Verify(password, encoded string) (bool, error) {
	return argon2.VerifyEncoded([]byte(password), []byte(encoded))
}
