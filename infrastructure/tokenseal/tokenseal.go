package tokenseal

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

// Params controls the argon2id derivation of the sealing key.
type Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
}

var DefaultParams = &Params{
	Memory:      64 * 1024,
	Iterations:  2,
	Parallelism: 1,
}

const (
	version   = "v1"
	nonceSize = 24
	keySize   = 32
)

var keySalt = []byte("cwsdash/backend-token/v1")

var (
	ErrMalformed = errors.New("sealed token is malformed")
	ErrTampered  = errors.New("sealed token failed authentication")
)

// Sealer encrypts backend bearer tokens before they are written to the
// local database.
type Sealer struct {
	key [keySize]byte
}

// NewSealer derives the sealing key from secret once.
func NewSealer(secret string, p *Params) (*Sealer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("session secret is required")
	}
	if p == nil {
		p = DefaultParams
	}
	derived := argon2.IDKey([]byte(secret), keySalt, p.Iterations, p.Memory, p.Parallelism, keySize)
	s := &Sealer{}
	copy(s.key[:], derived)
	return s, nil
}

// Seal returns "v1$<base64(nonce|box)>".
func (s *Sealer) Seal(token string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(token), &nonce, &s.key)
	return version + "$" + base64.RawURLEncoding.EncodeToString(box), nil
}

func (s *Sealer) Open(sealed string) (string, error) {
	prefix, encoded, ok := strings.Cut(sealed, "$")
	if !ok || prefix != version {
		return "", ErrMalformed
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrMalformed
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrTampered
	}
	return string(plain), nil
}
