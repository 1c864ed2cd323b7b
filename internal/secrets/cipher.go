package secrets

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrCiphertext is returned when a sealed payload is truncated or was tampered with.
var ErrCiphertext = errors.New("secrets: invalid ciphertext")

// Cipher seals short secrets (seller payment keys) for storage at rest.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher derives a 32 byte key from the configured secret.
func NewCipher(secret string) (*Cipher, error) {
	if secret == "" {
		return nil, errors.New("secrets: empty key material")
	}
	sum := sha256.Sum256([]byte(secret))
	aead, err := chacha20poly1305.NewX(sum[:])
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead}, nil
}

// Seal encrypts plaintext; the random nonce is prefixed to the output.
func (c *Cipher) Seal(plaintext string) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(plaintext)+c.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return c.aead.Seal(nonce, nonce, []byte(plaintext), nil), nil
}

// Open reverses Seal.
func (c *Cipher) Open(payload []byte) (string, error) {
	size := c.aead.NonceSize()
	if len(payload) < size+c.aead.Overhead() {
		return "", ErrCiphertext
	}
	plain, err := c.aead.Open(nil, payload[:size], payload[size:], nil)
	if err != nil {
		return "", ErrCiphertext
	}
	return string(plain), nil
}
