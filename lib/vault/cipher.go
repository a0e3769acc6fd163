package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

// cipherSalt pins key derivation to this application; rotating it invalidates
// every stored ciphertext.
const cipherSalt = "netpad-foundry-vault-v1"

// Cipher encrypts operator-supplied connection strings before they reach the
// deployment record, so manual-mode credentials are never stored in clear.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher derives an AES-256-GCM key from the given secret via scrypt
func NewCipher(secret string) (*Cipher, error) {
	if secret == "" {
		return nil, errors.New("vault cipher secret cannot be empty")
	}

	key, err := scrypt.Key([]byte(secret), []byte(cipherSalt), 1<<15, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("failed to derive cipher key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext and returns base64(nonce || ciphertext)
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt
func (c *Cipher) Decrypt(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("malformed ciphertext: %w", err)
	}

	nonceSize := c.aead.NonceSize()
	if len(sealed) < nonceSize {
		return "", errors.New("malformed ciphertext: too short")
	}

	plaintext, err := c.aead.Open(nil, sealed[:nonceSize], sealed[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt connection string: %w", err)
	}

	return string(plaintext), nil
}
