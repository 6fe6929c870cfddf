package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// Key derivation parameters
	SaltSize   = 32
	KeySize    = 32
	Iterations = 100000
)

var (
	ErrNoSecret        = errors.New("encryption secret is empty")
	ErrBadSalt         = errors.New("salt must be 32 bytes")
	ErrCiphertextShort = errors.New("ciphertext too short")
)

// Encryptor seals journal text with a key derived from a secret.
type Encryptor struct {
	gcm cipher.AEAD
}

// NewEncryptor derives an AES-256 key from secret and salt with PBKDF2.
func NewEncryptor(secret string, salt []byte) (*Encryptor, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if len(salt) != SaltSize {
		return nil, ErrBadSalt
	}

	key := pbkdf2.Key([]byte(secret), salt, Iterations, KeySize, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &Encryptor{gcm: gcm}, nil
}

// NewSalt returns a random salt.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// SaltFor derives a reproducible salt from identifying parts, so every
// device signed in as the same user derives the same key.
func SaltFor(parts ...string) []byte {
	sum := sha256.Sum256([]byte("magicmind\x00" + strings.Join(parts, "\x00")))
	return sum[:]
}

// Encrypt encrypts the given plaintext
func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, e.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := e.gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt decrypts the given ciphertext
func (e *Encryptor) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}

	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64: %w", err)
	}

	nonceSize := e.gcm.NonceSize()
	if len(data) < nonceSize {
		return "", ErrCiphertextShort
	}
	nonce, sealed := data[:nonceSize], data[nonceSize:]

	plaintext, err := e.gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}
	return string(plaintext), nil
}
