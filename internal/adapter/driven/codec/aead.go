package codec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"github.com/ericfisherdev/credvault/internal/domain/port/driven"
)

// ErrEmptyPassphrase is returned when an AEAD codec is built without a key.
var ErrEmptyPassphrase = errors.New("codec passphrase is empty: set CREDVAULT_SECRET_KEY")

var hkdfSalt = []byte("credvault-secret-codec")

// Compile-time interface satisfaction check.
var _ driven.SecretCodec = (*AEAD)(nil)

// AEAD seals secrets with an authenticated cipher. The stored form is
// base64(nonce || ciphertext || tag). A fresh random nonce is drawn per call,
// so encoding the same plaintext twice yields different outputs.
type AEAD struct {
	name string
	aead cipher.AEAD
}

// NewAESGCM builds an AES-256-GCM codec keyed from passphrase.
func NewAESGCM(passphrase string) (*AEAD, error) {
	key, err := deriveKey(passphrase, NameAESGCM, 32)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}

	return &AEAD{name: NameAESGCM, aead: gcm}, nil
}

// NewXChaCha20Poly1305 builds an XChaCha20-Poly1305 codec keyed from passphrase.
func NewXChaCha20Poly1305(passphrase string) (*AEAD, error) {
	key, err := deriveKey(passphrase, NameXChaCha20Poly1305, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}

	x, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("chacha20poly1305.NewX: %w", err)
	}

	return &AEAD{name: NameXChaCha20Poly1305, aead: x}, nil
}

// Name returns the codec name this AEAD was built for.
func (c *AEAD) Name() string { return c.name }

// Encode seals plaintext under a random nonce.
func (c *AEAD) Encode(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(plaintext)+c.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}

	// Seal appends to nonce, producing nonce || ciphertext || tag.
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decode opens a value produced by Encode. Any tampering, truncation or key
// mismatch yields ErrMalformedSecret.
func (c *AEAD) Decode(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: base64 decode: %w", driven.ErrMalformedSecret, err)
	}

	nonceSize := c.aead.NonceSize()
	if len(data) < nonceSize+c.aead.Overhead() {
		return "", fmt.Errorf("%w: ciphertext too short", driven.ErrMalformedSecret)
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %s open: %w", driven.ErrMalformedSecret, c.name, err)
	}

	return string(plaintext), nil
}

// deriveKey stretches passphrase into a size-byte key with HKDF-SHA256. The
// codec name is mixed in as info so the two ciphers never share a key.
func deriveKey(passphrase, name string, size int) ([]byte, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}

	reader := hkdf.New(sha256.New, []byte(passphrase), hkdfSalt, []byte(name))
	key := make([]byte, size)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}
