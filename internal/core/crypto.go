package core

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"io"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Crypto provides symmetric authenticated encryption of archive
// payloads using AES-256-GCM. The key is derived by hashing the shared
// secret, never by using the secret bytes directly, so client and
// server agree on a fixed-size key regardless of secret length.
type Crypto struct {
	aead cipher.AEAD
}

// NewCrypto derives an AES-256 key from the shared secret and returns
// a ready-to-use Crypto.
func NewCrypto(secret string) (Crypto, error) {
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return Crypto{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to initialize cipher").
			WithCause(err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return Crypto{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to initialize gcm").
			WithCause(err)
	}
	return Crypto{aead: aead}, nil
}

// Encrypt seals plaintext with a fresh random nonce. The nonce is
// prepended to the ciphertext so Decrypt needs no external state.
func (c Crypto) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to generate nonce").
			WithCause(err)
	}
	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a payload produced by Encrypt. Malformed, truncated or
// tampered ciphertext fails authentication and is rejected rather than
// returned as garbage plaintext.
func (c Crypto) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < c.aead.NonceSize() {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("decryption failed")
	}
	nonce := ciphertext[:c.aead.NonceSize()]
	// Open is seeded with an empty slice so an empty plaintext comes
	// back non-nil.
	plaintext, err := c.aead.Open([]byte{}, nonce, ciphertext[c.aead.NonceSize():], nil)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("decryption failed").
			WithCause(err)
	}
	return plaintext, nil
}
