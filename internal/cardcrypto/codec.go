// internal/cardcrypto/codec.go
package cardcrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/Anastazzi-Grand/bank-rest-main/internal/util"
)

const (
	// KeySize is the required AES-256 key length in bytes.
	KeySize = 32
	// nonceSize is the standard GCM nonce length.
	nonceSize = 12
)

// Codec performs authenticated encryption of primary account numbers.
//
// A stored blob is base64(keyID || nonce || ciphertext+tag). The key ID byte
// lets rotation add a new key without re-encrypting existing blobs: new
// blobs are sealed under the highest configured key ID, old ones open under
// whichever key they name.
type Codec struct {
	writeKeyID uint8
	aeads      map[uint8]cipher.AEAD
}

// NewCodec builds a Codec from the configured key set. Every key must be
// KeySize bytes; at least one key is required. The highest key ID becomes
// the write key.
func NewCodec(keys map[uint8][]byte) (*Codec, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("cardcrypto: no encryption keys configured")
	}

	aeads := make(map[uint8]cipher.AEAD, len(keys))
	var writeKeyID uint8
	for id, key := range keys {
		if len(key) != KeySize {
			return nil, fmt.Errorf("cardcrypto: key %d must be %d bytes, got %d", id, KeySize, len(key))
		}
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("cardcrypto: failed to create cipher for key %d: %w", id, err)
		}
		aead, err := cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("cardcrypto: failed to create GCM for key %d: %w", id, err)
		}
		aeads[id] = aead
		if id >= writeKeyID {
			writeKeyID = id
		}
	}

	return &Codec{writeKeyID: writeKeyID, aeads: aeads}, nil
}

// Encrypt seals the plaintext card number under the write key with a fresh
// random nonce. Two calls with the same plaintext yield different blobs.
func (c *Codec) Encrypt(number string) (string, error) {
	aead := c.aeads[c.writeKeyID]

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("%w: failed to generate nonce: %v", util.ErrEncryptionFailure, err)
	}

	blob := make([]byte, 0, 1+nonceSize+len(number)+aead.Overhead())
	blob = append(blob, c.writeKeyID)
	blob = append(blob, nonce...)
	blob = aead.Seal(blob, nonce, []byte(number), nil)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt opens a blob produced by Encrypt. Truncated, tampered or
// unknown-key blobs all fail with ErrEncryptionFailure; no partial
// plaintext is ever returned.
func (c *Codec) Decrypt(encrypted string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("%w: malformed blob encoding", util.ErrEncryptionFailure)
	}
	if len(blob) < 1+nonceSize {
		return "", fmt.Errorf("%w: blob too short: %d bytes", util.ErrEncryptionFailure, len(blob))
	}

	aead, ok := c.aeads[blob[0]]
	if !ok {
		return "", fmt.Errorf("%w: unknown key id %d", util.ErrEncryptionFailure, blob[0])
	}

	nonce := blob[1 : 1+nonceSize]
	ciphertext := blob[1+nonceSize:]

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: authentication failed", util.ErrEncryptionFailure)
	}
	return string(plaintext), nil
}
