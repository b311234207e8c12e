// Package cryptox holds the credential vault: authenticated symmetric
// encryption of opaque secrets at rest under a single process-wide key.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/prodtracker/internal/common"
	"golang.org/x/crypto/argon2"
)

// KeySize is the vault key length (AES-256).
const KeySize = 32

// DeriveKey stretches a passphrase into a vault key with Argon2id. The same
// passphrase and salt always give the same key.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, KeySize)
}

// ParseKey decodes a hex-encoded vault key.
func ParseKey(s string) ([]byte, error) {
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidKey, err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", common.ErrInvalidKey, KeySize, len(key))
	}
	return key, nil
}

// Vault seals and opens secrets with AES-GCM. Ciphertext layout is
// nonce || sealed, so a single blob is all the storage layer keeps.
//
// A Vault is safe for concurrent use.
type Vault struct {
	aead cipher.AEAD
}

// NewVault builds a vault around key, which must be KeySize bytes.
func NewVault(key []byte) (*Vault, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", common.ErrInvalidKey, KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Vault{aead: aead}, nil
}

// Encrypt seals plaintext under a fresh random nonce.
func (v *Vault) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := common.GenerateRandByteArray(v.aead.NonceSize())
	out := make([]byte, 0, len(nonce)+len(plaintext)+v.aead.Overhead())
	out = append(out, nonce...)
	return v.aead.Seal(out, nonce, plaintext, nil), nil
}

// Decrypt opens a blob produced by Encrypt. Truncated, tampered or
// foreign-key ciphertext fails with common.ErrDecryption; it never returns
// partial plaintext.
func (v *Vault) Decrypt(ciphertext []byte) ([]byte, error) {
	ns := v.aead.NonceSize()
	if len(ciphertext) < ns+v.aead.Overhead() {
		return nil, fmt.Errorf("%w: ciphertext too short", common.ErrDecryption)
	}
	plaintext, err := v.aead.Open(nil, ciphertext[:ns], ciphertext[ns:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecryption, err)
	}
	return plaintext, nil
}

// EncryptEntry serializes entry to JSON and seals it.
func (v *Vault) EncryptEntry(entry any) ([]byte, error) {
	plaintext, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(plaintext)
	return v.Encrypt(plaintext)
}

// DecryptEntry opens ciphertext and unmarshals the JSON plaintext into out.
// The plaintext buffer is wiped before returning.
func (v *Vault) DecryptEntry(ciphertext []byte, out any) error {
	plaintext, err := v.Decrypt(ciphertext)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(plaintext)
	if err := json.Unmarshal(plaintext, out); err != nil {
		return fmt.Errorf("%w: %v", common.ErrDecryption, err)
	}
	return nil
}
