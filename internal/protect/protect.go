package protect

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrProtection is returned when the confidentiality transform fails.
var ErrProtection = errors.New("protection failed")

// KeySize is the symmetric key length in bytes.
const KeySize = chacha20poly1305.KeySize

// File encrypts the file at path under a fresh random key, writes the result
// to a sibling path with a "protected_" name, and deletes the plaintext. The
// key is returned to the caller and stored nowhere else: whoever discards it
// renders the output permanently unreadable.
func File(path string) (string, []byte, error) {
	plain, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("%w: read input: %v", ErrProtection, err)
	}

	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", nil, fmt.Errorf("%w: key generation: %v", ErrProtection, err)
	}
	sealed, err := seal(key, plain)
	if err != nil {
		return "", nil, err
	}

	out := filepath.Join(filepath.Dir(path), "protected_"+filepath.Base(path))
	if err := os.WriteFile(out, sealed, 0o644); err != nil {
		return "", nil, fmt.Errorf("%w: write output: %v", ErrProtection, err)
	}
	if err := os.Remove(path); err != nil {
		_ = os.Remove(out)
		return "", nil, fmt.Errorf("%w: remove plaintext: %v", ErrProtection, err)
	}
	return out, key, nil
}

func seal(key, plain []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtection, err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("%w: nonce generation: %v", ErrProtection, err)
	}
	// Output layout: nonce || ciphertext.
	return aead.Seal(nonce, nonce, plain, nil), nil
}

// Open reverses the transform for a holder of the key.
func Open(path string, key []byte) ([]byte, error) {
	sealed, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read input: %v", ErrProtection, err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtection, err)
	}
	if len(sealed) < aead.NonceSize() {
		return nil, fmt.Errorf("%w: input too short", ErrProtection)
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtection, err)
	}
	return plain, nil
}
