// Package xxtea decrypts XXTEA wrapped bytecode. Images shipped inside game
// bundles are commonly encrypted whole and prefixed with a plain signature
// that marks them as encrypted.
package xxtea

import (
	"bytes"
	"errors"

	"github.com/xxtea/xxtea-go/xxtea"
)

var (
	// ErrEmpty is returned for empty input.
	ErrEmpty = errors.New("empty data")

	// ErrDecrypt is returned when the ciphertext is malformed or the key is
	// wrong enough that the embedded length does not fit.
	ErrDecrypt = errors.New("xxtea decryption failed")

	// ErrSignatureMismatch is returned by Open when data does not start
	// with the expected signature.
	ErrSignatureMismatch = errors.New("signature mismatch")
)

// Encrypt encrypts data with key. Keys longer than 16 bytes are truncated,
// shorter ones zero padded.
func Encrypt(data, key []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	out := xxtea.Encrypt(data, key)
	if out == nil {
		return nil, errors.New("xxtea encryption failed")
	}
	return out, nil
}

// Decrypt decrypts data with key.
func Decrypt(data, key []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	out := xxtea.Decrypt(data, key)
	if out == nil {
		return nil, ErrDecrypt
	}
	return out, nil
}

// Seal encrypts data and prepends signature.
func Seal(data, key, signature []byte) ([]byte, error) {
	enc, err := Encrypt(data, key)
	if err != nil {
		return nil, err
	}
	return append(append(make([]byte, 0, len(signature)+len(enc)), signature...), enc...), nil
}

// Open strips signature from data and decrypts the rest. An empty signature
// decrypts data as is.
func Open(data, key, signature []byte) ([]byte, error) {
	if len(signature) > 0 {
		if !HasSignature(data, signature) {
			return nil, ErrSignatureMismatch
		}
		data = data[len(signature):]
	}
	return Decrypt(data, key)
}

// HasSignature reports whether data starts with a non-empty signature.
func HasSignature(data, signature []byte) bool {
	return len(signature) > 0 && bytes.HasPrefix(data, signature)
}
