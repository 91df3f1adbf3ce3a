package xxtea

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecrypt(t *testing.T) {
	tests := []struct {
		name string
		data string
		key  string
	}{
		{"image header", "RITE0003\x12\x34\x00\x00\x00\x80MATZ0000", "1234567890"},
		{"empty key", "Test data", ""},
		{"short key", "Another test", "key"},
		{"exact 16 byte key", "Test with 16byte", "1234567890123456"},
		{"long key", "Test with long key", "12345678901234567890"},
		{"binary data", "\x00\x01\x02\x03\x04\x05\x06\x07", "binarykey"},
		{"single byte", "a", "key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := Encrypt([]byte(tt.data), []byte(tt.key))
			require.NoError(t, err)
			assert.NotEqual(t, []byte(tt.data), enc)

			dec, err := Decrypt(enc, []byte(tt.key))
			require.NoError(t, err)
			assert.Equal(t, tt.data, string(dec))
		})
	}
}

func TestEmpty(t *testing.T) {
	_, err := Encrypt(nil, []byte("k"))
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = Decrypt(nil, []byte("k"))
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestDecryptGarbage(t *testing.T) {
	// Not a multiple of four bytes.
	_, err := Decrypt([]byte("abc"), []byte("key"))
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestSealOpen(t *testing.T) {
	key := []byte("secret")
	sig := []byte("XXTEA")
	data := []byte("RITE0003 payload")

	sealed, err := Seal(data, key, sig)
	require.NoError(t, err)
	assert.True(t, HasSignature(sealed, sig))

	opened, err := Open(sealed, key, sig)
	require.NoError(t, err)
	assert.Equal(t, data, opened)

	_, err = Open(sealed, key, []byte("OTHER"))
	assert.ErrorIs(t, err, ErrSignatureMismatch)

	assert.False(t, HasSignature(sealed, nil))
}

func TestOpenWithoutSignature(t *testing.T) {
	key := []byte("k")
	enc, err := Encrypt([]byte("plain"), key)
	require.NoError(t, err)

	dec, err := Open(enc, key, nil)
	require.NoError(t, err)
	assert.Equal(t, "plain", string(dec))
}

func TestKeyNormalization(t *testing.T) {
	data := []byte("test data")

	enc, err := Encrypt(data, []byte("1234567890123456AAAA"))
	require.NoError(t, err)
	dec, err := Decrypt(enc, []byte("1234567890123456BBBB"))
	require.NoError(t, err)
	assert.Equal(t, data, dec, "bytes past 16 are ignored")

	enc, err = Encrypt(data, []byte("AB"))
	require.NoError(t, err)
	dec, err = Decrypt(enc, []byte("AB\x00\x00"))
	require.NoError(t, err)
	assert.Equal(t, data, dec, "short keys are zero padded")
}
