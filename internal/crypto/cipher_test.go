package crypto

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSealer(t *testing.T) *Sealer {
	t.Helper()
	key := make([]byte, KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)

	s, err := NewSealer(key)
	require.NoError(t, err)
	return s
}

func TestNewSealer(t *testing.T) {
	tests := []struct {
		name    string
		errMsg  string
		key     []byte
		wantErr bool
	}{
		{name: "valid key", key: make([]byte, 32)},
		{name: "too short", key: make([]byte, 16), wantErr: true, errMsg: "encryption key must be 32 bytes"},
		{name: "too long", key: make([]byte, 64), wantErr: true, errMsg: "encryption key must be 32 bytes"},
		{name: "nil key", key: nil, wantErr: true, errMsg: "encryption key must be 32 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSealer(tt.key)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, s)
		})
	}
}

func TestSealer_SealOpen(t *testing.T) {
	s := newTestSealer(t)

	tests := []struct {
		name       string
		plaintext  []byte
		additional []byte
	}{
		{name: "json record", plaintext: []byte(`{"id":"p-1","full_name":"Ana"}`), additional: []byte("p-1")},
		{name: "no additional data", plaintext: []byte("hello"), additional: nil},
		{name: "unicode", plaintext: []byte("João Conceição, alergia a dipirona"), additional: []byte("k")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sealed, err := s.Seal(tt.plaintext, tt.additional)
			require.NoError(t, err)
			assert.NotContains(t, string(sealed), string(tt.plaintext))
			assert.Len(t, sealed, NonceSize+len(tt.plaintext)+16)

			opened, err := s.Open(sealed, tt.additional)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, opened)
		})
	}
}

func TestSealer_SealProducesDifferentCiphertexts(t *testing.T) {
	s := newTestSealer(t)

	a, err := s.Seal([]byte("same"), nil)
	require.NoError(t, err)
	b, err := s.Seal([]byte("same"), nil)
	require.NoError(t, err)

	// Случайный nonce => разные шифротексты
	assert.NotEqual(t, a, b)
}

func TestSealer_SealEmpty(t *testing.T) {
	s := newTestSealer(t)

	_, err := s.Seal(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plaintext cannot be empty")
}

func TestSealer_OpenFailures(t *testing.T) {
	s := newTestSealer(t)
	other := newTestSealer(t)

	sealed, err := s.Seal([]byte("secret"), []byte("key-1"))
	require.NoError(t, err)

	t.Run("wrong key", func(t *testing.T) {
		_, err := other.Open(sealed, []byte("key-1"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "authentication failed")
	})

	t.Run("wrong additional data", func(t *testing.T) {
		_, err := s.Open(sealed, []byte("key-2"))
		require.Error(t, err)
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		tampered := append([]byte(nil), sealed...)
		tampered[len(tampered)-1] ^= 0xFF
		_, err := s.Open(tampered, []byte("key-1"))
		require.Error(t, err)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := s.Open([]byte("short"), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "encrypted data too short")
	})
}
