package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSalt(t *testing.T) {
	salt1, err := GenerateSalt()
	require.NoError(t, err)
	assert.Len(t, salt1, SaltSize)

	salt2, err := GenerateSalt()
	require.NoError(t, err)

	// Две соли не должны совпадать
	assert.NotEqual(t, salt1, salt2)
	assert.False(t, bytes.Equal(salt1, make([]byte, SaltSize)), "salt не должна состоять из одних нулей")
}

func TestDeriveStorageKey(t *testing.T) {
	salt := bytes.Repeat([]byte{7}, SaltSize)

	tests := []struct {
		name       string
		errMsg     string
		passphrase string
		salt       []byte
		wantErr    bool
	}{
		{name: "valid", passphrase: "correct horse", salt: salt},
		{name: "empty passphrase", passphrase: "", salt: salt, wantErr: true, errMsg: "passphrase cannot be empty"},
		{name: "short salt", passphrase: "p", salt: []byte("short"), wantErr: true, errMsg: "salt must be 32 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := DeriveStorageKey(tt.passphrase, tt.salt)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Len(t, key, KeySize)
		})
	}
}

func TestDeriveStorageKey_Deterministic(t *testing.T) {
	salt := bytes.Repeat([]byte{1}, SaltSize)
	otherSalt := bytes.Repeat([]byte{2}, SaltSize)

	k1, err := DeriveStorageKey("phrase", salt)
	require.NoError(t, err)
	k2, err := DeriveStorageKey("phrase", salt)
	require.NoError(t, err)
	k3, err := DeriveStorageKey("phrase", otherSalt)
	require.NoError(t, err)
	k4, err := DeriveStorageKey("other", salt)
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.NotEqual(t, k1, k4)
}
