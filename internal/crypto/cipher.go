package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
)

const (
	// NonceSize - размер nonce для AES-GCM (12 bytes стандартный размер)
	NonceSize = 12
	// KeySize - длина ключа AES-256
	KeySize = 32
)

// Sealer шифрует значения локального хранилища с использованием AES-256-GCM.
// Формат результата: nonce (12 bytes) + ciphertext + auth_tag (16 bytes)
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer creates a Sealer for a 32-byte key.
func NewSealer(key []byte) (*Sealer, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", KeySize, len(key))
	}

	// Создаем AES cipher block
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	// Создаем GCM mode
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Sealer{aead: aead}, nil
}

// Seal encrypts plaintext. additional is authenticated but not encrypted:
// the store passes the bucket key so a value cannot be moved to another key.
func (s *Sealer) Seal(plaintext, additional []byte) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, fmt.Errorf("plaintext cannot be empty")
	}

	// Генерируем случайный nonce
	nonce := make([]byte, NonceSize, NonceSize+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// GCM дописывает ciphertext и authentication tag сразу после nonce
	return s.aead.Seal(nonce, nonce, plaintext, additional), nil
}

// Open decrypts data produced by Seal with the same additional data.
func (s *Sealer) Open(sealed, additional []byte) ([]byte, error) {
	if len(sealed) < NonceSize+s.aead.Overhead() {
		return nil, fmt.Errorf("encrypted data too short")
	}

	nonce := sealed[:NonceSize]
	ciphertext := sealed[NonceSize:]

	// Дешифруем и проверяем authentication tag
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, additional)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: authentication failed or corrupted data: %w", err)
	}

	return plaintext, nil
}
