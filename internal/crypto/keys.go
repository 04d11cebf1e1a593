package crypto

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Параметры Argon2id
const (
	// Argon2Time - количество итераций (time cost)
	Argon2Time = 1
	// Argon2Memory - объем памяти в KB (64MB = 64*1024 KB)
	Argon2Memory = 64 * 1024
	// Argon2Threads - количество параллельных потоков
	Argon2Threads = 4
	// SaltSize - размер соли в байтах
	SaltSize = 32
)

// storageContext отделяет ключ хранилища от других ключей, которые могут быть получены из той же фразы
const storageContext = "medfichas-local-store"

// GenerateSalt генерирует криптографически случайную соль
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// DeriveStorageKey derives the 32-byte at-rest encryption key from a passphrase
// and the per-database salt using Argon2id.
func DeriveStorageKey(passphrase string, salt []byte) ([]byte, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("passphrase cannot be empty")
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("salt must be %d bytes, got %d", SaltSize, len(salt))
	}

	input := append([]byte(passphrase), storageContext...)
	return argon2.IDKey(input, salt, Argon2Time, Argon2Memory, Argon2Threads, KeySize), nil
}
