package validation

import (
	"fmt"
	"regexp"
)

// OwnerPattern определяет допустимый формат метки владельца (user_id)
// Латинские буквы, цифры, нижнее подчеркивание и дефис (UUID тоже подходит)
// Длина: 3-64 символа
var OwnerPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,64}$`)

// ValidateOwner проверяет метку владельца, которую сервер выписывает в токен
// и клиент записывает в user_id.
func ValidateOwner(owner string) error {
	if owner == "" {
		return fmt.Errorf("owner cannot be empty")
	}

	if !OwnerPattern.MatchString(owner) {
		return fmt.Errorf("owner must be 3-64 characters of letters, numbers, '_' or '-'")
	}

	return nil
}
