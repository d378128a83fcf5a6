package validation

import (
	"fmt"
	"unicode"
)

const (
	MinPasswordLength = 8
	// bcrypt учитывает только первые 72 байта
	MaxPasswordBytes = 72
)

// ValidatePassword: не менее 8 символов, заглавная и строчная буквы, цифра.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("пароль должен быть не менее %d символов", MinPasswordLength)
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("пароль должен быть не длиннее %d байт", MaxPasswordBytes)
	}

	var hasUpper, hasLower, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("пароль должен содержать хотя бы одну заглавную букву")
	}
	if !hasLower {
		return fmt.Errorf("пароль должен содержать хотя бы одну строчную букву")
	}
	if !hasNumber {
		return fmt.Errorf("пароль должен содержать хотя бы одну цифру")
	}
	return nil
}
