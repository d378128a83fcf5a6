package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinNameLength     = 2
	MaxNameLength     = 100
	MaxBioLength      = 1000
	MaxLocationLength = 100
	MaxCompanyLength  = 200
	MaxAvatarLength   = 500
)

var (
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart, domainPart := parts[0], parts[1]
	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}
	if !emailLocalRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}
	if !emailDomainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateName проверяет имя пользователя.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("имя обязательно")
	}
	return ValidateLength("имя", name, MinNameLength, MaxNameLength)
}

// ValidateProfileText проверяет необязательные текстовые поля профиля.
func ValidateProfileText(bio, companyName, location string) error {
	if err := ValidateLength("биография", strings.TrimSpace(bio), 0, MaxBioLength); err != nil {
		return err
	}
	if err := ValidateLength("название компании", strings.TrimSpace(companyName), 0, MaxCompanyLength); err != nil {
		return err
	}
	return ValidateLength("местоположение", strings.TrimSpace(location), 0, MaxLocationLength)
}

// ValidateAvatarURL проверяет ссылку на аватар. Пустое значение допустимо.
func ValidateAvatarURL(link string) error {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil
	}

	if err := ValidateLength("ссылка на аватар", link, 0, MaxAvatarLength); err != nil {
		return err
	}

	parsedURL, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("некорректный формат URL")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("ссылка должна начинаться с http:// или https://")
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("ссылка должна содержать доменное имя")
	}
	return nil
}
