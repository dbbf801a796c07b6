// Package models содержит доменные типы рассылки: адрес и имя подписчика
// в виде валидируемых значений-обёрток, а также сущность подписки.
// Конструкторы Parse* — единственный способ получить валидное значение,
// поэтому остальному коду не нужно перепроверять данные.
package models

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator"
)

// ErrInvalidEmail возвращается, когда строка не является корректным email-адресом.
var ErrInvalidEmail = errors.New("invalid email")

var emailValidate = validator.New()

// EmailAddress обёртка над проверенным email-адресом подписчика.
// Поле недоступно снаружи: значение нельзя сконструировать в обход ParseEmailAddress.
type EmailAddress struct {
	value string
}

// ParseEmailAddress валидирует строку и возвращает EmailAddress.
// Отклоняются пустые строки, строки без "@", с пустой локальной частью,
// с доменом без точки и с управляющими символами. Сетевых проверок нет.
func ParseEmailAddress(candidate string) (EmailAddress, error) {
	if candidate == "" {
		return EmailAddress{}, fmt.Errorf("%w: empty string", ErrInvalidEmail)
	}
	for _, r := range candidate {
		if unicode.IsControl(r) {
			return EmailAddress{}, fmt.Errorf("%w: contains control characters", ErrInvalidEmail)
		}
	}

	local, domain, found := strings.Cut(candidate, "@")
	if !found {
		return EmailAddress{}, fmt.Errorf("%w: missing @", ErrInvalidEmail)
	}
	if local == "" {
		return EmailAddress{}, fmt.Errorf("%w: empty local part", ErrInvalidEmail)
	}
	if domain == "" || !strings.Contains(domain, ".") {
		return EmailAddress{}, fmt.Errorf("%w: invalid domain part", ErrInvalidEmail)
	}
	if err := emailValidate.Var(candidate, "email"); err != nil {
		return EmailAddress{}, fmt.Errorf("%w: %q", ErrInvalidEmail, candidate)
	}

	return EmailAddress{value: candidate}, nil
}

// String возвращает адрес в исходном виде.
func (e EmailAddress) String() string {
	return e.value
}
