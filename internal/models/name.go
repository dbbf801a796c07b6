package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

// ErrInvalidName возвращается, когда строка не подходит в качестве имени подписчика.
var ErrInvalidName = errors.New("invalid name")

// maxNameLength максимальная длина имени в графемах после обрезки пробелов.
// Считаются графемы, а не руны: видимый символ с комбинируемыми знаками
// занимает одну позицию.
const maxNameLength = 256

// forbiddenNameCharacters символы, запрещённые в имени подписчика.
const forbiddenNameCharacters = `/()"<>\{}`

// SubscriberName обёртка над проверенным отображаемым именем подписчика.
// Как и EmailAddress, конструируется только через ParseSubscriberName.
type SubscriberName struct {
	value string
}

// ParseSubscriberName валидирует строку и возвращает SubscriberName.
// Отклоняются пустые строки и строки из одних пробелов, строки длиннее
// 256 графем и строки с запрещёнными символами.
func ParseSubscriberName(candidate string) (SubscriberName, error) {
	if strings.TrimSpace(candidate) == "" {
		return SubscriberName{}, fmt.Errorf("%w: empty or whitespace-only", ErrInvalidName)
	}
	if uniseg.GraphemeClusterCount(strings.TrimSpace(candidate)) > maxNameLength {
		return SubscriberName{}, fmt.Errorf("%w: longer than %d characters", ErrInvalidName, maxNameLength)
	}
	if strings.ContainsAny(candidate, forbiddenNameCharacters) {
		return SubscriberName{}, fmt.Errorf("%w: contains forbidden characters", ErrInvalidName)
	}

	return SubscriberName{value: candidate}, nil
}

// String возвращает имя в исходном виде.
func (n SubscriberName) String() string {
	return n.value
}
