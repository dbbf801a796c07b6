// Package token генерирует одноразовые токены подтверждения подписки.
// Токен — случайная строка из URL-безопасного алфавита, полученная из
// криптографического источника, и никогда не выводится из данных подписчика.
package token

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Alphabet алфавит токена: 62 символа, безопасных для URL.
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length длина токена: 25 символов алфавита из 62, ~148 бит энтропии.
const Length = 25

// Generate возвращает новый токен подтверждения.
func Generate() (string, error) {
	const op = "token.Generate"

	max := big.NewInt(int64(len(Alphabet)))
	buf := make([]byte, Length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		buf[i] = Alphabet[n.Int64()]
	}
	return string(buf), nil
}
