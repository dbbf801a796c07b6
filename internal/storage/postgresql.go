// Package storage реализует хранилище данных на основе PostgreSQL
// для управления подписками рассылки и их токенами подтверждения.
// Подписка и её токен создаются в одной транзакции, подтверждение
// выполняется одним условным UPDATE.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrEmailTaken возвращается при попытке подписать уже подписанный email.
var ErrEmailTaken = errors.New("email already subscribed")

// ErrTokenNotFound возвращается, когда токен подтверждения не привязан ни к одной подписке.
var ErrTokenNotFound = errors.New("subscription token not found")

// ErrSubscriptionNotFound возвращается, когда подписка с данным ID не существует.
var ErrSubscriptionNotFound = errors.New("subscription not found")

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с подписками и токенами.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'subscriptions'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table subscriptions missing or query error: %w", err)
	}
	return nil
}
