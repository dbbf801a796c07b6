package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/newsletter-service/internal/migrations"
	"github.com/magabrotheeeer/newsletter-service/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере, применяет миграции
// и возвращает готовое хранилище вместе с функцией очистки.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForSQL(nat.Port("5432/tcp"), "pgx", func(host string, port nat.Port) string {
				return fmt.Sprintf("postgres://user:password@%s:%s/testdb?sslmode=disable", host, port.Port())
			}).WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)

	migrationsPath, err := filepath.Abs("../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath))

	cleanup := func() {
		_ = storage.DB.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return storage, cleanup
}

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreatePendingSubscription создает pending-подписку с токеном и возвращает их.
func (f *TestDataFactory) CreatePendingSubscription(t *testing.T, name, email, tokenValue string) models.Subscription {
	parsedName, err := models.ParseSubscriberName(name)
	require.NoError(t, err)
	parsedEmail, err := models.ParseEmailAddress(email)
	require.NoError(t, err)

	sub := models.Subscription{
		ID:        uuid.New().String(),
		Email:     parsedEmail,
		Name:      parsedName,
		Status:    models.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.storage.CreateSubscriptionWithToken(context.Background(), sub, tokenValue))
	return sub
}

// SubscriptionStatus возвращает статус подписки напрямую из базы.
func (f *TestDataFactory) SubscriptionStatus(t *testing.T, id string) string {
	var status string
	err := f.storage.DB.QueryRow(`SELECT status FROM subscriptions WHERE id = $1`, id).Scan(&status)
	require.NoError(t, err)
	return status
}

// CountSubscriptions возвращает число подписок в базе.
func (f *TestDataFactory) CountSubscriptions(t *testing.T) int {
	var count int
	err := f.storage.DB.QueryRow(`SELECT COUNT(*) FROM subscriptions`).Scan(&count)
	require.NoError(t, err)
	return count
}
