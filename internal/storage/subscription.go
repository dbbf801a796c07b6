package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/newsletter-service/internal/models"
)

// CreateSubscriptionWithToken вставляет подписку и её токен подтверждения
// в одной транзакции: подписка не может существовать без токена и наоборот.
// Повторный email отклоняется уникальным индексом и возвращает ErrEmailTaken.
func (s *Storage) CreateSubscriptionWithToken(ctx context.Context, sub models.Subscription, tokenValue string) error {
	const op = "storage.CreateSubscriptionWithToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO subscriptions (id, email, name, status, created_at)
			  VALUES ($1, $2, $3, $4, $5)`
	_, err = tx.ExecContext(ctx, query,
		sub.ID, sub.Email.String(), sub.Name.String(), sub.Status, sub.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	query = `INSERT INTO subscription_tokens (subscription_token, subscription_id)
			 VALUES ($1, $2)`
	if _, err = tx.ExecContext(ctx, query, tokenValue, sub.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ConfirmByToken переводит подписку, привязанную к токену, из pending в confirmed.
// Переход выполняется одним условным UPDATE, поэтому при конкурентных вызовах
// для одного токена статус меняется ровно один раз. Возвращает ID подписки и
// true, если переход выполнил именно этот вызов; повторное подтверждение —
// успешный no-op.
func (s *Storage) ConfirmByToken(ctx context.Context, tokenValue string) (string, bool, error) {
	const op = "storage.ConfirmByToken"
	select {
	case <-ctx.Done():
		return "", false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions s
			  SET status = $1
			  FROM subscription_tokens t
			  WHERE s.id = t.subscription_id
			    AND t.subscription_token = $2
			    AND s.status = $3
			  RETURNING s.id`
	var subscriptionID string
	err := s.DB.QueryRowContext(ctx, query,
		models.StatusConfirmed, tokenValue, models.StatusPending).Scan(&subscriptionID)
	if err == nil {
		return subscriptionID, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}

	// Ноль строк: либо подписка уже подтверждена, либо токен не существует.
	query = `SELECT subscription_id FROM subscription_tokens WHERE subscription_token = $1`
	if err := s.DB.QueryRowContext(ctx, query, tokenValue).Scan(&subscriptionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, fmt.Errorf("%s: %w", op, ErrTokenNotFound)
		}
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return subscriptionID, false, nil
}

// ReadSubscription возвращает подписку по её ID.
func (s *Storage) ReadSubscription(ctx context.Context, id string) (*models.SubscriptionInfo, error) {
	const op = "storage.ReadSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, name, status, created_at
			  FROM subscriptions WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.SubscriptionInfo
	if err := row.Scan(&result.ID, &result.Email, &result.Name,
		&result.Status, &result.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrSubscriptionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// FindTokenBySubscriptionID возвращает токен подтверждения подписки.
// Используется для повторной отправки письма, пока подписка остаётся pending.
func (s *Storage) FindTokenBySubscriptionID(ctx context.Context, id string) (string, error) {
	const op = "storage.FindTokenBySubscriptionID"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT subscription_token FROM subscription_tokens WHERE subscription_id = $1`
	var tokenValue string
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&tokenValue); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, ErrTokenNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return tokenValue, nil
}
