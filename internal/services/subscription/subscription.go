// Package services содержит бизнес-логику жизненного цикла подписки:
// приём заявки, выпуск токена подтверждения и перевод подписки в confirmed.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/newsletter-service/internal/lib/sl"
	"github.com/magabrotheeeer/newsletter-service/internal/lib/token"
	"github.com/magabrotheeeer/newsletter-service/internal/models"
)

// ErrDeliveryFailed возвращается, когда письмо-подтверждение не удалось
// передать на доставку. Подписка при этом остаётся pending и может быть
// подтверждена после повторной отправки.
var ErrDeliveryFailed = errors.New("failed to deliver confirmation email")

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscriptionWithToken атомарно сохраняет подписку вместе с токеном.
	CreateSubscriptionWithToken(ctx context.Context, sub models.Subscription, tokenValue string) error
	// ConfirmByToken атомарно переводит привязанную к токену подписку в confirmed.
	ConfirmByToken(ctx context.Context, tokenValue string) (string, bool, error)
	// ReadSubscription возвращает подписку по ID.
	ReadSubscription(ctx context.Context, id string) (*models.SubscriptionInfo, error)
}

// Notifier запрашивает доставку ссылки подтверждения подписчику.
type Notifier interface {
	RequestConfirmation(req models.ConfirmationRequest) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// SubscriptionService реализует бизнес-логику жизненного цикла подписки.
type SubscriptionService struct {
	repo     SubscriptionRepository
	notifier Notifier
	cache    Cache
	log      *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, notifier Notifier, cache Cache, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:     repo,
		notifier: notifier,
		cache:    cache,
		log:      log,
	}
}

// Subscribe валидирует заявку, сохраняет pending-подписку вместе с токеном
// подтверждения и запрашивает доставку письма со ссылкой. Возвращает ID
// созданной подписки. Ошибка доставки не откатывает запись и не
// подтверждает её: подписка остаётся pending до погашения токена.
func (s *SubscriptionService) Subscribe(ctx context.Context, req models.DummySubscriber) (string, error) {
	name, err := models.ParseSubscriberName(req.Name)
	if err != nil {
		return "", err
	}
	email, err := models.ParseEmailAddress(req.Email)
	if err != nil {
		return "", err
	}

	tokenValue, err := token.Generate()
	if err != nil {
		return "", fmt.Errorf("failed to generate confirmation token: %w", err)
	}

	sub := models.Subscription{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		Status:    models.StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateSubscriptionWithToken(ctx, sub, tokenValue); err != nil {
		return "", err
	}
	s.log.Info("created pending subscription", slog.String("id", sub.ID))

	err = s.notifier.RequestConfirmation(models.ConfirmationRequest{
		Email: email.String(),
		Name:  name.String(),
		Token: tokenValue,
	})
	if err != nil {
		s.log.Error("failed to request confirmation delivery",
			slog.String("id", sub.ID), sl.Err(err))
		return sub.ID, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}
	s.log.Info("confirmation delivery requested", slog.String("id", sub.ID))

	return sub.ID, nil
}

// Confirm погашает токен подтверждения. Неизвестный токен возвращает
// storage.ErrTokenNotFound; повторное подтверждение уже подтверждённой
// подписки — успешный no-op, чтобы ссылку можно было открыть ещё раз.
func (s *SubscriptionService) Confirm(ctx context.Context, tokenValue string) error {
	id, transitioned, err := s.repo.ConfirmByToken(ctx, tokenValue)
	if err != nil {
		return err
	}

	if transitioned {
		if err := s.cache.Invalidate(ctx, "subscription:"+id); err != nil {
			s.log.Warn("failed to invalidate cache", slog.String("id", id), sl.Err(err))
		}
		s.log.Info("subscription confirmed", slog.String("id", id))
	} else {
		s.log.Info("subscription already confirmed, nothing to do", slog.String("id", id))
	}
	return nil
}

// Read возвращает подписку по ID, используя кеш или репозиторий.
func (s *SubscriptionService) Read(ctx context.Context, id string) (*models.SubscriptionInfo, error) {
	var result *models.SubscriptionInfo
	cacheKey := "subscription:" + id
	found, err := s.cache.Get(ctx, cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found && result != nil {
		return result, nil
	}

	result, err = s.repo.ReadSubscription(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey),
			sl.Err(err))
	}
	return result, nil
}
