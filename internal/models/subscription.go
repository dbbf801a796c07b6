package models

import "time"

// Статусы подписки. Переход возможен только pending -> confirmed
// и только через погашение токена подтверждения.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
)

// Subscription представляет подписку на рассылку,
// используемую в бизнес-логике и хранилище.
type Subscription struct {
	ID        string         // Уникальный идентификатор подписки
	Email     EmailAddress   // Проверенный адрес подписчика
	Name      SubscriberName // Проверенное имя подписчика
	Status    string         // Текущий статус: pending или confirmed
	CreatedAt time.Time      // Время создания записи
}

// DummySubscriber используется для приёма данных из формы запроса,
// прежде чем конвертировать их в доменные значения через Parse*.
type DummySubscriber struct {
	Name  string `json:"name" validate:"required"`  // Имя подписчика
	Email string `json:"email" validate:"required"` // Email подписчика
}

// ConfirmationRequest сообщение для отправителя писем: кому и с каким
// токеном доставить ссылку подтверждения.
type ConfirmationRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

// SubscriptionInfo урезанное представление подписки для ответов API и кеша.
type SubscriptionInfo struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
