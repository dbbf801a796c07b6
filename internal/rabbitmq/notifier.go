package rabbitmq

import (
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/newsletter-service/internal/models"
)

// Notifier публикует запросы на доставку письма-подтверждения в очередь
// отправителя. Ошибка публикации означает, что письмо не будет доставлено.
type Notifier struct {
	ch *amqp.Channel
}

// NewNotifier создает Notifier поверх настроенного канала.
func NewNotifier(ch *amqp.Channel) *Notifier {
	return &Notifier{ch: ch}
}

// RequestConfirmation отправляет запрос на доставку ссылки подтверждения.
func (n *Notifier) RequestConfirmation(req models.ConfirmationRequest) error {
	return PublishMessage(n.ch, NotificationsExchange, ConfirmationRoutingKey, req)
}
