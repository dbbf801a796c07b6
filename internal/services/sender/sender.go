// Package services реализует отправку писем-подтверждений: потребляет
// сообщения очереди и доставляет подписчику ссылку с токеном по SMTP.
package services

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"log/slog"

	"github.com/magabrotheeeer/newsletter-service/internal/lib/sl"
	"github.com/magabrotheeeer/newsletter-service/internal/lib/smtp"
	"github.com/magabrotheeeer/newsletter-service/internal/models"
)

// SenderService собирает и отправляет письма-подтверждения.
type SenderService struct {
	transport smtp.TransportInterface
	baseURL   string
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
// baseURL — внешний адрес сервиса, на котором живёт confirm-эндпоинт.
func NewSenderService(transport smtp.TransportInterface, baseURL string, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		baseURL:   baseURL,
		log:       log,
	}
}

// ConfirmationLink возвращает ссылку подтверждения с токеном.
func (s *SenderService) ConfirmationLink(tokenValue string) string {
	return fmt.Sprintf("%s/api/v1/subscriptions/confirm?subscription_token=%s",
		strings.TrimRight(s.baseURL, "/"), url.QueryEscape(tokenValue))
}

// SendConfirmationEmail обрабатывает сообщение очереди: разбирает запрос
// и отправляет подписчику письмо со ссылкой подтверждения.
func (s *SenderService) SendConfirmationEmail(body []byte) error {
	var message models.ConfirmationRequest
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("Failed to unmarshal message body", "error", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.Email}
	subject := "Please confirm your subscription"
	bodyText := fmt.Sprintf("Hello, %s!\n\nWelcome to our newsletter. "+
		"To start receiving issues, please confirm your subscription:\n\n%s\n\n"+
		"If you did not subscribe, just ignore this email.",
		message.Name, s.ConfirmationLink(message.Token))

	return s.sendEmail(to, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("Failed to connect to SMTP server", "error", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("Failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("Failed to set RCPT TO", "to", addr, "error", sl.Err(err))
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		s.log.Error("Failed to open DATA stream", "error", sl.Err(err))
		return err
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		s.log.Error("Failed to write message body", "error", sl.Err(err))
		return err
	}
	if err := w.Close(); err != nil {
		s.log.Error("Failed to close DATA stream", "error", sl.Err(err))
		return err
	}

	if err := client.Quit(); err != nil {
		s.log.Error("Failed to quit SMTP session", "error", sl.Err(err))
		return err
	}

	s.log.Info("confirmation email sent", "to", strings.Join(to, ";"))
	return nil
}
