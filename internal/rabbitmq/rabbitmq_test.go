package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/newsletter-service/internal/models"
)

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func SetupRabbitMQContainer(ctx context.Context, t *testing.T) (testcontainers.Container, func()) {
	req := testcontainers.ContainerRequest{
		Image:        "rabbitmq:3-management",
		ExposedPorts: []string{"5672/tcp", "15672/tcp"},
		Env: map[string]string{
			"RABBITMQ_DEFAULT_USER":   "guest",
			"RABBITMQ_DEFAULT_PASS":   "guest",
			"RABBITMQ_DEFAULT_VHOST":  "/",
			"RABBITMQ_LOOPBACK_USERS": "",
		},
		WaitingFor: wait.ForListeningPort("5672/tcp").
			WithStartupTimeout(2 * time.Minute),
	}

	rmqContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	cleanup := func() {
		err := rmqContainer.Terminate(ctx)
		if err != nil {
			t.Logf("failed to terminate rabbitmq container: %v", err)
		}
	}

	return rmqContainer, cleanup
}

func GetAmqpURI(ctx context.Context, container testcontainers.Container) (string, error) {
	host, err := container.Host(ctx)
	if err != nil {
		return "", err
	}
	port, err := container.MappedPort(ctx, "5672/tcp")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("amqp://guest:guest@%s:%s/", host, port.Port()), nil
}

func setupAmqpURI(ctx context.Context, t *testing.T) (string, func()) {
	if testRabbitMQURL := os.Getenv("TEST_RABBITMQ_URL"); testRabbitMQURL != "" {
		t.Logf("Using external RabbitMQ service: %s", testRabbitMQURL)
		return testRabbitMQURL, func() {}
	}

	t.Log("Using testcontainers for RabbitMQ")
	rmqContainer, cleanup := SetupRabbitMQContainer(ctx, t)
	amqpURI, err := GetAmqpURI(ctx, rmqContainer)
	require.NoError(t, err)
	return amqpURI, cleanup
}

func TestConnectAndSetupChannel(t *testing.T) {
	ctx := context.Background()

	amqpURI, cleanup := setupAmqpURI(ctx, t)
	defer cleanup()

	conn, err := Connect(amqpURI, 3, time.Second)
	require.NoError(t, err)
	defer func() {
		_ = conn.Close()
	}()

	ch, err := SetupChannel(conn, GetNotificationQueues())
	require.NoError(t, err)
	defer func() {
		_ = ch.Close()
	}()

	// Повторная настройка тех же очередей не должна падать
	ch2, err := SetupChannel(conn, GetNotificationQueues())
	require.NoError(t, err)
	defer func() {
		_ = ch2.Close()
	}()
}

func TestPublishAndConsumeConfirmationRequest(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	amqpURI, cleanup := setupAmqpURI(ctx, t)
	defer cleanup()

	conn, err := Connect(amqpURI, 3, time.Second)
	require.NoError(t, err)
	defer func() {
		_ = conn.Close()
	}()

	ch, err := SetupChannel(conn, GetNotificationQueues())
	require.NoError(t, err)
	defer func() {
		_ = ch.Close()
	}()

	want := models.ConfirmationRequest{
		Email: "ursula_le_guin@gmail.com",
		Name:  "le guin",
		Token: "abcdefghijklmnopqrstuvwxy",
	}

	received := make(chan models.ConfirmationRequest, 1)
	handler := func(body []byte) error {
		var msg models.ConfirmationRequest
		if err := json.Unmarshal(body, &msg); err != nil {
			return err
		}
		received <- msg
		return nil
	}

	err = ConsumerMessage(ctx, ch, ConfirmationQueue, makeLogger(), handler)
	require.NoError(t, err)

	err = PublishMessage(ch, NotificationsExchange, ConfirmationRoutingKey, want)
	require.NoError(t, err)

	select {
	case got := <-received:
		assert.Equal(t, want, got)
	case <-time.After(10 * time.Second):
		t.Fatal("confirmation request was not consumed in time")
	}
}
