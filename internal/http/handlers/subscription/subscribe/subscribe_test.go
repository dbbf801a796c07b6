package subscribe_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/newsletter-service/internal/http/handlers/subscription/subscribe"
	"github.com/magabrotheeeer/newsletter-service/internal/http/response"
	"github.com/magabrotheeeer/newsletter-service/internal/models"
	services "github.com/magabrotheeeer/newsletter-service/internal/services/subscription"
	"github.com/magabrotheeeer/newsletter-service/internal/storage"
)

type mockService struct {
	SubscribeFunc func(ctx context.Context, req models.DummySubscriber) (string, error)
}

func (m *mockService) Subscribe(ctx context.Context, req models.DummySubscriber) (string, error) {
	return m.SubscribeFunc(ctx, req)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func postForm(handler http.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/subscriptions", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestSubscribeHandler(t *testing.T) {
	t.Run("valid form data returns 201", func(t *testing.T) {
		service := &mockService{
			SubscribeFunc: func(ctx context.Context, req models.DummySubscriber) (string, error) {
				require.Equal(t, "le guin", req.Name)
				require.Equal(t, "ursula_le_guin@gmail.com", req.Email)
				return "11111111-2222-3333-4444-555555555555", nil
			},
		}

		w := postForm(subscribe.New(makeLogger(), service), url.Values{
			"name":  {"le guin"},
			"email": {"ursula_le_guin@gmail.com"},
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp response.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, response.StatusOK, resp.Status)
		assert.Equal(t, "11111111-2222-3333-4444-555555555555", resp.Data.(map[string]any)["id"])
	})

	t.Run("missing fields return 400", func(t *testing.T) {
		tests := []struct {
			name string
			form url.Values
		}{
			{name: "missing email", form: url.Values{"name": {"le guin"}}},
			{name: "missing name", form: url.Values{"email": {"ursula_le_guin@gmail.com"}}},
			{name: "missing both", form: url.Values{}},
			{name: "empty email", form: url.Values{"name": {"Ursula"}, "email": {""}}},
			{name: "empty name", form: url.Values{"name": {""}, "email": {"ursula_le_guin@gmail.com"}}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				service := &mockService{
					SubscribeFunc: func(ctx context.Context, req models.DummySubscriber) (string, error) {
						t.Fatal("service should not be called when a field is missing")
						return "", nil
					},
				}

				w := postForm(subscribe.New(makeLogger(), service), tt.form)
				assert.Equal(t, http.StatusBadRequest, w.Code)
			})
		}
	})

	t.Run("invalid email returns 400 naming the field", func(t *testing.T) {
		service := &mockService{
			SubscribeFunc: func(ctx context.Context, req models.DummySubscriber) (string, error) {
				return "", models.ErrInvalidEmail
			},
		}

		w := postForm(subscribe.New(makeLogger(), service), url.Values{
			"name":  {"Ursula"},
			"email": {"definitely-not-an-email"},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "email")
	})

	t.Run("invalid name returns 400 naming the field", func(t *testing.T) {
		service := &mockService{
			SubscribeFunc: func(ctx context.Context, req models.DummySubscriber) (string, error) {
				return "", models.ErrInvalidName
			},
		}

		w := postForm(subscribe.New(makeLogger(), service), url.Values{
			"name":  {"le/guin"},
			"email": {"ursula_le_guin@gmail.com"},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "name")
	})

	t.Run("duplicate email returns 409", func(t *testing.T) {
		service := &mockService{
			SubscribeFunc: func(ctx context.Context, req models.DummySubscriber) (string, error) {
				return "", storage.ErrEmailTaken
			},
		}

		w := postForm(subscribe.New(makeLogger(), service), url.Values{
			"name":  {"le guin"},
			"email": {"ursula_le_guin@gmail.com"},
		})

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("delivery failure returns 502", func(t *testing.T) {
		service := &mockService{
			SubscribeFunc: func(ctx context.Context, req models.DummySubscriber) (string, error) {
				return "some-id", services.ErrDeliveryFailed
			},
		}

		w := postForm(subscribe.New(makeLogger(), service), url.Values{
			"name":  {"le guin"},
			"email": {"ursula_le_guin@gmail.com"},
		})

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "confirmation email")
	})

	t.Run("store failure returns 500", func(t *testing.T) {
		service := &mockService{
			SubscribeFunc: func(ctx context.Context, req models.DummySubscriber) (string, error) {
				return "", errors.New("connection refused")
			},
		}

		w := postForm(subscribe.New(makeLogger(), service), url.Values{
			"name":  {"le guin"},
			"email": {"ursula_le_guin@gmail.com"},
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
