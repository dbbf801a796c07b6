package read_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/newsletter-service/internal/http/handlers/subscription/read"
	"github.com/magabrotheeeer/newsletter-service/internal/http/response"
	"github.com/magabrotheeeer/newsletter-service/internal/models"
	"github.com/magabrotheeeer/newsletter-service/internal/storage"
)

type mockService struct {
	ReadFunc func(ctx context.Context, id string) (*models.SubscriptionInfo, error)
}

func (m *mockService) Read(ctx context.Context, id string) (*models.SubscriptionInfo, error) {
	return m.ReadFunc(ctx, id)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func getSubscription(service read.Service, id string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Get("/subscriptions/{id}", read.New(makeLogger(), service).ServeHTTP)

	req := httptest.NewRequest(http.MethodGet, "/subscriptions/"+id, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestReadHandler(t *testing.T) {
	t.Run("existing subscription returns data", func(t *testing.T) {
		service := &mockService{
			ReadFunc: func(ctx context.Context, id string) (*models.SubscriptionInfo, error) {
				require.Equal(t, "some-id", id)
				return &models.SubscriptionInfo{
					ID:     "some-id",
					Email:  "ursula_le_guin@gmail.com",
					Name:   "le guin",
					Status: models.StatusPending,
				}, nil
			},
		}

		w := getSubscription(service, "some-id")
		assert.Equal(t, http.StatusOK, w.Code)

		var resp response.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, response.StatusOK, resp.Status)

		data := resp.Data.(map[string]any)
		assert.Equal(t, models.StatusPending, data["status"])
		assert.Equal(t, "ursula_le_guin@gmail.com", data["email"])
	})

	t.Run("missing subscription returns 404", func(t *testing.T) {
		service := &mockService{
			ReadFunc: func(ctx context.Context, id string) (*models.SubscriptionInfo, error) {
				return nil, storage.ErrSubscriptionNotFound
			},
		}

		w := getSubscription(service, "missing-id")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
