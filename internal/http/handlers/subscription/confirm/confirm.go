// Package confirm реализует HTTP-обработчик подтверждения подписки по токену
// из письма. Повторное открытие ссылки — успешный no-op.
package confirm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/newsletter-service/internal/http/response"
	"github.com/magabrotheeeer/newsletter-service/internal/lib/sl"
	"github.com/magabrotheeeer/newsletter-service/internal/storage"
)

// Handler управляет HTTP-запросами на подтверждение подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики подтверждения.
type Service interface {
	Confirm(ctx context.Context, tokenValue string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Подтвердить подписку
// @Description Погашает токен из письма и переводит подписку в confirmed.
// @Tags Subscriptions
// @Produce  json
// @Param subscription_token query string true "Токен подтверждения"
// @Success 200 {object} response.Response "Подписка подтверждена"
// @Failure 400 {object} response.ErrorResponse "Токен не передан"
// @Failure 404 {object} response.ErrorResponse "Токен не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при подтверждении"
// @Router /subscriptions/confirm [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.confirm"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	tokenValue := r.URL.Query().Get("subscription_token")
	if tokenValue == "" {
		log.Error("subscription_token is missing")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("subscription_token is required"))
		return
	}

	err := h.service.Confirm(r.Context(), tokenValue)
	switch {
	case errors.Is(err, storage.ErrTokenNotFound):
		log.Error("unknown subscription token")
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("subscription token not found"))
		return
	case err != nil:
		log.Error("failed to confirm subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not confirm subscription"))
		return
	}

	log.Info("subscription confirmed")
	render.JSON(w, r, response.OK())
}
