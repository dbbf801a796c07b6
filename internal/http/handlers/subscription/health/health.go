// Package health реализует обработчик проверки живости сервиса:
// отвечает 200, когда хранилище готово принимать запросы.
package health

import (
	"net/http"

	"log/slog"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/newsletter-service/internal/http/response"
	"github.com/magabrotheeeer/newsletter-service/internal/lib/sl"
)

// ReadinessFunc сообщает, готов ли сервис обслуживать запросы.
type ReadinessFunc func() error

type Handler struct {
	log   *slog.Logger
	ready ReadinessFunc
}

func New(log *slog.Logger, ready ReadinessFunc) *Handler {
	return &Handler{
		log:   log,
		ready: ready,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.health"

	if h.ready != nil {
		if err := h.ready(); err != nil {
			h.log.Error("readiness check failed", slog.String("op", op), sl.Err(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("storage is not ready"))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"status": "ok",
	}))
}
