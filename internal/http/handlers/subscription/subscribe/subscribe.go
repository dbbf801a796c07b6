// Package subscribe реализует HTTP-обработчик приёма новой подписки.
//
// Handler принимает форму с полями name и email, валидирует их, вызывает
// бизнес-логику создания pending-подписки с токеном подтверждения и
// возвращает ID созданной записи в JSON-формате.
//
// В случае ошибок формируются соответствующие HTTP-ответы с описанием проблемы.
package subscribe

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/newsletter-service/internal/http/response"
	"github.com/magabrotheeeer/newsletter-service/internal/lib/sl"
	"github.com/magabrotheeeer/newsletter-service/internal/models"
	services "github.com/magabrotheeeer/newsletter-service/internal/services/subscription"
	"github.com/magabrotheeeer/newsletter-service/internal/storage"
)

// Handler управляет HTTP-запросами на создание новых подписок.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики жизненного цикла подписки
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики приёма подписки.
type Service interface {
	Subscribe(ctx context.Context, req models.DummySubscriber) (string, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подписаться на рассылку
// @Description Создает pending-подписку и отправляет письмо со ссылкой подтверждения.
// @Tags Subscriptions
// @Accept  x-www-form-urlencoded
// @Produce  json
// @Param name formData string true "Имя подписчика"
// @Param email formData string true "Email подписчика"
// @Success 201 {object} map[string]any "Подписка создана, письмо отправлено"
// @Failure 400 {object} response.ErrorResponse "Отсутствующее или некорректное поле"
// @Failure 409 {object} response.ErrorResponse "Email уже подписан"
// @Failure 502 {object} response.ErrorResponse "Письмо не удалось отправить"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании подписки"
// @Router /subscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.subscribe"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	req := models.DummySubscriber{
		Name:  r.PostFormValue("name"),
		Email: r.PostFormValue("email"),
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are present")

	id, err := h.service.Subscribe(r.Context(), req)
	switch {
	case errors.Is(err, models.ErrInvalidName):
		log.Error("invalid subscriber name", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("field name is not a valid subscriber name"))
		return
	case errors.Is(err, models.ErrInvalidEmail):
		log.Error("invalid subscriber email", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("field email is not a valid email address"))
		return
	case errors.Is(err, storage.ErrEmailTaken):
		log.Error("email already subscribed", sl.Err(err))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("email is already subscribed"))
		return
	case errors.Is(err, services.ErrDeliveryFailed):
		// Подписка сохранена и осталась pending, но письмо не ушло.
		log.Error("failed to deliver confirmation email", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not deliver confirmation email"))
		return
	case err != nil:
		log.Error("failed to create subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create subscription"))
		return
	}

	log.Info("success to create subscription", slog.String("id", id))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
