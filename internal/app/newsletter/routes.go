// Package newsletter собирает приложение и предоставляет его маршруты.
package newsletter

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/newsletter-service/internal/http/handlers/subscription/confirm"
	"github.com/magabrotheeeer/newsletter-service/internal/http/handlers/subscription/health"
	"github.com/magabrotheeeer/newsletter-service/internal/http/handlers/subscription/read"
	"github.com/magabrotheeeer/newsletter-service/internal/http/handlers/subscription/subscribe"
	subservice "github.com/magabrotheeeer/newsletter-service/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, subscriptionService *subservice.SubscriptionService, ready health.ReadinessFunc) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", health.New(logger, ready).ServeHTTP)
		r.Post("/subscriptions", subscribe.New(logger, subscriptionService).ServeHTTP)
		r.Get("/subscriptions/confirm", confirm.New(logger, subscriptionService).ServeHTTP)
		r.Get("/subscriptions/{id}", read.New(logger, subscriptionService).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
