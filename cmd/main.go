package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/tanque-cheio/internal/alerts"
	"github.com/ukydev/tanque-cheio/internal/auth"
	"github.com/ukydev/tanque-cheio/internal/config"
	"github.com/ukydev/tanque-cheio/internal/db"
	"github.com/ukydev/tanque-cheio/internal/events"
	"github.com/ukydev/tanque-cheio/internal/handlers"
	"github.com/ukydev/tanque-cheio/internal/middleware"
	"github.com/ukydev/tanque-cheio/internal/monitoring"
	"github.com/ukydev/tanque-cheio/internal/service"
)

// collections are the storage interfaces the API is built on.
type collections struct {
	users    db.UserCollection
	vehicles db.VehicleCollection
	fillUps  db.FillUpCollection
	alerts   db.AlertCollection
}

// newHandler assembles the routes and wraps them in the middleware chain:
// request id, access log, rate limit, authentication, request timeout.
func newHandler(cfg *config.Config, c collections, authService *auth.Service, metrics *monitoring.Metrics, publisher events.Publisher) http.Handler {
	vehicleService := service.NewVehicleService(c.vehicles, c.fillUps, c.alerts, publisher)
	dashboardService := service.NewDashboardService(c.vehicles, c.fillUps, metrics)

	mux := handlers.NewMux(handlers.Routes{
		Auth:      handlers.NewAuthHandler(authService, c.users, c.vehicles, c.fillUps, c.alerts),
		Vehicles:  handlers.NewVehicleHandler(c.vehicles, c.fillUps, vehicleService, cfg.FillUpQueryLimit),
		Dashboard: handlers.NewDashboardHandler(dashboardService),
		Alerts:    handlers.NewAlertHandler(c.alerts, c.vehicles, vehicleService, alerts.TemplateGenerator{}),
		Metrics:   metrics.Handler(),
	})

	var h http.Handler = http.TimeoutHandler(mux, cfg.RequestTimeout, "Request timed out")
	h = middleware.NewAuthMiddleware(authService).Authenticate(h)
	h = middleware.NewRateLimitMiddleware().RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow)(h)
	h = middleware.AccessLog(metrics, mux)(h)
	return middleware.RequestID(h)
}

// newPublisher connects to the MQTT broker when one is configured. The API
// keeps serving without events when the broker is unreachable.
func newPublisher(cfg *config.Config, metrics *monitoring.Metrics) events.Publisher {
	if cfg.MQTTBroker == "" {
		log.Info("MQTT broker not configured, fill-up events disabled")
		return events.NoopPublisher{}
	}
	publisher, err := events.ConnectMQTT(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopicPrefix)
	if err != nil {
		log.WithError(err).WithField("broker", cfg.MQTTBroker).Warn("MQTT unavailable, fill-up events disabled")
		return events.NoopPublisher{}
	}
	return events.Instrumented{Publisher: publisher, Metrics: metrics}
}

func main() {
	cfg := config.Load()
	cfg.ConfigureLogging()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	client, err := db.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		cancel()
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	store := db.NewStore(client, cfg.MongoDB)
	if err := store.EnsureIndexes(ctx); err != nil {
		log.WithError(err).Warn("Failed to create indexes")
	}
	cancel()
	log.WithField("database", cfg.MongoDB).Info("Connected to MongoDB")

	authService, err := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}

	metrics := monitoring.NewMetrics()
	publisher := newPublisher(cfg, metrics)

	handler := newHandler(cfg, collections{
		users:    store.Users,
		vehicles: store.Vehicles,
		fillUps:  store.FillUps,
		alerts:   store.Alerts,
	}, authService, metrics, publisher)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        handler,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.WithField("signal", sig.String()).Info("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown error")
	}
	publisher.Close()
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.WithError(err).Error("MongoDB disconnect error")
	}
	log.Info("Server stopped")
}
