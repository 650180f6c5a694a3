package public

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bankrates/deploy/config"
	"bankrates/internal/entities"
	mwLogger "bankrates/internal/rates_bot/ports/http/public/middleware/logger"
)

// Server exposes the operational HTTP surface: live rates, the
// subscription store API consumed by UI layers, and metrics.
type Server struct {
	Server *http.Server
	cfg    *config.Config
	rates  RateSource
	store  SubscriptionStore
}

func NewServer(server *http.Server, cfg *config.Config, rates RateSource, store SubscriptionStore) *Server {
	return &Server{
		Server: server,
		cfg:    cfg,
		rates:  rates,
		store:  store,
	}
}

func StartServer(ctx context.Context, rates RateSource, store SubscriptionStore, cfg *config.Config) <-chan struct{} {

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mwLogger.New())
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())

	serverConfig := &http.Server{
		Addr:         ":" + cfg.HTTPServer.Port,
		Handler:      r,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	server := NewServer(serverConfig, cfg, rates, store)

	r.Get("/rates/{currency}", server.GetRates)
	r.Get("/subscriptions", server.ListSubscriptions)
	r.Get("/subscriptions/{userID}", server.GetSubscription)
	r.Put("/subscriptions/{userID}", server.PutSubscription)
	r.Delete("/subscriptions/{userID}", server.DeleteSubscription)

	doneChan := make(chan struct{})

	go func() {
		if err := server.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Http server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to stop server", "error", err)
		}

		close(doneChan)
	}()

	return doneChan
}

// GetRates scrapes live rates for a currency. An empty list is a valid
// answer, the engine never surfaces raw errors here.
func (s *Server) GetRates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	currency := chi.URLParam(r, "currency")

	records := s.rates.GetExchangeRates(ctx, currency)
	if records == nil {
		records = []entities.ExchangeRateRecord{}
	}

	RespondWithJSON(w, http.StatusOK, records)
}

func (s *Server) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	entries := s.store.All()

	subs := make(map[string]entities.Subscription, len(entries))
	for _, entry := range entries {
		subs[entry.UserID] = entry.Subscription
	}

	RespondWithJSON(w, http.StatusOK, map[string]any{
		"count":         s.store.Count(),
		"subscriptions": subs,
	})
}

func (s *Server) GetSubscription(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	sub, ok := s.store.Get(userID)
	if !ok {
		RespondWithError(w, http.StatusNotFound, entities.ErrSubscriptionNotFound.Error())
		return
	}

	RespondWithJSON(w, http.StatusOK, sub)
}

func (s *Server) PutSubscription(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var sub entities.Subscription
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid subscription payload", err.Error())
		return
	}

	if err := s.store.AddOrUpdate(userID, sub); err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid subscription", err.Error())
		return
	}

	RespondWithJSON(w, http.StatusOK, sub)
}

func (s *Server) DeleteSubscription(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	if !s.store.Remove(userID) {
		RespondWithError(w, http.StatusNotFound, entities.ErrSubscriptionNotFound.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func RespondWithJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func RespondWithError(w http.ResponseWriter, code int, message string, details ...string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)

	errorText := message
	if len(details) > 0 {
		errorText += "\nDetails: " + details[0]
	}

	if _, err := w.Write([]byte(errorText)); err != nil {
		slog.Error("Failed to write error response", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
