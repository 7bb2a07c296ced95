package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/priyankkodesianetspi/algo-bot/internal/interfaces"
	"github.com/priyankkodesianetspi/algo-bot/internal/logger"
	"github.com/priyankkodesianetspi/algo-bot/internal/types"
)

// Server exposes the webhook surface: alert ingestion, the broker login
// callback and a couple of inspection endpoints.
type Server struct {
	engine interfaces.Engine
	broker interfaces.Broker
	ledger interfaces.Ledger
	srv    *http.Server
}

func NewServer(addr string, engine interfaces.Engine, broker interfaces.Broker, ledger interfaces.Ledger) *Server {
	s := &Server{
		engine: engine,
		broker: broker,
		ledger: ledger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/", s.handleIndex)
	r.Get("/check", s.handleCheck)
	r.Get("/login", s.handleLogin)
	r.Get("/trades", s.handleTrades)
	r.Post("/webhook", s.handleWebhook)

	s.srv = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start blocks until the listener stops. http.ErrServerClosed is a normal
// shutdown, not an error.
func (s *Server) Start() error {
	logger.Info(context.Background(), "Webhook server listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// webhookPayload is the alert body: a trade intent plus the shared secret.
type webhookPayload struct {
	types.TradeIntent
	Passphrase string `json:"passphrase"`
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	outcome, err := s.engine.HandleIntent(r.Context(), payload.TradeIntent, payload.Passphrase)
	if err != nil {
		if errors.Is(err, types.ErrInvalidInput) {
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.ErrorWithErr(r.Context(), "Webhook intent failed", err, "symbol", payload.Symbol)
		writeError(w, "internal error", http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if outcome.Status == types.StatusRejected && outcome.Reason == types.ErrUnauthorized.Error() {
		status = http.StatusUnauthorized
	}
	writeJSON(w, outcome, status)
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	orderIDs, err := s.ledger.ListOrderIDs()
	if err != nil {
		logger.ErrorWithErr(r.Context(), "Failed to list order ids", err)
		writeError(w, "failed to read trade ledger", http.StatusInternalServerError)
		return
	}

	orders := make([]types.OrderLeg, 0, len(orderIDs))
	for _, id := range orderIDs {
		leg, err := s.broker.OrderHistory(r.Context(), id)
		if err != nil {
			logger.ErrorWithErr(r.Context(), "Failed to fetch order history", err, "order_id", id)
			continue
		}
		orders = append(orders, leg)
	}
	writeJSON(w, orders, http.StatusOK)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	requestToken := r.URL.Query().Get("request_token")
	if requestToken == "" {
		writeError(w, "request_token missing", http.StatusBadRequest)
		return
	}
	if err := s.broker.GenerateSession(r.Context(), requestToken); err != nil {
		logger.ErrorWithErr(r.Context(), "Failed to generate broker session", err)
		writeError(w, "session generation failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, map[string]string{"status": "session generated"}, http.StatusOK)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(`<a href='/login'><h1>Login</h1></a>`))
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, map[string]string{"error": message}, status)
}
