// Package webhook hosts the inbound HTTP listener that turns signed
// GitHub event callbacks into chat notifications. It runs on its own
// goroutines so webhook bursts never delay interactive command replies.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hubwatch/hubwatch/internal/config"
	"github.com/hubwatch/hubwatch/internal/notify"
)

// Server is the webhook listener. It verifies each delivery's HMAC
// signature, classifies the event, and hands formatted notifications to
// the dispatcher. It holds no mutable state between requests.
type Server struct {
	cfg        config.WebhookConfig
	dispatcher *notify.Dispatcher
}

// New creates a Server. Call Start() to begin serving.
func New(cfg config.WebhookConfig, dispatcher *notify.Dispatcher) *Server {
	return &Server{cfg: cfg, dispatcher: dispatcher}
}

// Handler wires the webhook routes onto a new ServeMux.
// Uses Go 1.22+ method-prefixed patterns ("GET /path", "POST /path").
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /webhook", s.handleWebhook)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

// Start binds the HTTP listener and blocks until ctx is cancelled or the
// server fails.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("webhook: listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("webhook server: %w", err)
	}
	return nil
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	maxBody := s.cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = config.DefaultMaxBodyBytes
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			slog.Warn("webhook: body over size cap", "limit", maxBody)
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "payload too large"})
			return
		}
		slog.Warn("webhook: reading body failed", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable body"})
		return
	}

	// Authenticate before touching the payload at all.
	sig := r.Header.Get("X-Hub-Signature-256")
	if !VerifySignature(s.cfg.Secret, body, sig) {
		slog.Warn("webhook: invalid signature", "remote", r.RemoteAddr, "has_header", sig != "")
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid signature"})
		return
	}

	eventHeader := r.Header.Get("X-GitHub-Event")
	kind := ParseKind(eventHeader)
	switch kind {
	case KindPing:
		slog.Info("webhook: ping received")
		writeJSON(w, http.StatusOK, map[string]string{"status": "pong"})
		return
	case KindUnknown:
		// Acknowledge so GitHub doesn't mark the hook as failing.
		slog.Info("webhook: unhandled event type", "event", eventHeader)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	maxCommits := s.cfg.MaxCommits
	if maxCommits <= 0 {
		maxCommits = config.DefaultMaxCommits
	}
	evt, ok, err := formatEvent(kind, body, maxCommits)
	if err != nil {
		// The sender authenticated, so a parse failure is their bug, not
		// ours. 200 avoids a redelivery storm.
		slog.Warn("webhook: malformed payload", "event", eventHeader, "error", err)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	s.dispatcher.Notify(r.Context(), evt)
	slog.Info("webhook: notification dispatched", "event", eventHeader, "repo", evt.Repo)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "hubwatch"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
