package webhook

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hubwatch/hubwatch/internal/config"
	"github.com/hubwatch/hubwatch/internal/notify"
)

const testSecret = "test-webhook-secret"

type recordingChannel struct {
	sent []notify.Event
}

func (r *recordingChannel) Name() string       { return "recording" }
func (r *recordingChannel) IsConfigured() bool { return true }
func (r *recordingChannel) Send(_ context.Context, evt notify.Event) error {
	r.sent = append(r.sent, evt)
	return nil
}

func newTestServer(t *testing.T) (*Server, *recordingChannel) {
	t.Helper()
	ch := &recordingChannel{}
	d := notify.NewDispatcher(config.NotifyConfig{}, ch)
	s := New(config.WebhookConfig{
		Secret:       testSecret,
		MaxBodyBytes: 1 << 20,
		MaxCommits:   3,
	}, d)
	return s, ch
}

func deliver(t *testing.T, s *Server, event string, body []byte, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", event)
	if signature != "" {
		req.Header.Set("X-Hub-Signature-256", signature)
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func TestWebhookDeliversVerifiedPush(t *testing.T) {
	s, ch := newTestServer(t)
	body := pushBody(t, 2)

	rr := deliver(t, s, "push", body, Sign(testSecret, body))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(ch.sent) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(ch.sent))
	}
	evt := ch.sent[0]
	if evt.Type != "push" || !strings.Contains(evt.Title, "octocat/Hello-World") {
		t.Errorf("event = %+v", evt)
	}
	if got := strings.Count(evt.Body, "🔸"); got != 2 {
		t.Errorf("expected 2 commit summaries, got %d", got)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	s, ch := newTestServer(t)
	body := pushBody(t, 1)

	sig := Sign(testSecret, body)
	// Flip one hex digit.
	last := sig[len(sig)-1]
	flip := byte('0')
	if last == '0' {
		flip = '1'
	}
	rr := deliver(t, s, "push", body, sig[:len(sig)-1]+string(flip))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if len(ch.sent) != 0 {
		t.Fatalf("notification sent for bad signature: %+v", ch.sent)
	}
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	s, ch := newTestServer(t)
	rr := deliver(t, s, "push", pushBody(t, 1), "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if len(ch.sent) != 0 {
		t.Fatal("notification sent without signature")
	}
}

func TestWebhookAcknowledgesUnknownEvent(t *testing.T) {
	s, ch := newTestServer(t)
	body := []byte(`{"anything":"goes"}`)
	rr := deliver(t, s, "workflow_run", body, Sign(testSecret, body))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if len(ch.sent) != 0 {
		t.Fatalf("unknown event produced notification: %+v", ch.sent)
	}
}

func TestWebhookAcknowledgesPing(t *testing.T) {
	s, ch := newTestServer(t)
	body := []byte(`{"zen":"Keep it logically awesome."}`)
	rr := deliver(t, s, "ping", body, Sign(testSecret, body))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "pong") {
		t.Errorf("ping response = %q", rr.Body.String())
	}
	if len(ch.sent) != 0 {
		t.Fatal("ping produced notification")
	}
}

func TestWebhookIgnoresMalformedPayload(t *testing.T) {
	s, ch := newTestServer(t)
	body := []byte(`{definitely not json`)
	rr := deliver(t, s, "push", body, Sign(testSecret, body))
	// 200 so the sender doesn't retry-storm a payload we can't parse.
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if len(ch.sent) != 0 {
		t.Fatal("malformed payload produced notification")
	}
}

func TestWebhookRejectsOversizedBody(t *testing.T) {
	ch := &recordingChannel{}
	d := notify.NewDispatcher(config.NotifyConfig{}, ch)
	s := New(config.WebhookConfig{Secret: testSecret, MaxBodyBytes: 64, MaxCommits: 3}, d)

	body := bytes.Repeat([]byte("a"), 1024)
	rr := deliver(t, s, "push", body, Sign(testSecret, body))
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rr.Code)
	}
	if len(ch.sent) != 0 {
		t.Fatal("oversized body produced notification")
	}
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "healthy") {
		t.Errorf("health body = %q", rr.Body.String())
	}
}

func TestWebhookFilteredEventTypeStillAccepted(t *testing.T) {
	ch := &recordingChannel{}
	d := notify.NewDispatcher(config.NotifyConfig{Events: []string{"issues"}}, ch)
	s := New(config.WebhookConfig{Secret: testSecret, MaxBodyBytes: 1 << 20, MaxCommits: 3}, d)

	body := pushBody(t, 1)
	rr := deliver(t, s, "push", body, Sign(testSecret, body))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if len(ch.sent) != 0 {
		t.Fatal("push passed an issues-only filter")
	}
}
