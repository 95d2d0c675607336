package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"transcriber/internal/config"
	"transcriber/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyRunStarted(context.Background(), 3); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func newCaptureServer(t *testing.T) (*httptest.Server, *http.Request, *string) {
	t.Helper()
	var captured http.Request
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = *r
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, &captured, &body
}

func ntfyConfig(topic string) *config.Config {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = topic
	return &cfg
}

func TestNotifyRunCompletedCleanRun(t *testing.T) {
	server, captured, body := newCaptureServer(t)
	svc := notifications.NewService(ntfyConfig(server.URL))

	err := svc.NotifyRunCompleted(context.Background(), 4, 0, 90*time.Minute, 12*time.Minute)
	if err != nil {
		t.Fatalf("NotifyRunCompleted returned error: %v", err)
	}
	if got := captured.Header.Get("Title"); got != "Transcriber - Batch Complete" {
		t.Fatalf("unexpected title: %q", got)
	}
	if *body != "Transcribed 4 file(s), 1h30m0s of audio, in 12m0s" {
		t.Fatalf("unexpected message: %q", *body)
	}
}

func TestNotifyRunCompletedWithFailures(t *testing.T) {
	server, captured, body := newCaptureServer(t)
	svc := notifications.NewService(ntfyConfig(server.URL))

	err := svc.NotifyRunCompleted(context.Background(), 2, 1, time.Hour, 5*time.Minute)
	if err != nil {
		t.Fatalf("NotifyRunCompleted returned error: %v", err)
	}
	if got := captured.Header.Get("Title"); got != "Transcriber - Batch Complete (with errors)" {
		t.Fatalf("unexpected title: %q", got)
	}
	if *body != "2 succeeded, 1 failed, 1h0m0s of audio, in 5m0s" {
		t.Fatalf("unexpected message: %q", *body)
	}
}

func TestNotifyErrorSetsHighPriority(t *testing.T) {
	server, captured, body := newCaptureServer(t)
	svc := notifications.NewService(ntfyConfig(server.URL))

	err := svc.NotifyError(context.Background(), errors.New("boom"), "warmup")
	if err != nil {
		t.Fatalf("NotifyError returned error: %v", err)
	}
	if got := captured.Header.Get("Priority"); got != "high" {
		t.Fatalf("unexpected priority: %q", got)
	}
	if *body != "Error with warmup: boom" {
		t.Fatalf("unexpected message: %q", *body)
	}
}

func TestSendSurfacesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic over quota", http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	svc := notifications.NewService(ntfyConfig(server.URL))
	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
