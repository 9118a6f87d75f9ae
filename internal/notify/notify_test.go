// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package notify

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/toeirei/redtoken/internal/model"
)

var testNow = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

func testToken() model.Honeytoken {
	ts := testNow
	return model.Honeytoken{ID: "6f1c2a9e-0000-4000-8000-000000000001", Value: "v", FilePath: "/srv/.env", LastChecked: &ts, IsTriggered: true}
}

type recorder struct {
	mu     sync.Mutex
	bodies [][]byte
	status int
}

func (r *recorder) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		body, _ := io.ReadAll(req.Body)
		r.mu.Lock()
		r.bodies = append(r.bodies, body)
		r.mu.Unlock()
		if req.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusUnsupportedMediaType)
			return
		}
		w.WriteHeader(r.status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bodies)
}

func newDispatcher(t *testing.T, channels []model.Channel, opts Options) *Dispatcher {
	t.Helper()
	if opts.Now == nil {
		opts.Now = func() time.Time { return testNow }
	}
	d, err := NewDispatcher(channels, opts)
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	return d
}

func TestSendAlertPartialSuccess(t *testing.T) {
	ok := &recorder{status: http.StatusOK}
	bad := &recorder{status: http.StatusInternalServerError}
	okSrv, badSrv := ok.server(t), bad.server(t)

	d := newDispatcher(t, []model.Channel{
		{Type: model.ChannelTelegram, WebhookURL: badSrv.URL},
		{Type: model.ChannelDiscord, WebhookURL: okSrv.URL},
	}, Options{})

	if err := d.SendAlert(context.Background(), testToken()); err != nil {
		t.Fatalf("expected success when one channel delivers, got %v", err)
	}
	if ok.count() != 1 || bad.count() != 1 {
		t.Fatalf("expected one attempt per channel, got ok=%d bad=%d", ok.count(), bad.count())
	}
}

func TestSendAlertTotalFailure(t *testing.T) {
	bad := &recorder{status: http.StatusBadGateway}
	srv := bad.server(t)
	d := newDispatcher(t, []model.Channel{
		{Type: model.ChannelTelegram, WebhookURL: srv.URL},
		{Type: model.ChannelDiscord, WebhookURL: "http://127.0.0.1:1/unreachable"},
	}, Options{Client: &http.Client{Timeout: 2 * time.Second}})

	err := d.SendAlert(context.Background(), testToken())
	var de *DispatchError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DispatchError, got %v", err)
	}
	if len(de.Failures) != 2 {
		t.Fatalf("expected 2 failures, got %d", len(de.Failures))
	}
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusBadGateway {
		t.Fatalf("expected status error 502 in chain, got %v", err)
	}
	if !errors.Is(err, model.ErrNotification) {
		t.Fatalf("dispatch error should match ErrNotification")
	}
}

func TestSendAlertNoChannels(t *testing.T) {
	d := newDispatcher(t, nil, Options{})
	err := d.SendAlert(context.Background(), testToken())
	if model.KindOf(err) != model.KindNotification {
		t.Fatalf("expected notification error, got %v", err)
	}
}

func TestNewDispatcherRejectsInvalidChannel(t *testing.T) {
	_, err := NewDispatcher([]model.Channel{{Type: model.ChannelDiscord}}, Options{})
	if model.KindOf(err) != model.KindConfig {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestTelegramPayload(t *testing.T) {
	rec := &recorder{status: http.StatusOK}
	srv := rec.server(t)
	d := newDispatcher(t, []model.Channel{{Type: model.ChannelTelegram, WebhookURL: srv.URL}}, Options{})
	if err := d.SendAlert(context.Background(), testToken()); err != nil {
		t.Fatal(err)
	}

	var msg telegramMessage
	if err := json.Unmarshal(rec.bodies[0], &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.ChatID != DefaultTelegramChatID || msg.ParseMode != "HTML" {
		t.Fatalf("unexpected telegram envelope %+v", msg)
	}
	want := alertText(d.alertFor(testToken()))
	if msg.Text != want {
		t.Fatalf("text = %q, want %q", msg.Text, want)
	}
}

func TestTelegramPayloadEscapesPath(t *testing.T) {
	rec := &recorder{status: http.StatusOK}
	srv := rec.server(t)
	d := newDispatcher(t, []model.Channel{{Type: model.ChannelTelegram, WebhookURL: srv.URL, ChatID: "42"}}, Options{})
	tok := testToken()
	tok.FilePath = "/srv/a&b/<app>.env"
	if err := d.SendAlert(context.Background(), tok); err != nil {
		t.Fatal(err)
	}

	var msg telegramMessage
	if err := json.Unmarshal(rec.bodies[0], &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(msg.Text, "/srv/a&amp;b/&lt;app&gt;.env") {
		t.Fatalf("path not escaped: %q", msg.Text)
	}
	if strings.ContainsAny(strings.NewReplacer("&amp;", "", "&lt;", "", "&gt;", "").Replace(msg.Text), "<>&") {
		t.Fatalf("raw markup left in %q", msg.Text)
	}
}

func TestDiscordPayload(t *testing.T) {
	rec := &recorder{status: http.StatusNoContent}
	srv := rec.server(t)
	d := newDispatcher(t, []model.Channel{{Type: model.ChannelDiscord, WebhookURL: srv.URL}}, Options{})
	if err := d.SendAlert(context.Background(), testToken()); err != nil {
		t.Fatal(err)
	}

	var msg discordMessage
	if err := json.Unmarshal(rec.bodies[0], &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(msg.Embeds) != 1 {
		t.Fatalf("expected one embed, got %d", len(msg.Embeds))
	}
	e := msg.Embeds[0]
	if e.Color != 16711680 || e.Footer.Text != "RedToken Intrusion Detection" || len(e.Fields) != 3 {
		t.Fatalf("unexpected embed %+v", e)
	}
	if e.Fields[0].Value != testToken().ID || e.Fields[1].Value != "/srv/.env" {
		t.Fatalf("unexpected fields %+v", e.Fields)
	}
}

type failingEmail struct{ calls atomic.Int32 }

func (f *failingEmail) Send(context.Context, EmailMessage) error {
	f.calls.Add(1)
	return errors.New("smtp down")
}

func TestEmailChannel(t *testing.T) {
	email := model.Channel{Type: model.ChannelEmail, SMTPServer: "smtp.example.com:587", From: "a@example.com", To: "b@example.com"}

	d := newDispatcher(t, []model.Channel{email}, Options{})
	if err := d.SendAlert(context.Background(), testToken()); err != nil {
		t.Fatalf("log sender should succeed: %v", err)
	}

	f := &failingEmail{}
	d = newDispatcher(t, []model.Channel{email}, Options{Email: f})
	if err := d.SendAlert(context.Background(), testToken()); err == nil {
		t.Fatalf("expected failure from email sender")
	}
	if f.calls.Load() != 1 {
		t.Fatalf("expected one send, got %d", f.calls.Load())
	}
}

func TestRateLimit(t *testing.T) {
	rec := &recorder{status: http.StatusOK}
	srv := rec.server(t)
	now := testNow
	d := newDispatcher(t, []model.Channel{{Type: model.ChannelDiscord, WebhookURL: srv.URL}}, Options{
		RateLimit: 2,
		Now:       func() time.Time { return now },
	})

	for i := 0; i < 2; i++ {
		if err := d.SendAlert(context.Background(), testToken()); err != nil {
			t.Fatalf("alert %d: %v", i, err)
		}
	}
	if err := d.SendAlert(context.Background(), testToken()); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if rec.count() != 2 {
		t.Fatalf("suppressed alert reached the channel")
	}

	now = now.Add(time.Hour + time.Second)
	if err := d.SendAlert(context.Background(), testToken()); err != nil {
		t.Fatalf("window should have slid: %v", err)
	}
}
