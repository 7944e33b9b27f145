package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/naviai/smsgate/internal/config"
	"github.com/naviai/smsgate/internal/dispatch"
	"github.com/naviai/smsgate/internal/domain"
	"github.com/naviai/smsgate/internal/gateway"
)

// memStore is an in-memory profile store for handler tests.
type memStore struct {
	profiles map[string]domain.Profile
}

func (s *memStore) Get(_ context.Context, userID string) (domain.Profile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		return domain.Profile{}, domain.ErrNotFound
	}
	return p, nil
}

// memSender records sends without talking to a provider.
type memSender struct {
	sends []string
	texts []string
}

func (s *memSender) Send(_ context.Context, phoneNumber, text string) error {
	s.sends = append(s.sends, phoneNumber)
	s.texts = append(s.texts, text)
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestHandler builds a SendHandler over the real pipeline with an
// in-memory store and sender.
func newTestHandler(store *memStore, sender *memSender, trustedHeader string) *SendHandler {
	logger := discard()
	gw := gateway.New(
		gateway.Config{
			Brand:           "Navi.AI",
			AllowedPrefixes: []string{"+8210", "+82010"},
		},
		store,
		dispatch.New(sender, logger),
		logger,
	)
	return NewSendHandler(gw, config.ResponsesConfig{}, trustedHeader, logger)
}

func post(h *SendHandler, body, remoteAddr string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/messages", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.Send(w, req)
	return w
}

func TestSendSuccess(t *testing.T) {
	store := &memStore{profiles: map[string]domain.Profile{
		"12345678": {
			AllowedIPs:   []string{"203.0.113.0/24"},
			PhoneNumbers: []string{"+821000000000"},
		},
	}}
	sender := &memSender{}
	h := newTestHandler(store, sender, "")

	w := post(h, `{"user_id":"12345678","message":"hi","phone_numbers":[]}`, "203.0.113.5:51234", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
	}
	if len(sender.sends) != 1 || sender.sends[0] != "+821000000000" {
		t.Errorf("sends = %v, want one send to +821000000000", sender.sends)
	}
	if sender.texts[0] != "[Navi.AI] hi" {
		t.Errorf("sent text = %q, want %q", sender.texts[0], "[Navi.AI] hi")
	}
}

func TestSendStatusCodes(t *testing.T) {
	store := &memStore{profiles: map[string]domain.Profile{
		"12345678": {
			AllowedIPs:   []string{"203.0.113.0/24"},
			PhoneNumbers: []string{"+821000000000"},
		},
		"87654321": {AllowedIPs: []string{"203.0.113.0/24"}},
	}}

	tests := []struct {
		name       string
		body       string
		remoteAddr string
		wantStatus int
	}{
		{
			name:       "invalid user id",
			body:       `{"user_id":"123","message":"hi"}`,
			remoteAddr: "203.0.113.5:1",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "undecodable body",
			body:       `{"user_id":`,
			remoteAddr: "203.0.113.5:1",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "message over 80 bytes",
			body:       `{"user_id":"12345678","message":"` + strings.Repeat("a", 81) + `"}`,
			remoteAddr: "203.0.113.5:1",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad recipient prefix",
			body:       `{"user_id":"12345678","message":"hi","phone_numbers":["+15550001111"]}`,
			remoteAddr: "203.0.113.5:1",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown user",
			body:       `{"user_id":"99999999","message":"hi"}`,
			remoteAddr: "203.0.113.5:1",
			wantStatus: http.StatusTeapot,
		},
		{
			name:       "unauthorized source",
			body:       `{"user_id":"12345678","message":"hi"}`,
			remoteAddr: "198.51.100.5:1",
			wantStatus: http.StatusTeapot,
		},
		{
			name:       "no recipients anywhere",
			body:       `{"user_id":"87654321","message":"hi"}`,
			remoteAddr: "203.0.113.5:1",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "success",
			body:       `{"user_id":"12345678","message":"hi"}`,
			remoteAddr: "203.0.113.5:1",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(store, &memSender{}, "")
			w := post(h, tt.body, tt.remoteAddr, nil)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

// Unknown user and unauthorized source must be indistinguishable from the
// response alone: same status, same body, zero sends either way.
func TestSendProbingIsAmbiguous(t *testing.T) {
	store := &memStore{profiles: map[string]domain.Profile{
		"12345678": {
			AllowedIPs:   []string{"203.0.113.0/24"},
			PhoneNumbers: []string{"+821000000000"},
		},
	}}
	sender := &memSender{}
	h := newTestHandler(store, sender, "")

	unknownUser := post(h, `{"user_id":"99999999","message":"hi"}`, "203.0.113.5:1", nil)
	badSource := post(h, `{"user_id":"12345678","message":"hi"}`, "198.51.100.5:1", nil)

	if unknownUser.Code != badSource.Code {
		t.Errorf("status codes differ: unknown user %d, bad source %d", unknownUser.Code, badSource.Code)
	}
	if unknownUser.Body.String() != badSource.Body.String() {
		t.Errorf("bodies differ: %q vs %q", unknownUser.Body.String(), badSource.Body.String())
	}
	if len(sender.sends) != 0 {
		t.Errorf("sends = %v, want none", sender.sends)
	}
}

// The client-visible body must never echo request content, in particular
// not a rejected phone number.
func TestSendResponseNeverEchoesPhoneNumber(t *testing.T) {
	h := newTestHandler(&memStore{}, &memSender{}, "")

	const offending = "+15550001111"
	w := post(h, `{"user_id":"12345678","message":"hi","phone_numbers":["`+offending+`"]}`, "203.0.113.5:1", nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if strings.Contains(w.Body.String(), offending) ||
		strings.Contains(w.Body.String(), strings.TrimPrefix(offending, "+")) {
		t.Errorf("response body %q leaks the offending phone number", w.Body.String())
	}
}

func TestSendSourceIPExtraction(t *testing.T) {
	store := &memStore{profiles: map[string]domain.Profile{
		"12345678": {
			AllowedIPs:   []string{"203.0.113.0/24"},
			PhoneNumbers: []string{"+821000000000"},
		},
	}}
	body := `{"user_id":"12345678","message":"hi"}`

	t.Run("remote addr by default", func(t *testing.T) {
		h := newTestHandler(store, &memSender{}, "")
		// The forwarded header must be ignored when no trusted proxy
		// is configured.
		w := post(h, body, "198.51.100.5:1", map[string]string{
			"X-Forwarded-For": "203.0.113.5",
		})
		if w.Code != http.StatusTeapot {
			t.Errorf("status = %d, want %d (header must not be trusted)", w.Code, http.StatusTeapot)
		}
	})

	t.Run("trusted header when configured", func(t *testing.T) {
		h := newTestHandler(store, &memSender{}, "X-Forwarded-For")
		w := post(h, body, "10.0.0.1:1", map[string]string{
			"X-Forwarded-For": "203.0.113.5, 10.0.0.1",
		})
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d (first hop of header)", w.Code, http.StatusOK)
		}
	})

	t.Run("configured header absent falls back", func(t *testing.T) {
		h := newTestHandler(store, &memSender{}, "X-Forwarded-For")
		w := post(h, body, "203.0.113.5:1", nil)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
	})
}

func TestSendResponseOverrides(t *testing.T) {
	store := &memStore{profiles: map[string]domain.Profile{
		"12345678": {
			AllowedIPs:   []string{"203.0.113.0/24"},
			PhoneNumbers: []string{"+821000000000"},
		},
	}}
	logger := discard()
	gw := gateway.New(
		gateway.Config{Brand: "Navi.AI", AllowedPrefixes: []string{"+8210"}},
		store,
		dispatch.New(&memSender{}, logger),
		logger,
	)
	h := NewSendHandler(gw, config.ResponsesConfig{Success: "ok!"}, "", logger)

	w := post(h, `{"user_id":"12345678","message":"hi"}`, "203.0.113.5:1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got, want := w.Body.String(), `{"message":"ok!"}`; got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
}
