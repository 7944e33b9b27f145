package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/naviai/smsgate/internal/domain"
)

// fakeStore serves canned profiles and counts lookups.
type fakeStore struct {
	profiles map[string]domain.Profile
	err      error
	calls    int
}

func (s *fakeStore) Get(_ context.Context, userID string) (domain.Profile, error) {
	s.calls++
	if s.err != nil {
		return domain.Profile{}, s.err
	}
	p, ok := s.profiles[userID]
	if !ok {
		return domain.Profile{}, domain.ErrNotFound
	}
	return p, nil
}

// fakeDispatcher records what would have been sent.
type fakeDispatcher struct {
	recipients []string
	text       string
	calls      int
}

func (d *fakeDispatcher) Dispatch(_ context.Context, recipients []string, text string) int {
	d.calls++
	d.recipients = slices.Clone(recipients)
	d.text = text
	return len(recipients)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestGateway(store *fakeStore, d *fakeDispatcher) *Gateway {
	return New(Config{
		Brand:           "Navi.AI",
		AllowedPrefixes: []string{"+8210", "+82010"},
	}, store, d, discard())
}

func TestSendHappyPathWithProfileDefaults(t *testing.T) {
	store := &fakeStore{profiles: map[string]domain.Profile{
		"12345678": {
			AllowedIPs:   []string{"203.0.113.0/24"},
			PhoneNumbers: []string{"+821000000000"},
		},
	}}
	d := &fakeDispatcher{}
	gw := newTestGateway(store, d)

	req := domain.SendRequest{UserID: "12345678", Message: "hi"}
	got := gw.Send(context.Background(), req, "203.0.113.5")

	if got != domain.OutcomeSuccess {
		t.Fatalf("Send() = %v, want success", got)
	}
	if want := []string{"+821000000000"}; !slices.Equal(d.recipients, want) {
		t.Errorf("dispatched to %v, want %v", d.recipients, want)
	}
	if want := "[Navi.AI] hi"; d.text != want {
		t.Errorf("dispatched text = %q, want %q", d.text, want)
	}
}

func TestSendExplicitRecipientsVerbatim(t *testing.T) {
	store := &fakeStore{profiles: map[string]domain.Profile{
		"12345678": {
			AllowedIPs:   []string{"203.0.113.0/24"},
			PhoneNumbers: []string{"+821099999999"},
		},
	}}
	d := &fakeDispatcher{}
	gw := newTestGateway(store, d)

	req := domain.SendRequest{
		UserID:       "12345678",
		Message:      "hi",
		PhoneNumbers: []string{"+821022222222", "+821011111111"},
	}
	got := gw.Send(context.Background(), req, "203.0.113.5")

	if got != domain.OutcomeSuccess {
		t.Fatalf("Send() = %v, want success", got)
	}
	if want := []string{"+821022222222", "+821011111111"}; !slices.Equal(d.recipients, want) {
		t.Errorf("dispatched to %v, want %v (verbatim, in order)", d.recipients, want)
	}
}

func TestSendInvalidRequestSkipsStore(t *testing.T) {
	store := &fakeStore{}
	d := &fakeDispatcher{}
	gw := newTestGateway(store, d)

	req := domain.SendRequest{UserID: "not-digits", Message: "hi"}
	got := gw.Send(context.Background(), req, "203.0.113.5")

	if got != domain.OutcomeInvalidUserID {
		t.Fatalf("Send() = %v, want invalid_user_id", got)
	}
	if store.calls != 0 {
		t.Errorf("profile store contacted %d time(s) for invalid request, want 0", store.calls)
	}
	if d.calls != 0 {
		t.Errorf("dispatcher invoked %d time(s), want 0", d.calls)
	}
}

func TestSendOutcomes(t *testing.T) {
	profile := domain.Profile{
		AllowedIPs:   []string{"203.0.113.0/24"},
		PhoneNumbers: []string{"+821000000000"},
	}

	tests := []struct {
		name         string
		store        *fakeStore
		req          domain.SendRequest
		sourceIP     string
		want         domain.Outcome
		wantDispatch bool
	}{
		{
			name:     "unknown user",
			store:    &fakeStore{},
			req:      domain.SendRequest{UserID: "99999999", Message: "hi"},
			sourceIP: "203.0.113.5",
			want:     domain.OutcomeUserNotFound,
		},
		{
			name:     "store transport error",
			store:    &fakeStore{err: errors.New("connection reset")},
			req:      domain.SendRequest{UserID: "12345678", Message: "hi"},
			sourceIP: "203.0.113.5",
			want:     domain.OutcomeInternalFault,
		},
		{
			name:     "source outside allow list",
			store:    &fakeStore{profiles: map[string]domain.Profile{"12345678": profile}},
			req:      domain.SendRequest{UserID: "12345678", Message: "hi"},
			sourceIP: "198.51.100.5",
			want:     domain.OutcomeUnauthorizedSource,
		},
		{
			name: "empty allow list fails closed",
			store: &fakeStore{profiles: map[string]domain.Profile{
				"12345678": {PhoneNumbers: []string{"+821000000000"}},
			}},
			req:      domain.SendRequest{UserID: "12345678", Message: "hi"},
			sourceIP: "203.0.113.5",
			want:     domain.OutcomeUnauthorizedSource,
		},
		{
			name: "malformed stored cidr is internal fault",
			store: &fakeStore{profiles: map[string]domain.Profile{
				"12345678": {AllowedIPs: []string{"garbage"}},
			}},
			req:      domain.SendRequest{UserID: "12345678", Message: "hi"},
			sourceIP: "203.0.113.5",
			want:     domain.OutcomeInternalFault,
		},
		{
			name:     "unparseable source ip is internal fault not deny",
			store:    &fakeStore{profiles: map[string]domain.Profile{"12345678": profile}},
			req:      domain.SendRequest{UserID: "12345678", Message: "hi"},
			sourceIP: "banana",
			want:     domain.OutcomeInternalFault,
		},
		{
			name: "both recipient lists empty",
			store: &fakeStore{profiles: map[string]domain.Profile{
				"12345678": {AllowedIPs: []string{"203.0.113.0/24"}},
			}},
			req:      domain.SendRequest{UserID: "12345678", Message: "hi"},
			sourceIP: "203.0.113.5",
			want:     domain.OutcomeNoRecipients,
		},
		{
			name:         "authorized with defaults",
			store:        &fakeStore{profiles: map[string]domain.Profile{"12345678": profile}},
			req:          domain.SendRequest{UserID: "12345678", Message: "hi"},
			sourceIP:     "203.0.113.5",
			want:         domain.OutcomeSuccess,
			wantDispatch: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDispatcher{}
			gw := newTestGateway(tt.store, d)

			got := gw.Send(context.Background(), tt.req, tt.sourceIP)
			if got != tt.want {
				t.Errorf("Send() = %v, want %v", got, tt.want)
			}

			wantCalls := 0
			if tt.wantDispatch {
				wantCalls = 1
			}
			if d.calls != wantCalls {
				t.Errorf("dispatcher invoked %d time(s), want %d", d.calls, wantCalls)
			}
		})
	}
}
