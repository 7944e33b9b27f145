package dispatch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
)

// recordingSender collects every send and can fail selected recipients.
type recordingSender struct {
	mu      sync.Mutex
	sends   []string
	texts   []string
	failFor map[string]bool
}

func (s *recordingSender) Send(_ context.Context, phoneNumber, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sends = append(s.sends, phoneNumber)
	s.texts = append(s.texts, text)
	if s.failFor[phoneNumber] {
		return errors.New("provider rejected")
	}
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatchSendsToEveryRecipient(t *testing.T) {
	sender := &recordingSender{}
	d := New(sender, discard())

	recipients := []string{"+821011111111", "+821022222222", "+821033333333"}
	attempted := d.Dispatch(context.Background(), recipients, "[Navi.AI] hi")

	if attempted != len(recipients) {
		t.Errorf("Dispatch() = %d, want %d", attempted, len(recipients))
	}

	// Completion order is not defined; compare as sets.
	got := append([]string(nil), sender.sends...)
	sort.Strings(got)
	want := append([]string(nil), recipients...)
	sort.Strings(want)
	if len(got) != len(want) {
		t.Fatalf("sent to %d recipient(s), want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("recipients sent = %v, want %v", got, want)
			break
		}
	}

	for _, text := range sender.texts {
		if text != "[Navi.AI] hi" {
			t.Errorf("sent text = %q, want %q", text, "[Navi.AI] hi")
		}
	}
}

func TestDispatchContinuesPastFailures(t *testing.T) {
	sender := &recordingSender{failFor: map[string]bool{"+821022222222": true}}
	d := New(sender, discard())

	recipients := []string{"+821011111111", "+821022222222", "+821033333333"}
	attempted := d.Dispatch(context.Background(), recipients, "hello")

	// A provider error on one recipient is swallowed; every send is
	// still attempted and the count reflects that.
	if attempted != 3 {
		t.Errorf("Dispatch() = %d, want 3", attempted)
	}
	if len(sender.sends) != 3 {
		t.Errorf("sends attempted = %d, want 3", len(sender.sends))
	}
}

func TestDispatchEmptyList(t *testing.T) {
	sender := &recordingSender{}
	d := New(sender, discard())

	if attempted := d.Dispatch(context.Background(), nil, "hello"); attempted != 0 {
		t.Errorf("Dispatch() = %d, want 0", attempted)
	}
	if len(sender.sends) != 0 {
		t.Errorf("sends attempted = %d, want 0", len(sender.sends))
	}
}
