package main

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"totpvault/internal/store"
	"totpvault/internal/totp"
)

func newWatchModel(t *testing.T) watchModel {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := store.New(filepath.Join(t.TempDir(), "accounts.json"), logger)

	ti := textinput.New()
	ti.Focus()

	m := watchModel{
		state:     stateViewing,
		store:     s,
		remaining: totp.Period,
		input:     ti,
	}
	m.reloadEntries()
	m.codes = m.currentCodes(time.Now())
	return m
}

func TestWatch_EnterAppliesEnrollmentBeforeUpdateReturns(t *testing.T) {
	t.Parallel()

	m := newWatchModel(t)
	m.state = stateAdding
	m.input.SetValue(testURI)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(watchModel)

	// The mutation must be complete when Update returns, not deferred to a
	// command goroutine racing the tick refresh.
	if cmd != nil {
		t.Fatalf("Update returned a command for enter, want nil")
	}
	if !m.store.Has("Example_alice@example.com") {
		t.Fatal("account not enrolled after Update returned")
	}
	if m.state != stateViewing {
		t.Fatalf("state = %d, want stateViewing", m.state)
	}
	if m.err != nil {
		t.Fatalf("unexpected error: %v", m.err)
	}
	code, ok := m.codes["Example_alice@example.com"]
	if !ok || len(code) != totp.Digits {
		t.Fatalf("codes[key] = %q, want a %d-digit code", code, totp.Digits)
	}
}

func TestWatch_EnterWithBadURIKeepsEditing(t *testing.T) {
	t.Parallel()

	m := newWatchModel(t)
	m.state = stateAdding
	m.input.SetValue("https://example.com/not-otpauth")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(watchModel)

	if m.err == nil {
		t.Fatal("expected an error for a non-otpauth URI")
	}
	if m.state != stateAdding {
		t.Fatalf("state = %d, want stateAdding", m.state)
	}
	if m.store.Len() != 0 {
		t.Fatalf("store has %d accounts, want 0", m.store.Len())
	}
}

func TestWatch_TickRefreshesCodesAtWindowStart(t *testing.T) {
	t.Parallel()

	m := newWatchModel(t)
	key, err := m.store.AddManual("alice", "JBSWY3DPEHPK3PXP", "Example")
	if err != nil {
		t.Fatalf("AddManual: %v", err)
	}
	m.reloadEntries()

	// Window start: codes regenerate.
	next, _ := m.Update(tickMsg(time.Unix(0, 0)))
	m = next.(watchModel)
	if m.remaining != totp.Period {
		t.Fatalf("remaining = %d, want %d", m.remaining, totp.Period)
	}
	first, ok := m.codes[key]
	if !ok || len(first) != totp.Digits {
		t.Fatalf("codes[%s] = %q, want a %d-digit code", key, first, totp.Digits)
	}

	// Mid-window tick: countdown moves, codes stay as generated.
	next, _ = m.Update(tickMsg(time.Unix(59, 0)))
	m = next.(watchModel)
	if m.remaining != 1 {
		t.Fatalf("remaining = %d, want 1", m.remaining)
	}
	if m.codes[key] != first {
		t.Fatalf("codes[%s] changed mid-window: %q -> %q", key, first, m.codes[key])
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate(short) = %q", got)
	}

	long := "sécurité-générale-éééééé"
	got := truncate(long, 10)
	if !utf8.ValidString(got) {
		t.Fatalf("truncate produced invalid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 10 {
		t.Fatalf("truncate length = %d runes, want 10", n)
	}
	if got != "sécurit..." {
		t.Fatalf("truncate = %q, want %q", got, "sécurit...")
	}
}
