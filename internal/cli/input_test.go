package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bastiangx/choices/internal/logger"
	"github.com/bastiangx/choices/pkg/config"
	"github.com/bastiangx/choices/pkg/search"
	"github.com/bastiangx/choices/pkg/session"
	"github.com/charmbracelet/log"
)

func newHandler(t *testing.T) (*InputHandler, *session.Session, *bytes.Buffer) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Search.Strategy = search.StrategyPrefix
	sess, err := session.New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(sess.Close)
	if err := sess.SetChoices([]any{
		map[string]any{"value": "go", "label": "Go"},
		map[string]any{"value": "rust", "label": "Rust"},
		map[string]any{"value": "ruby", "label": "Ruby"},
	}, false); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	return NewInputHandler(sess, logger.NewWithWriter(&out, "", log.InfoLevel), true), sess, &out
}

func TestQueriesAndCommands(t *testing.T) {
	h, sess, out := newHandler(t)

	input := strings.Join([]string{
		"ru",
		":sel ruby",
		":clear",
		":sel go",
		":hl go",
		":drop",
		":items",
	}, "\n")
	if err := h.Start(strings.NewReader(input)); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if got := sess.Values(); len(got) != 1 || got[0] != "ruby" {
		t.Errorf("Values() = %v, want [ruby]", got)
	}
	if sess.Query() != "" {
		t.Errorf("query still set to %q after :clear", sess.Query())
	}
	if !strings.Contains(out.String(), "2 choices for 'ru'") {
		t.Errorf("missing search summary in output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "1 items:") || !strings.Contains(out.String(), "HIGHLIGHTED") {
		t.Errorf("missing :items listing in output:\n%s", out.String())
	}
	if h.requestCount != 7 {
		t.Errorf("requestCount = %d, want 7", h.requestCount)
	}
}

func TestUnknownCommandAndMissingValue(t *testing.T) {
	h, sess, out := newHandler(t)

	if err := h.Start(strings.NewReader(":bogus\n:sel elixir\n:rm go\n")); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(sess.Values()) != 0 {
		t.Errorf("Values() = %v, want none", sess.Values())
	}
	for _, want := range []string{`unknown command "bogus"`, `"elixir"`, `"go"`} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %s:\n%s", want, out.String())
		}
	}
}
