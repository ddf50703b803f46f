package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestAttributeKeys(t *testing.T) {
	tests := []struct {
		name string
		attr slog.Attr
		key  string
		want string
	}{
		{"operation", Operation("session.rewrite"), KeyOperation, "session.rewrite"},
		{"draft", Draft("r-123"), KeyDraft, "r-123"},
		{"tone", Tone("more_formal"), KeyTone, "more_formal"},
		{"action", Action("shorter"), KeyAction, "shorter"},
		{"vote", Vote("up"), KeyVote, "up"},
		{"endpoint", Endpoint("rewrite"), KeyEndpoint, "rewrite"},
		{"status_code", StatusCode(502), KeyStatusCode, "502"},
		{"content_size", ContentSize(42), KeyContentSize, "42"},
		{"tool", Tool("bluebird_rewrite_draft"), KeyTool, "bluebird_rewrite_draft"},
		{"status", Status(StatusSuccess), KeyStatus, "success"},
		{"plain account", Account("work"), KeyAccount, "work"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Key != tt.key {
				t.Errorf("key = %q, want %q", tt.attr.Key, tt.key)
			}
			if got := tt.attr.Value.String(); got != tt.want {
				t.Errorf("value = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAccount_AnonymizesEmail(t *testing.T) {
	attr := Account("someone@example.com")
	if strings.Contains(attr.Value.String(), "example.com") {
		t.Errorf("account attribute leaked email: %q", attr.Value.String())
	}
	if !strings.HasPrefix(attr.Value.String(), "user:") {
		t.Errorf("account attribute = %q, want user: prefix", attr.Value.String())
	}
}

func TestErr(t *testing.T) {
	attr := Err(errors.New("boom"))
	if attr.Key != KeyError || attr.Value.String() != "boom" {
		t.Errorf("Err() = %v", attr)
	}

	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, false))
	logger.Info("ok", Err(nil))
	if strings.Contains(buf.String(), KeyError+"=") {
		t.Errorf("nil error should be omitted, got %q", buf.String())
	}
}

func TestAnonymizeEmail(t *testing.T) {
	if AnonymizeEmail("") != "" {
		t.Error("empty email should stay empty")
	}
	a := AnonymizeEmail("a@example.com")
	b := AnonymizeEmail("a@example.com")
	if a != b {
		t.Error("AnonymizeEmail should be deterministic")
	}
	if len(a) != len("user:")+16 {
		t.Errorf("unexpected length for %q", a)
	}
}

func TestSanitizeToken(t *testing.T) {
	if got := SanitizeToken(""); got != "<empty>" {
		t.Errorf("SanitizeToken(\"\") = %q", got)
	}
	if got := SanitizeToken("secret"); got != "[token:6 chars]" {
		t.Errorf("SanitizeToken(secret) = %q", got)
	}
}

func TestNewHandler_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, false))
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug output should be suppressed without debug flag: %q", buf.String())
	}
}

func TestWithHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, false))

	WithComponent(WithOperation(WithAccount(WithTool(logger, "t"), "work"), "op"), "pane").Info("hello")

	out := buf.String()
	for _, want := range []string{"tool=t", "account=work", "operation=op", "component=pane"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}
