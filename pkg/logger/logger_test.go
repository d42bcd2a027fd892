package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerEmitsServiceAndContextFields(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "pos-test", Level: zerolog.InfoLevel, Output: &buf})

	ctx := logg.WithRequestID(context.Background(), "req-123")
	ctx = logg.WithOutletID(ctx, "outlet-9")
	logg.Info(ctx, "quote.computed")

	out := buf.String()
	for _, want := range []string{`"service":"pos-test"`, `"request_id":"req-123"`, `"outlet_id":"outlet-9"`, "quote.computed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %q: %s", want, out)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug") != zerolog.DebugLevel {
		t.Fatalf("expected debug level")
	}
	if ParseLevel("") != zerolog.InfoLevel {
		t.Fatalf("expected info default")
	}
	if ParseLevel("nonsense") != zerolog.InfoLevel {
		t.Fatalf("expected info fallback")
	}
}
