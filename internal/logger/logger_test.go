package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Str("message_id", "wamid.1").Msg("processed")

	out := buf.String()
	if !strings.Contains(out, "processed") {
		t.Errorf("expected output to contain message, got: %s", out)
	}
	if !strings.Contains(out, "wamid.1") {
		t.Errorf("expected output to contain field value, got: %s", out)
	}
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)
	ctx := WithContext(context.Background(), log)

	ctxLog := FromContext(ctx)
	ctxLog.Info().Msg("from context")

	if buf.Len() == 0 {
		t.Error("expected log output from logger stored in context")
	}
}

func TestFromContext_Default(t *testing.T) {
	log := FromContext(context.Background())
	if log.GetLevel() == zerolog.Disabled {
		t.Error("expected default logger to be enabled")
	}
}
