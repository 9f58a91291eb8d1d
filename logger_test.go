package lens

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

func TestLogger(t *testing.T) {
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Errorf("default logger is enabled")
	}

	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))
	SetLogger(l)
	if Logger() != l {
		t.Errorf("SetLogger didn't replace the logger")
	}
	Logger().Info("hello")
	if buf.Len() == 0 {
		t.Errorf("nothing was logged")
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Errorf("SetLogger(nil) didn't restore the silent logger")
	}
}
