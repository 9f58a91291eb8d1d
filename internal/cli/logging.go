package cli

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// debugLevel is the zap level that logr's V(4) maps to. The slog bridge
// turns slog.LevelDebug into V(4).
const debugLevel = zapcore.Level(-4)

// newZapLogger returns a logger writing to w. Verbose logging uses the
// console encoder and includes debug events from the lens packages;
// otherwise only warnings and errors are written, as JSON.
func newZapLogger(w io.Writer, verbose bool) *zap.Logger {
	var (
		enc   zapcore.Encoder
		level zapcore.Level
	)
	if verbose {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.TimeKey = ""
		enc = zapcore.NewConsoleEncoder(cfg)
		level = debugLevel
	} else {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		level = zapcore.WarnLevel
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), zap.NewAtomicLevelAt(level))
	return zap.New(core).Named("lensdraw")
}
