// =============================================================================
// Sales Calculator - Logging
// =============================================================================
//
// This module builds the application logger and bridges it to the diagnostic
// sink used by the catalogue and sales components.
//
// FORMATS:
//   console : human-readable lines without timestamps or callers
//   json    : production JSON encoder
//
// Skipped items and rows are logged at warn level with their source and
// position as fields.
//
// =============================================================================

package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/ginjaninja78/computesales/internal/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger writing to stderr. verbose forces the debug level.
func New(level, format string, verbose bool) (*zap.Logger, error) {
	return NewWithWriter(os.Stderr, level, format, verbose)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level, format string, verbose bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""

	var enc zapcore.Encoder
	switch format {
	case "json":
		encCfg = zap.NewProductionEncoderConfig()
		enc = zapcore.NewJSONEncoder(encCfg)
	case "console", "":
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("unsupported log format %q", format)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), zap.NewAtomicLevelAt(lvl))
	return zap.New(core), nil
}

// Sink logs every diagnostic at warn level with its position and source.
type Sink struct {
	logger *zap.Logger
}

// NewSink wraps logger as a types.Sink.
func NewSink(logger *zap.Logger) *Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sink{logger: logger}
}

// Report implements types.Sink.
func (s *Sink) Report(d types.Diagnostic) {
	fields := []zap.Field{
		zap.String("source", string(d.Source)),
		zap.String("severity", string(d.Severity)),
	}
	if d.Position >= 0 {
		fields = append(fields, zap.Int("position", d.Position))
	}

	s.logger.Warn("skipped: "+d.Message, fields...)
}
