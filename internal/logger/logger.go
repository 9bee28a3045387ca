// Package logger holds the process-wide zap logger.
package logger

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FormatAuto    = "auto"
	FormatConsole = "console"
	FormatJSON    = "json"
)

var Log = zap.NewNop()

func Init(debug bool, format string) {
	Log = New(os.Stderr, debug, format)
}

// New builds a logger writing to out. With FormatAuto the console encoder is
// used only when out is a terminal.
func New(out io.Writer, debug bool, format string) *zap.Logger {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	tty := isTerminal(out)
	if format == FormatConsole || (format != FormatJSON && tty) {
		if tty {
			encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		}
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(out)), level)

	opts := []zap.Option{zap.ErrorOutput(zapcore.Lock(os.Stderr))}
	if debug {
		opts = append(opts, zap.AddCaller())
	}

	return zap.New(core, opts...)
}

func Sync() {
	_ = Log.Sync()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
