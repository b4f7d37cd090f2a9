package hlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	zerologr.NameFieldName = "logger"
	zerologr.NameSeparator = "/"
}

// LogToStderr forces logs to stderr even when the client owns the terminal.
func LogToStderr() bool {
	return os.Getenv("CHATLOG_LOG") == "stderr"
}

func parseLogLevel(verbose bool) zerolog.Level {
	if verbose {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// NewConsole builds a logger writing human readable lines to w. Used by the
// server and the testclient, which do not draw on the terminal.
func NewConsole(w io.Writer, verbose bool) zerolog.Logger {
	zl := zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    os.Getenv("NO_COLOR") != "",
		TimeFormat: time.RFC3339,
	})
	return zl.Level(parseLogLevel(verbose)).With().Timestamp().Logger()
}

// NewFile builds a logger writing JSON lines to a rotating file at path.
// The client uses it so log output never lands on the alternate screen.
func NewFile(path string, verbose bool) (zerolog.Logger, io.Closer, error) {
	if LogToStderr() {
		return NewConsole(os.Stderr, verbose), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	zl := zerolog.New(w).Level(parseLogLevel(verbose)).With().Timestamp().Logger()
	return zl, w, nil
}

// Logr wraps zl for packages that take a logr.Logger. V(1) maps to debug.
func Logr(zl zerolog.Logger, name string) logr.Logger {
	return zerologr.New(&zl).WithName(name)
}

// DefaultLogFile is where the client logs unless configured otherwise.
func DefaultLogFile() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "chatlog", "client.log")
	}
	return filepath.Join(homeDir, ".chatlog", "client.log")
}
