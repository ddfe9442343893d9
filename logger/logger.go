// Package logger provides centralized logging for the application.
// File: logger/logger.go
package logger

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/getsentry/sentry-go"
)

// ------------------- global loggers -------------------

// four logger levels accessible throughout the application
var (
	Info  *log.Logger
	Warn  *log.Logger
	Error *log.Logger
	Debug *log.Logger
)

// sentryEnabled is true once InitSentry succeeded.
var sentryEnabled bool

const logFlags = log.Ldate | log.Ltime | log.Lshortfile

// ------------------- logger initialization -------------------

// configure points every logger at w with consistent prefixes & flags.
func configure(w io.Writer) {
	Info = log.New(w, "INFO: ", logFlags)
	Warn = log.New(w, "WARN: ", logFlags)
	Error = log.New(w, "ERROR: ", logFlags)
	Debug = log.New(w, "DEBUG: ", logFlags)
}

// InitLogger reinitializes the logging system so it writes to stdout and to
// a timestamped file inside dir. An empty dir keeps stdout only.
func InitLogger(dir string) error {
	if dir == "" {
		configure(os.Stdout)
		return nil
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	logFileName := filepath.Join(dir, time.Now().Format("2006-01-02_15-04-05")+".log")
	file, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec
	if err != nil {
		return err
	}

	configure(io.MultiWriter(os.Stdout, file))
	return nil
}

// SetLogLevel discards Debug output in production.
func SetLogLevel(env string) {
	if env == "production" {
		Debug.SetOutput(io.Discard)
	}
}

// SetOutput redirects all loggers, mostly used by tests to silence output.
func SetOutput(w io.Writer) {
	configure(w)
}

// ------------------- error telemetry -------------------

// InitSentry enables forwarding of CaptureError calls to Sentry.
// An empty DSN leaves Sentry disabled.
func InitSentry(dsn, env string) error {
	if dsn == "" {
		return nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: env,
	}); err != nil {
		return err
	}
	sentryEnabled = true
	Info.Printf("InitSentry: error reporting enabled (env=%s)", env)
	return nil
}

// CaptureError logs err with the given context and forwards it to Sentry
// when enabled.
func CaptureError(where string, err error) {
	if err == nil {
		return
	}
	Error.Printf("%s: %v", where, err)
	if !sentryEnabled {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("component", where)
		sentry.CaptureException(err)
	})
}

// Flush waits for buffered Sentry events before shutdown.
func Flush() {
	if sentryEnabled {
		sentry.Flush(2 * time.Second)
	}
}

// init gives every package usable loggers before main configures them.
func init() {
	configure(os.Stdout)
}
