package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/giygas/openbnf/config"
)

type LoggingService struct {
	Logger *slog.Logger
	closer io.Closer
}

var DefaultLoggingService *LoggingService

// Options configures the console and file outputs of the global logger.
type Options struct {
	Dir            string
	Env            config.Environment
	Level          string // LOG_LEVEL, empty for the environment default
	RetentionWeeks int
	MaxFileSize    int64
	Verbose        bool // lets test runs log at info on the console
}

// InitLogger initializes the global logger with default retention and size limits.
func InitLogger(logDir string) {
	InitLoggerWithOptions(Options{Dir: logDir, Env: config.EnvDevelopment})
}

// InitLoggerWithOptions initializes the global logger and makes it the slog
// default. The returned closer flushes and closes the log file.
func InitLoggerWithOptions(opts Options) io.Closer {
	logger, closer := setupLogger(opts)
	DefaultLoggingService = &LoggingService{Logger: logger, closer: closer}
	slog.SetDefault(logger)
	return closer
}

// Close releases the log file held by the default service, if any.
func Close() error {
	if DefaultLoggingService == nil || DefaultLoggingService.closer == nil {
		return nil
	}
	return DefaultLoggingService.closer.Close()
}

// GetConsoleLogLevel picks the console level for env. LOG_LEVEL overrides the
// default except under test, where the console stays quiet unless verbose.
func GetConsoleLogLevel(env config.Environment, logLevel string, verbose bool) slog.Level {
	switch env {
	case config.EnvTest:
		if verbose {
			return slog.LevelInfo
		}
		return slog.LevelError
	case config.EnvProduction, config.EnvStaging:
		if logLevel == "" {
			return slog.LevelWarn
		}
	default:
		if logLevel == "" {
			return slog.LevelInfo
		}
	}
	return parseLogLevel(logLevel)
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func logger() *slog.Logger {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		// Not initialized yet (tests, early startup): log to stderr
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return DefaultLoggingService.Logger
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	logger().Info(msg, args...)
}

func Error(msg string, args ...any) {
	logger().Error(msg, args...)
}

func Warn(msg string, args ...any) {
	logger().Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	logger().Debug(msg, args...)
}
