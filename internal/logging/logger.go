package logging

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "CCBOOT_LOG_LEVEL"

// LogFileEnvVar names a file to append log output to instead of stderr.
const LogFileEnvVar = "CCBOOT_LOG_FILE"

// Initialize creates a new logger with the specified level, writing to file
// or to stderr when file is empty. Stdout is never used: it carries the
// console UI.
//
// If level is empty, CCBOOT_LOG_LEVEL is consulted; if that is empty too,
// logging is disabled (silent mode).
func Initialize(level, file string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}
	if file == "" {
		file = os.Getenv(LogFileEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(level)),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	if file != "" {
		config.OutputPaths = []string{file}
		// No colour escapes in files
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	var err error
	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		// Unknown level - use info as default when explicitly set to something
		return zapcore.InfoLevel
	}
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Fallback to silent logger if not initialized
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogSettingWrite logs a store write. Values of secret settings are
// replaced by their length.
func LogSettingWrite(name, value string) {
	Info("Setting written",
		zap.String("setting", name),
		valueField(name, value),
	)
}

// LogSettingClear logs a store clear.
func LogSettingClear(name string) {
	Info("Setting cleared", zap.String("setting", name))
}

// LogMenuOutcome logs how the boot menu ended.
func LogMenuOutcome(outcome string, selection int, label string) {
	Info("Boot menu finished",
		zap.String("outcome", outcome),
		zap.Int("selection", selection),
		zap.String("label", label),
	)
}

// LogCredentialOutcome logs how the credential form ended. Like the
// username and password settings, both fields are logged by length only.
func LogCredentialOutcome(outcome string, identityLen, secretLen int) {
	Info("Credential form finished",
		zap.String("outcome", outcome),
		zap.Int("identity_length", identityLen),
		zap.Int("secret_length", secretLen),
	)
}

// LogCountdown logs a countdown decrement.
func LogCountdown(remaining int) {
	Debug("Countdown tick", zap.Int("remaining", remaining))
}

// LogKey logs a key handled by an interactive loop.
func LogKey(scope, key string) {
	Debug("Key", zap.String("scope", scope), zap.String("key", key))
}

// LogRawBytes logs raw bytes (useful for debugging terminal escape sequences)
func LogRawBytes(label string, data []byte) {
	Debug(label,
		zap.Int("length", len(data)),
		zap.String("hex", hexDump(data)),
		zap.String("ascii", asciiDump(data)),
	)
}

// secretSettings are logged by length only.
var secretSettings = map[string]bool{
	"username": true,
	"password": true,
}

func valueField(name, value string) zap.Field {
	if secretSettings[name] {
		return zap.Int("value_length", len(value))
	}
	return zap.String("value", value)
}

func hexDump(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	// Limit to first 64 bytes for logging
	if len(data) > 64 {
		return hex.EncodeToString(data[:64]) + "..."
	}
	return hex.EncodeToString(data)
}

func asciiDump(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if len(data) > 64 {
		data = data[:64]
	}

	result := make([]byte, len(data))
	for i, b := range data {
		if b >= 32 && b <= 126 {
			result[i] = b
		} else {
			result[i] = '.'
		}
	}
	return string(result)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
