package logging

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := logger
	SetLogger(zap.New(core))
	t.Cleanup(func() { logger = prev })
	return logs
}

func TestInitialize_SilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	t.Setenv(LogFileEnvVar, "")

	require.NoError(t, Initialize("", ""))
	assert.False(t, GetLogger().Core().Enabled(zapcore.ErrorLevel))
}

func TestInitialize_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.level))
		})
	}
}

func TestInitialize_LogFile(t *testing.T) {
	path := t.TempDir() + "/ccboot.log"

	require.NoError(t, Initialize("debug", path))
	t.Cleanup(func() { logger = zap.NewNop() })

	assert.True(t, GetLogger().Core().Enabled(zapcore.DebugLevel))
	Info("hello")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestLogCredentialOutcome_LengthsOnly(t *testing.T) {
	logs := observe(t)

	LogCredentialOutcome("committed", len("PC7"), len("10.0.0.5"))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(3), fields["identity_length"])
	assert.Equal(t, int64(8), fields["secret_length"])
	assert.NotContains(t, fields, "identity")
}

func TestLogSettingWrite_HidesSecrets(t *testing.T) {
	logs := observe(t)

	LogSettingWrite("password", "123456789012")
	LogSettingWrite("root-path", "iscsi:x:001")

	entries := logs.All()
	require.Len(t, entries, 2)

	secret := entries[0].ContextMap()
	assert.Equal(t, int64(12), secret["value_length"])
	assert.NotContains(t, secret, "value")

	plain := entries[1].ContextMap()
	assert.Equal(t, "iscsi:x:001", plain["value"])
}

func TestLogMenuOutcome(t *testing.T) {
	logs := observe(t)

	LogMenuOutcome("confirmed", 2, "Tools")

	entries := logs.FilterMessage("Boot menu finished").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ContextMap()["selection"])
}

func TestDumps(t *testing.T) {
	assert.Equal(t, "", hexDump(nil))
	assert.Equal(t, "1b5b41", hexDump([]byte("\x1b[A")))
	assert.Equal(t, ".[A", asciiDump([]byte("\x1b[A")))
}
