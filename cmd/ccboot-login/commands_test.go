package main

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccboot/bootlogin/internal/bootflow"
	"github.com/ccboot/bootlogin/internal/config"
	"github.com/ccboot/bootlogin/internal/settings"
)

func TestReportExitStatus(t *testing.T) {
	quiet = true
	t.Cleanup(func() { quiet = false })

	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"cancelled", bootflow.NewCancelledError("menu cancelled"), exitCancelled},
		{"missing input", bootflow.NewMissingInputError("username"), 1},
		{"write failure", bootflow.NewConfigWriteError("root-path", errors.New("disk full")), 1},
		{"interrupted", errors.New("context canceled"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := report(bootflow.Result{}, tt.err)

			var ee *exitError
			require.ErrorAs(t, err, &ee)
			assert.Equal(t, tt.wantCode, ee.code)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	assert.NoError(t, report(bootflow.Result{Branch: bootflow.BranchCredentials}, nil))
}

func TestCheckSettingName(t *testing.T) {
	assert.NoError(t, checkSettingName("root-path"))
	assert.NoError(t, checkSettingName("ccboot-multi-boot-timeout"))
	assert.Error(t, checkSettingName("rootpath"))
}

// Tests run without a terminal on stdin, so any attempt to show the menu or
// the form fails with a terminal error.
func TestRunFlow_NoTerminalBeforeUI(t *testing.T) {
	cfg = config.Default()
	quiet = true
	t.Cleanup(func() { cfg, quiet = nil, false })

	t.Run("missing username", func(t *testing.T) {
		cmd := &cobra.Command{}
		cmd.SetContext(context.Background())

		err := runFlow(cmd, settings.NewMemoryStore(nil))

		var ee *exitError
		require.ErrorAs(t, err, &ee)
		assert.Equal(t, 1, ee.code)
		assert.True(t, bootflow.IsMissingInput(err), "got %v", err)
	})

	t.Run("malformed target still rewrites placeholders", func(t *testing.T) {
		cmd := &cobra.Command{}
		cmd.SetContext(context.Background())
		store := settings.NewMemoryStore(map[string]string{settings.Username: "iscsi:10.0.0.1::::iqn:x"})

		err := runFlow(cmd, store)

		assert.True(t, bootflow.IsMalformedTarget(err), "got %v", err)
		values, listErr := store.List(context.Background())
		require.NoError(t, listErr)
		assert.Equal(t, bootflow.PlaceholderIdentity, values[settings.Username])
		assert.Equal(t, bootflow.PlaceholderSecret, values[settings.Password])
	})
}

func TestSelectSettings(t *testing.T) {
	got, err := selectSettings("iscsi:t:2", "A;B;", 0)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{settings.Username: "iscsi:t:2", settings.Password: "A;B;"}, got)

	got, err = selectSettings("iscsi:t:2", "", 255)
	require.NoError(t, err)
	assert.Equal(t, "255", got[settings.MultiBootTimeout])

	_, err = selectSettings("iscsi:t:2", "", -1)
	assert.Error(t, err)
	_, err = selectSettings("iscsi:t:2", "", 256)
	assert.Error(t, err)
}
