package bootflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccboot/bootlogin/internal/login"
	"github.com/ccboot/bootlogin/internal/menu"
	"github.com/ccboot/bootlogin/internal/settings"
	"github.com/ccboot/bootlogin/internal/settings/settingstest"
)

const (
	sampleTarget = "iscsi:192.168.1.201::3260::iqn.2008-12.com.ccboot.211:2"
	sampleLabels = "Image 01;Image 02;"
)

// scriptedUI answers the flow's UI calls with fixed outcomes.
type scriptedUI struct {
	menuOutcome menu.Outcome
	pick        int
	menuErr     error
	menus       []*menu.Menu

	loginOutcome login.Outcome
	identity     string
	secret       string
	loginErr     error
	loginCalls   int
	seeded       [2]string
}

func (u *scriptedUI) SelectTarget(_ context.Context, m *menu.Menu) (menu.Outcome, error) {
	u.menus = append(u.menus, m)
	if u.menuErr != nil {
		return menu.Cancelled, u.menuErr
	}
	m.Selection = u.pick
	return u.menuOutcome, nil
}

func (u *scriptedUI) EditCredentials(_ context.Context, identity, secret string) (login.Outcome, string, string, error) {
	u.loginCalls++
	u.seeded = [2]string{identity, secret}
	if u.loginErr != nil {
		return login.Cancelled, "", "", u.loginErr
	}
	return u.loginOutcome, u.identity, u.secret, nil
}

func TestRun_MultiBootRoundTrip(t *testing.T) {
	store := settingstest.New(map[string]string{
		settings.Username: sampleTarget,
		settings.Password: sampleLabels,
	})
	ui := &scriptedUI{menuOutcome: menu.Confirmed, pick: 1}
	flow := &Flow{Store: store, UI: ui}

	res, err := flow.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, ui.menus, 1)
	m := ui.menus[0]
	require.Len(t, m.Items, 2)
	assert.Equal(t, "Image 01", m.Items[0].Label)
	assert.Equal(t, "Image 02", m.Items[1].Label)
	assert.Equal(t, MenuPrompt, m.Prompt)
	assert.Equal(t, DefaultMultiBootTimeout, m.Timeout)

	want := "iscsi:192.168.1.201::3260::iqn.2008-12.com.ccboot.211:001"
	assert.Equal(t, want, res.RootPath)
	assert.Equal(t, "Image 02", res.Label)
	assert.Equal(t, BranchMultiBoot, res.Branch)

	assert.Equal(t, []settingstest.Op{
		{Kind: settingstest.OpSet, Name: settings.RootPath, Value: want},
		{Kind: settingstest.OpClear, Name: settings.Username},
		{Kind: settingstest.OpClear, Name: settings.Password},
		{Kind: settingstest.OpSet, Name: settings.Username, Value: PlaceholderIdentity},
		{Kind: settingstest.OpSet, Name: settings.Password, Value: PlaceholderSecret},
	}, store.Ops())
	assert.Equal(t, 0, ui.loginCalls)
}

func TestRun_MultiBootPlaceholdersForEverySelection(t *testing.T) {
	for pick := 0; pick < 2; pick++ {
		store := settingstest.New(map[string]string{
			settings.Username: sampleTarget,
			settings.Password: sampleLabels,
		})
		flow := &Flow{Store: store, UI: &scriptedUI{menuOutcome: menu.Confirmed, pick: pick}}

		_, err := flow.Run(context.Background())
		require.NoError(t, err)

		values := store.Values()
		assert.Equal(t, "ccboot_multiboot", values[settings.Username])
		assert.Equal(t, "123456789012", values[settings.Password])
		assert.Len(t, values[settings.Password], 12)
	}
}

func TestRun_MultiBootIdempotent(t *testing.T) {
	run := func() map[string]string {
		store := settingstest.New(map[string]string{
			settings.Username:         sampleTarget,
			settings.Password:         sampleLabels,
			settings.MultiBootTimeout: "7",
		})
		flow := &Flow{Store: store, UI: &scriptedUI{menuOutcome: menu.Confirmed, pick: 1}}
		_, err := flow.Run(context.Background())
		require.NoError(t, err)
		return store.Values()
	}

	assert.Equal(t, run(), run())
}

func TestRun_MultiBootTimeoutSetting(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		deflt    int
		expected int
	}{
		{"stored value", "7", 0, 7},
		{"zero uses default", "0", 0, 3},
		{"configured default", "", 10, 10},
		{"invalid uses default", "300", 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			initial := map[string]string{
				settings.Username: sampleTarget,
				settings.Password: sampleLabels,
			}
			if tt.stored != "" {
				initial[settings.MultiBootTimeout] = tt.stored
			}
			ui := &scriptedUI{menuOutcome: menu.Confirmed}
			flow := &Flow{Store: settingstest.New(initial), UI: ui, DefaultTimeout: tt.deflt}

			_, err := flow.Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ui.menus[0].Timeout)
		})
	}
}

func TestRun_MultiBootCancelWritesNothing(t *testing.T) {
	store := settingstest.New(map[string]string{
		settings.Username: sampleTarget,
		settings.Password: sampleLabels,
	})
	flow := &Flow{Store: store, UI: &scriptedUI{menuOutcome: menu.Cancelled}}

	_, err := flow.Run(context.Background())

	assert.True(t, IsCancelled(err))
	assert.Equal(t, ResultCancelled, ResultCode(err))
	assert.Empty(t, store.Ops())
}

func TestRun_MultiBootUIErrorWritesNothing(t *testing.T) {
	store := settingstest.New(map[string]string{
		settings.Username: sampleTarget,
		settings.Password: sampleLabels,
	})
	flow := &Flow{Store: store, UI: &scriptedUI{menuErr: context.Canceled}}

	_, err := flow.Run(context.Background())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.Ops())
}

func TestRun_MalformedTargetStillWritesPlaceholders(t *testing.T) {
	store := settingstest.New(map[string]string{
		settings.Username: "iscsi:192.168.1.201::3260::iqn.2008-12.com.ccboot.211:x",
		settings.Password: sampleLabels,
	})
	ui := &scriptedUI{}
	flow := &Flow{Store: store, UI: ui}

	_, err := flow.Run(context.Background())

	assert.True(t, IsMalformedTarget(err))
	assert.Equal(t, ResultMalformedTarget, ResultCode(err))
	assert.Empty(t, ui.menus)

	values := store.Values()
	assert.Equal(t, PlaceholderIdentity, values[settings.Username])
	assert.Equal(t, PlaceholderSecret, values[settings.Password])
	assert.NotContains(t, values, settings.RootPath)
}

func TestRun_MissingInput(t *testing.T) {
	for _, initial := range []map[string]string{
		{},
		{settings.Username: ""},
	} {
		store := settingstest.New(initial)
		ui := &scriptedUI{}
		flow := &Flow{Store: store, UI: ui}

		_, err := flow.Run(context.Background())

		assert.True(t, IsMissingInput(err))
		assert.Equal(t, ResultMissingInput, ResultCode(err))
		assert.Empty(t, ui.menus)
		assert.Zero(t, ui.loginCalls)
		assert.Empty(t, store.Ops())
	}
}

func TestRun_CredentialsCommit(t *testing.T) {
	store := settingstest.New(map[string]string{
		settings.Username: "PC7",
		settings.Password: "10.0.0.5",
		settings.Hostname: "PC7(old)",
	})
	ui := &scriptedUI{loginOutcome: login.Committed, identity: "PC7", secret: "10.0.0.5"}
	flow := &Flow{Store: store, UI: ui}

	res, err := flow.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, [2]string{"PC7", "10.0.0.5"}, ui.seeded)
	assert.Equal(t, BranchCredentials, res.Branch)
	assert.Equal(t, []settingstest.Op{
		{Kind: settingstest.OpSet, Name: settings.Username, Value: "PC7:10.0.0.5"},
		{Kind: settingstest.OpSet, Name: settings.Password, Value: PlaceholderSecret},
		{Kind: settingstest.OpSet, Name: settings.Hostname, Value: "PC7(old)"},
	}, store.Ops())
}

func TestRun_CredentialsHostnameSuffix(t *testing.T) {
	tests := []struct {
		name     string
		hostname string
		identity string
		want     string
	}{
		{"suffix kept for new name", "PC7(room 2)", "PC8", "PC8(room 2)"},
		{"suffix from first paren", "PC7(a)(b)", "PC9", "PC9(a)(b)"},
		{"no suffix", "PC7", "PC8", "PC8"},
		{"no hostname", "", "PC8", "PC8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			initial := map[string]string{settings.Username: "PC7"}
			if tt.hostname != "" {
				initial[settings.Hostname] = tt.hostname
			}
			store := settingstest.New(initial)
			flow := &Flow{Store: store, UI: &scriptedUI{loginOutcome: login.Committed, identity: tt.identity, secret: "10.0.0.9"}}

			res, err := flow.Run(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Hostname)
			assert.Equal(t, tt.want, store.Values()[settings.Hostname])
		})
	}
}

func TestRun_CredentialsCancelWritesNothing(t *testing.T) {
	store := settingstest.New(map[string]string{settings.Username: "PC7"})
	flow := &Flow{Store: store, UI: &scriptedUI{loginOutcome: login.Cancelled}}

	_, err := flow.Run(context.Background())

	assert.True(t, IsCancelled(err))
	assert.Empty(t, store.Ops())
}

func TestRun_WriteFailureStopsSequence(t *testing.T) {
	tests := []struct {
		name        string
		initial     map[string]string
		ui          *scriptedUI
		failAt      int
		wantSetting string
		wantOps     int
	}{
		{
			name:        "credentials second write",
			initial:     map[string]string{settings.Username: "PC7"},
			ui:          &scriptedUI{loginOutcome: login.Committed, identity: "PC7", secret: "10.0.0.5"},
			failAt:      2,
			wantSetting: settings.Password,
			wantOps:     1,
		},
		{
			name:        "multi-boot root path",
			initial:     map[string]string{settings.Username: sampleTarget, settings.Password: sampleLabels},
			ui:          &scriptedUI{menuOutcome: menu.Confirmed},
			failAt:      1,
			wantSetting: settings.RootPath,
			wantOps:     0,
		},
		{
			name:        "multi-boot placeholder",
			initial:     map[string]string{settings.Username: sampleTarget, settings.Password: sampleLabels},
			ui:          &scriptedUI{menuOutcome: menu.Confirmed},
			failAt:      4,
			wantSetting: settings.Username,
			wantOps:     3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := settingstest.New(tt.initial)
			store.FailAt = tt.failAt
			flow := &Flow{Store: store, UI: tt.ui}

			_, err := flow.Run(context.Background())

			require.True(t, IsConfigWriteFailed(err), "got %v", err)
			assert.Equal(t, ResultConfigWriteFailed, ResultCode(err))
			assert.ErrorIs(t, err, settingstest.ErrInjected)

			var flowErr *FlowError
			require.True(t, errors.As(err, &flowErr))
			assert.Equal(t, tt.wantSetting, flowErr.Setting)
			assert.Len(t, store.Ops(), tt.wantOps)
		})
	}
}
