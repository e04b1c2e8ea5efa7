package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withVersion(t *testing.T, v, c string) {
	t.Helper()
	oldV, oldC := Version, Commit
	Version, Commit = v, c
	t.Cleanup(func() { Version, Commit = oldV, oldC })
}

func TestApplyBuildSettings(t *testing.T) {
	tests := []struct {
		name        string
		settings    []debug.BuildSetting
		wantVersion string
		wantCommit  string
	}{
		{
			name: "clean checkout",
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef"},
				{Key: "vcs.time", Value: "2024-03-05T10:00:00Z"},
			},
			wantVersion: "dev-20240305",
			wantCommit:  "0123456",
		},
		{
			name: "modified tree",
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc"},
				{Key: "vcs.modified", Value: "true"},
			},
			wantCommit: "abc-dirty",
		},
		{
			name:     "unparseable time",
			settings: []debug.BuildSetting{{Key: "vcs.time", Value: "yesterday"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withVersion(t, "", "")
			applyBuildSettings(tt.settings)
			assert.Equal(t, tt.wantVersion, Version)
			assert.Equal(t, tt.wantCommit, Commit)
		})
	}
}

func TestApplyBuildSettings_KeepsLinkerValues(t *testing.T) {
	withVersion(t, "v1.2.0", "feedbee")
	applyBuildSettings([]debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789"},
		{Key: "vcs.time", Value: "2024-03-05T10:00:00Z"},
	})
	assert.Equal(t, "v1.2.0", Version)
	assert.Equal(t, "feedbee", Commit)
}

func TestFull(t *testing.T) {
	withVersion(t, "v1.0.0", "abc1234")
	assert.Equal(t, "v1.0.0 (commit: abc1234)", Full())
}
