package app

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVCSStamp(t *testing.T) {
	t.Parallel()

	stamped := &debug.BuildInfo{Settings: []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef0123"},
		{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
		{Key: "vcs.modified", Value: "true"},
	}}

	tests := []struct {
		name       string
		info       *debug.BuildInfo
		commit     string
		built      string
		wantCommit string
		wantBuilt  string
	}{
		{"no build info", nil, "unknown", "unknown", "unknown", "unknown"},
		{"vcs stamp fills unset values", stamped, "unknown", "unknown", "0123456789ab-dirty", "2026-10-01T12:00:00Z"},
		{"ldflags win", stamped, "abc123", "yesterday", "abc123-dirty", "yesterday"},
		{"no vcs settings", &debug.BuildInfo{}, "unknown", "unknown", "unknown", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			commit, built := vcsStamp(tt.info, tt.commit, tt.built)
			assert.Equal(t, tt.wantCommit, commit)
			assert.Equal(t, tt.wantBuilt, built)
		})
	}
}

func TestBuildVersion_StartsWithVersion(t *testing.T) {
	t.Parallel()

	assert.Regexp(t, `^dev \(commit: .+, built: .+\)$`, BuildVersion())
}
