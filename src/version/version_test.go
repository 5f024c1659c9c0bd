package version

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()
	if info["vcs.revision"] == "" {
		assert.Equal(t, Commit, info["commit"])
	}
	assert.Equal(t, Version, info["version"])
	assert.Equal(t, BuildTimestamp, info["build_timestamp"])
}

func TestLinkedCommitWins(t *testing.T) {
	previous := Commit
	Commit = "abc123"
	t.Cleanup(func() { Commit = previous })

	assert.Equal(t, "abc123", GetBuildInfo()["commit"])
}

func TestLogAttrs(t *testing.T) {
	attr := LogAttrs()
	assert.Equal(t, "build", attr.Key)
	assert.Equal(t, slog.KindGroup, attr.Value.Kind())
	assert.Len(t, attr.Value.Group(), len(GetBuildInfo()))
}
