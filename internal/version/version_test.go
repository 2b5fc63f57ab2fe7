package version

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func setBuildInfo(t *testing.T, version, commit, built string) {
	t.Helper()
	oldVersion, oldCommit, oldBuilt := Version, GitCommit, BuildTime
	Version, GitCommit, BuildTime = version, commit, built
	t.Cleanup(func() {
		Version, GitCommit, BuildTime = oldVersion, oldCommit, oldBuilt
	})
}

func TestGet(t *testing.T) {
	setBuildInfo(t, "", "", "")
	assert.Equal(t, Info{Version: "dev"}, Get())

	setBuildInfo(t, "v1.2.0", "0123456789abcdef", "2026-01-02T03:04:05Z")
	assert.Equal(t, Info{
		Version: "v1.2.0",
		Commit:  "0123456",
		Built:   "2026-01-02T03:04:05Z",
	}, Get())
}

func TestFprint(t *testing.T) {
	setBuildInfo(t, "v1.2.0", "abc", "")

	var buf bytes.Buffer
	Fprint(&buf)
	assert.Contains(t, buf.String(), "cf-license version v1.2.0")
	assert.Contains(t, buf.String(), "Git commit: abc")
	assert.NotContains(t, buf.String(), "Build time")
}
