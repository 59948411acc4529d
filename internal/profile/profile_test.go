package profile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ModeFallsBackToDemo(t *testing.T) {
	p := &Profile{Mode: "staging"}
	require.NoError(t, p.Validate())
	assert.Equal(t, "demo", p.Mode)
	assert.True(t, p.IsDev())
}

func TestValidate_MemoryOnlySkipsDataDir(t *testing.T) {
	// Without a driver there is nothing to persist, so a missing data
	// directory must not fail validation.
	p := &Profile{Mode: "prod", Data: "/does/not/exist"}
	require.NoError(t, p.Validate())
	assert.False(t, p.IsDev())
}

func TestValidate_SqliteDefaultsDSN(t *testing.T) {
	dir := t.TempDir()
	p := &Profile{Mode: "dev", Driver: "sqlite", Data: dir}
	require.NoError(t, p.Validate())
	assert.Equal(t, filepath.Join(dir, "scheduler_dev.db"), p.DSN)
}

func TestValidate_SqliteKeepsExplicitDSN(t *testing.T) {
	dir := t.TempDir()
	p := &Profile{Mode: "dev", Driver: "sqlite", Data: dir, DSN: "/tmp/custom.db"}
	require.NoError(t, p.Validate())
	assert.Equal(t, "/tmp/custom.db", p.DSN)
}

func TestValidate_MissingDataDirFails(t *testing.T) {
	p := &Profile{Mode: "dev", Driver: "sqlite", Data: "/definitely/not/here"}
	assert.Error(t, p.Validate())
}

func TestIsAIEnabled(t *testing.T) {
	assert.False(t, (&Profile{}).IsAIEnabled())
	assert.True(t, (&Profile{AIAPIKey: "sk-test"}).IsAIEnabled())
}
