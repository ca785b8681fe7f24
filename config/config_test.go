package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultResolves(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.ResolveDefaults())
	require.Equal(t, 8, cfg.Resolved.MaxConnections)
	require.Equal(t, 1024, cfg.Resolved.MaxHeadLen)
	require.Equal(t, 2048, cfg.Resolved.MaxSendBuff)
	require.Equal(t, 16*1024, cfg.Resolved.MaxPostLen)
	require.Equal(t, 4*1024, cfg.Resolved.MaxBacklog)
	require.Equal(t, 128, cfg.Resolved.MaxCORSToken)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
max_connections: 16
max_head_len: "2kb"
max_sendbuff_len: "8kb"
max_post_len: "1mb"
max_backlog_size: "64kb"
max_cors_token_len: 256
cors_enabled: true
log_level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 16, cfg.Resolved.MaxConnections)
	require.Equal(t, 2*1024, cfg.Resolved.MaxHeadLen)
	require.Equal(t, 8*1024, cfg.Resolved.MaxSendBuff)
	require.Equal(t, 1024*1024, cfg.Resolved.MaxPostLen)
	require.Equal(t, 64*1024, cfg.Resolved.MaxBacklog)
	require.Equal(t, 256, cfg.Resolved.MaxCORSToken)
	require.True(t, cfg.CORSEnabled)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadFillsZeroFieldsFromDefault(t *testing.T) {
	path := writeTempConfig(t, `
max_connections: 2
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 2, cfg.Resolved.MaxConnections)
	// Everything else left unset in the file falls back to Default()'s strings.
	require.Equal(t, 1024, cfg.Resolved.MaxHeadLen)
	require.Equal(t, 2048, cfg.Resolved.MaxSendBuff)
}

func TestLoadRejectsMalformedSize(t *testing.T) {
	path := writeTempConfig(t, `
max_head_len: "not-a-size"
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeTempConfig(t, "{{not yaml")
	_, err := Load(path)
	require.Error(t, err)
}
