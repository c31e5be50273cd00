package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigDir(t *testing.T, public, private string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "public.yaml"), []byte(public), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "private.yaml"), []byte(private), 0o600))
	return dir
}

func TestMustLoad(t *testing.T) {
	dir := writeConfigDir(t,
		"listen_addr: \":9090\"\njwt_ttl: 1h\ntyping_staleness: 5s\ntyping_sweep_interval: 1s\n",
		"jwt_key: 'k'\npg:\n  host: localhost\n  port: 5432\n  user: u\n  password: p\n  dbname: d\n")

	cfg := MustLoad(dir)

	assert.Equal(t, ":9090", cfg.Public.ListenAddr)
	assert.Equal(t, time.Hour, cfg.JwtTTL())
	assert.Equal(t, "k", cfg.JwtKey())
	assert.Equal(t, 5*time.Second, cfg.Public.TypingStaleness)
	assert.Equal(t, "localhost", cfg.Private.Pg.Host)
}

func TestMustLoad_Defaults(t *testing.T) {
	dir := writeConfigDir(t, "listen_addr: \":9090\"\n", "jwt_key: 'k'\n")

	cfg := MustLoad(dir)

	assert.Equal(t, 10_000, cfg.Public.MaxMessageLen)
	assert.Equal(t, 32, cfg.Public.EventQueueSize)
	assert.Equal(t, 10*time.Second, cfg.Public.TypingStaleness)
	assert.Equal(t, 2*time.Second, cfg.Public.TypingSweepInterval)
	assert.Equal(t, 20*time.Second, cfg.Public.KeepAliveInterval)
}

func TestMustLoad_MissingFile(t *testing.T) {
	dir := t.TempDir() // no yaml files at all

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic due to missing config file, got none")
		}
	}()

	_ = MustLoad(dir)
}
