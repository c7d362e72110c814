package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xunlei/internal/constants"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 5055, cfg.Port)
	assert.Equal(t, os.Getuid(), cfg.UID)
	assert.Equal(t, os.Getgid(), cfg.GID)
	assert.Equal(t, constants.DefaultBindDownloadPath, cfg.MountBindDownloadPath)
	assert.True(t, cfg.AuthDisabled())
	assert.Equal(t, "0.0.0.0:5055", cfg.Listen())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("XUNLEI_AUTH_USER", "admin")
	t.Setenv("XUNLEI_AUTH_PASSWORD", "secret")
	t.Setenv("XUNLEI_HOST", "127.0.0.1")
	t.Setenv("XUNLEI_PORT", "8080")
	t.Setenv("XUNLEI_UID", "1000")
	t.Setenv("XUNLEI_GID", "1000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.AuthDisabled())
	assert.Equal(t, "127.0.0.1:8080", cfg.Listen())
	assert.Equal(t, 1000, cfg.UID)
	assert.Equal(t, 1000, cfg.GID)
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("XUNLEI_PORT", "99")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadHost(t *testing.T) {
	t.Setenv("XUNLEI_HOST", "not-an-ip")
	_, err := Load()
	assert.Error(t, err)
}

func TestAuthDisabledNeedsBothSides(t *testing.T) {
	t.Setenv("XUNLEI_AUTH_USER", "admin")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.AuthDisabled(), "a lone username still disables auth")
}

func TestDaemonEnvEnviron(t *testing.T) {
	cfg := &Config{
		ConfigPath:            "/opt/xunlei",
		MountBindDownloadPath: "/mnt/bind",
	}
	env := NewDaemonEnv(cfg).Environ()

	assert.Contains(t, env, "DriveListen="+constants.SockFile)
	assert.Contains(t, env, "OS_VERSION=dsm 7.2-64570")
	assert.Contains(t, env, "HOME=/opt/xunlei")
	assert.Contains(t, env, "DownloadPATH=/mnt/bind")
	assert.Contains(t, env, "SYNOPKG_PKGNAME="+constants.PackageName)
	assert.Contains(t, env, "SVC_CWD="+constants.PackageDest)
	assert.Contains(t, env, "GIN_MODE=release")
}
