package config

import (
	"fmt"
	"net"
	"os"

	"github.com/caarlos0/env/v11"

	"xunlei/internal/constants"
)

// Config is the launcher configuration, populated from the environment.
// Credentials are optional; leaving either side empty disables panel
// authentication entirely.
type Config struct {
	AuthUser     string `env:"XUNLEI_AUTH_USER"`
	AuthPassword string `env:"XUNLEI_AUTH_PASSWORD"`

	Host  string `env:"XUNLEI_HOST" envDefault:"0.0.0.0"`
	Port  int    `env:"XUNLEI_PORT" envDefault:"5055"`
	Debug bool   `env:"XUNLEI_DEBUG"`

	// Service identity the backend daemon and CGI executable run as.
	// Defaults to the launcher's own uid/gid.
	UID int `env:"XUNLEI_UID" envDefault:"-1"`
	GID int `env:"XUNLEI_GID" envDefault:"-1"`

	ConfigPath            string `env:"XUNLEI_CONFIG_PATH" envDefault:"/opt/xunlei"`
	DownloadPath          string `env:"XUNLEI_DOWNLOAD_PATH" envDefault:"/opt/xunlei/downloads"`
	MountBindDownloadPath string `env:"XUNLEI_MOUNT_BIND_DOWNLOAD_PATH"`

	// MaxConcurrent bounds in-flight panel requests; 0 keeps the
	// historical unbounded behavior.
	MaxConcurrent int  `env:"XUNLEI_MAX_CONCURRENT" envDefault:"0"`
	LoginProtect  bool `env:"XUNLEI_LOGIN_PROTECT" envDefault:"true"`
	QRCode        bool `env:"XUNLEI_QRCODE"`
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if net.ParseIP(cfg.Host) == nil {
		return nil, fmt.Errorf("`%s` isn't a ip address", cfg.Host)
	}
	if cfg.Port < constants.MinPort || cfg.Port > constants.MaxPort {
		return nil, fmt.Errorf("port not in range %d-%d", constants.MinPort, constants.MaxPort)
	}

	if cfg.UID < 0 {
		cfg.UID = os.Getuid()
	}
	if cfg.GID < 0 {
		cfg.GID = os.Getgid()
	}
	if cfg.MountBindDownloadPath == "" {
		cfg.MountBindDownloadPath = constants.DefaultBindDownloadPath
	}

	return &cfg, nil
}

// Listen returns the host:port address the panel binds.
func (c *Config) Listen() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AuthDisabled reports whether panel authentication is switched off.
func (c *Config) AuthDisabled() bool {
	return c.AuthUser == "" || c.AuthPassword == ""
}
