package config

import (
	"fmt"

	"xunlei/internal/constants"
)

// DaemonEnv is the environment contract of the wrapped daemon, as named
// fields rather than a free-form map so a key typo cannot silently break
// the daemon's startup. Every field maps to exactly one documented
// integration variable.
type DaemonEnv struct {
	DriveListen  string // unix socket the drive service listens on
	OSVersion    string // "dsm <major>.<minor>-<build>"
	Home         string
	ConfigPath   string
	DownloadPath string // the mount-bind path, not the real download dir

	DSMVersionMajor string
	DSMVersionMinor string
	DSMVersionBuild string

	PkgDest string
	PkgName string
	SvcCwd  string

	PidFile       string
	EnvFile       string
	LogFile       string
	LaunchLogFile string
	LaunchPidFile string
	InstLog       string

	GinMode string
}

// NewDaemonEnv builds the daemon environment for the given configuration.
func NewDaemonEnv(cfg *Config) *DaemonEnv {
	return &DaemonEnv{
		DriveListen: constants.SockFile,
		OSVersion: fmt.Sprintf("dsm %s.%s-%s",
			constants.DSMVersionMajor, constants.DSMVersionMinor, constants.DSMVersionBuild),
		Home:            cfg.ConfigPath,
		ConfigPath:      cfg.ConfigPath,
		DownloadPath:    cfg.MountBindDownloadPath,
		DSMVersionMajor: constants.DSMVersionMajor,
		DSMVersionMinor: constants.DSMVersionMinor,
		DSMVersionBuild: constants.DSMVersionBuild,
		PkgDest:         constants.PackageDest,
		PkgName:         constants.PackageName,
		SvcCwd:          constants.PackageDest,
		PidFile:         constants.PidFile,
		EnvFile:         constants.EnvFile,
		LogFile:         constants.LogFile,
		LaunchLogFile:   constants.LaunchLogFile,
		LaunchPidFile:   constants.LaunchPidFile,
		InstLog:         constants.InstLog,
		GinMode:         "release",
	}
}

// Environ renders the environment in os/exec form.
func (e *DaemonEnv) Environ() []string {
	return []string{
		"DriveListen=" + e.DriveListen,
		"OS_VERSION=" + e.OSVersion,
		"HOME=" + e.Home,
		"ConfigPath=" + e.ConfigPath,
		"DownloadPATH=" + e.DownloadPath,
		"SYNOPKG_DSM_VERSION_MAJOR=" + e.DSMVersionMajor,
		"SYNOPKG_DSM_VERSION_MINOR=" + e.DSMVersionMinor,
		"SYNOPKG_DSM_VERSION_BUILD=" + e.DSMVersionBuild,
		"SYNOPKG_PKGDEST=" + e.PkgDest,
		"SYNOPKG_PKGNAME=" + e.PkgName,
		"SVC_CWD=" + e.SvcCwd,
		"PID_FILE=" + e.PidFile,
		"ENV_FILE=" + e.EnvFile,
		"LOG_FILE=" + e.LogFile,
		"LAUNCH_LOG_FILE=" + e.LaunchLogFile,
		"LAUNCH_PID_FILE=" + e.LaunchPidFile,
		"INST_LOG=" + e.InstLog,
		"GIN_MODE=" + e.GinMode,
	}
}
