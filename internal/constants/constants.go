package constants

import (
	"net/http"
	"time"
)

// Synology package identity the wrapped daemon was built against. The
// backend refuses to start unless it finds itself under these paths.
const (
	PackageName = "pan-xunlei-com"
	PackageDest = "/var/packages/pan-xunlei-com/target"
	PackageVar  = PackageDest + "/var"

	SockFile      = PackageVar + "/pan-xunlei-com.sock"
	PidFile       = PackageVar + "/pan-xunlei-com.pid"
	EnvFile       = PackageVar + "/pan-xunlei-com.env"
	LogFile       = PackageVar + "/pan-xunlei-com.log"
	LaunchLogFile = PackageVar + "/pan-xunlei-com-launcher.log"
	LaunchPidFile = PackageVar + "/pan-xunlei-com-launcher.pid"
	InstLog       = PackageVar + "/pan-xunlei-com-install.log"

	LauncherExe  = PackageDest + "/bin/bin/xunlei-pan-cli-launcher"
	LauncherSock = PackageVar + "/pan-xunlei-com-launcher.sock"
	CliWebExe    = PackageDest + "/bin/bin/xunlei-pan-cli-web"

	// WebUIHome is the only sub-path the panel proxies to the CGI
	// executable; everything else redirects here.
	WebUIHome = "/webman/3rdparty/pan-xunlei-com/index.cgi/"
)

// DSM platform version reported to the daemon via its environment.
const (
	DSMVersionMajor = "7"
	DSMVersionMinor = "2"
	DSMVersionBuild = "64570"
)

// Network and path defaults
const (
	MinPort                 = 1024
	MaxPort                 = 65535
	DefaultBindDownloadPath = PackageDest + "/download"
)

// Session settings
const (
	SessionTTL            = time.Hour
	SessionCookieName     = "XUNLEI_SID"
	SessionCookieMaxAge   = 3600 // 1 hour
	SessionCookieSameSite = http.SameSiteLaxMode
	CleanupInterval       = 30 * time.Second
	RedisKeyPrefix        = "xunlei:sid:"
)

// Login brute force protection
const (
	MaxAuthAttempts = 5
	BlockDuration   = 15 * time.Minute
)

// Panel endpoints
const (
	EndpointLogin        = "/login"
	EndpointSHA3Script   = "/js/sha3.min.js"
	EndpointWebmanShim   = "/webman/login.cgi"
	EndpointLauncherLogs = "/launcher/logs"
)

// Messages
const (
	MsgWrongLogin      = "Wrong login/password"
	MsgTooManyAttempts = "Too many failed attempts. Try again later."
)

// WebmanShimPayload is the fixed token payload the daemon's own web UI
// probes for on the legacy DSM login path before making further calls.
// Only the 200 status and JSON content type matter to it.
const WebmanShimPayload = `{"SynoToken", ""}`
