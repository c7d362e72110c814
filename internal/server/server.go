// Package server implements the authenticated panel: session cookie
// plumbing, the login flow and the CGI gateway behind it.
package server

import (
	"fmt"
	"log"
	"net/http"
	"syscall"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"xunlei/internal/cgi"
	"xunlei/internal/config"
	"xunlei/internal/constants"
	"xunlei/internal/security"
	"xunlei/internal/session"
	"xunlei/internal/utils"
)

type Server struct {
	cfg     *config.Config
	store   session.Store
	gateway *cgi.Gateway

	protector *security.BruteForceProtector
	audit     *security.AuditLogger

	// SHA3-512 digests of the configured credentials; empty when the
	// corresponding secret is unset.
	authUser     string
	authPassword string
}

func NewServer(cfg *config.Config, denv *config.DaemonEnv, store session.Store) *Server {
	s := &Server{
		cfg:   cfg,
		store: store,
		gateway: &cgi.Gateway{
			Exe:     constants.CliWebExe,
			Dir:     constants.PackageDest,
			BaseEnv: denv.Environ(),
			Port:    cfg.Port,
			Cred: &syscall.Credential{
				Uid: uint32(cfg.UID),
				Gid: uint32(cfg.GID),
			},
			Debug: cfg.Debug,
		},
	}

	if cfg.AuthUser != "" {
		s.authUser = session.HashSHA3(cfg.AuthUser)
	}
	if cfg.AuthPassword != "" {
		s.authPassword = session.HashSHA3(cfg.AuthPassword)
	}

	if cfg.LoginProtect {
		s.protector = security.NewBruteForceProtector(constants.MaxAuthAttempts, constants.BlockDuration)
	}

	audit, err := security.NewAuditLogger(cfg.ConfigPath)
	if err != nil {
		log.Printf("⚠️ Failed to initialize audit logger: %v", err)
	} else {
		s.audit = audit
	}

	return s
}

// Handler builds the full middleware chain around the panel routes.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = http.HandlerFunc(s.handlePanel)
	handler = security.LimitConcurrency(s.cfg.MaxConcurrent, handler)
	handler = security.SecurityHeaders(handler)
	handler = AccessLogMiddleware(handler)
	handler = RecoveryMiddleware(handler)
	return handler
}

// Run binds the listening socket and serves until the listener fails.
// Request failures never propagate here; a single bad request cannot take
// the panel down.
func (s *Server) Run() error {
	listen := s.cfg.Listen()
	log.Printf("🌐 Start Xunlei Panel UI, listening on %s", listen)

	if s.cfg.QRCode {
		s.printQRCode()
	}

	server := &http.Server{
		Addr:              listen,
		Handler:           h2c.NewHandler(s.Handler(), &http2.Server{}),
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("panel server error: %w", err)
	}
	return nil
}

func (s *Server) Close() {
	if s.protector != nil {
		s.protector.Close()
	}
	s.audit.Close()
}

func (s *Server) printQRCode() {
	host := s.cfg.Host
	if host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	url := utils.ConstructURL("http", fmt.Sprintf("%s:%d", host, s.cfg.Port), "/")

	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		log.Printf("⚠️ Failed to render QR code: %v", err)
		return
	}
	fmt.Println(q.ToSmallString(false))
	log.Printf("📱 Panel URL: %s", url)
}
