// Package backend supervises the proprietary download daemon: it prepares
// the daemon's filesystem view, spawns it under the service identity and
// tears everything down again on the first termination signal.
package backend

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"xunlei/internal/config"
	"xunlei/internal/constants"
	"xunlei/internal/mount"
)

// Killer delivers a signal to a process. Injected so shutdown behavior is
// testable without a real child.
type Killer interface {
	Kill(pid int, sig syscall.Signal) error
}

type sysKiller struct{}

func (sysKiller) Kill(pid int, sig syscall.Signal) error {
	return syscall.Kill(pid, sig)
}

// Binder is the mount dependency of the supervisor.
type Binder interface {
	Bind(source, target string) error
	Unbind(target string)
}

type Supervisor struct {
	cfg    *config.Config
	env    *config.DaemonEnv
	binder Binder
	killer Killer

	// signals is the channel the wait loop blocks on; tests feed it
	// directly instead of raising real signals.
	signals chan os.Signal
}

func NewSupervisor(cfg *config.Config, env *config.DaemonEnv) *Supervisor {
	return &Supervisor{
		cfg:     cfg,
		env:     env,
		binder:  mount.NewBinder(),
		killer:  sysKiller{},
		signals: make(chan os.Signal, 1),
	}
}

// Run drives the supervisor through its whole lifecycle: mount, spawn,
// block on termination signals, stop the child, unmount. It returns only
// after the teardown completed or on a fatal condition.
func (s *Supervisor) Run() error {
	if err := s.prepareVarDir(); err != nil {
		return err
	}

	if err := s.binder.Bind(s.cfg.DownloadPath, s.cfg.MountBindDownloadPath); err != nil {
		return err
	}

	log.Printf("🚀 Start Xunlei Backend Server")
	cmd := exec.Command(constants.LauncherExe,
		"-launcher_listen="+constants.LauncherSock,
		"-pid="+constants.PidFile,
		"-logfile="+constants.LaunchLogFile,
	)
	cmd.Dir = constants.PackageDest
	cmd.Env = s.daemonEnviron()
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Credential: &syscall.Credential{
			Uid: uint32(s.cfg.UID),
			Gid: uint32(s.cfg.GID),
		},
	}
	if s.cfg.Debug {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to spawn backend daemon: %w", err)
	}
	pid := cmd.Process.Pid
	log.Printf("🚀 Xunlei Backend Server PID: %d", pid)

	// Reap the child whenever it exits on its own.
	go func() {
		_ = cmd.Wait()
	}()

	signal.Notify(s.signals, syscall.SIGINT, syscall.SIGHUP, syscall.SIGTERM)
	defer signal.Stop(s.signals)

	s.wait()

	return s.stop(pid)
}

// daemonEnviron layers the integration variables on top of the
// launcher's own environment, so the daemon keeps PATH, HOME and
// whatever else the host provides. For duplicate keys os/exec uses the
// last entry, so the integration values win.
func (s *Supervisor) daemonEnviron() []string {
	return append(os.Environ(), s.env.Environ()...)
}

// prepareVarDir creates the daemon's var directory and hands it to the
// service identity. The daemon writes its socket and pid file there.
func (s *Supervisor) prepareVarDir() error {
	if _, err := os.Stat(constants.PackageVar); err == nil {
		return nil
	}
	if err := os.MkdirAll(constants.PackageVar, 0o777); err != nil {
		return fmt.Errorf("create var directory %s: %w", constants.PackageVar, err)
	}
	if err := os.Chown(constants.PackageVar, s.cfg.UID, s.cfg.GID); err != nil {
		return fmt.Errorf("chown var directory %s: %w", constants.PackageVar, err)
	}
	return nil
}

// wait blocks until one of the three termination signals arrives. Anything
// else that shows up on the channel is logged and ignored.
func (s *Supervisor) wait() {
	for sig := range s.signals {
		switch sig {
		case syscall.SIGINT, syscall.SIGHUP, syscall.SIGTERM:
			log.Printf("🛑 Received %v, stopping backend daemon", sig)
			return
		default:
			log.Printf("⚠️ The system receives an unprocessed signal: %v", sig)
		}
	}
}

// stop asks the child to shut down with SIGINT, escalating once to
// SIGTERM. If even the escalation cannot be delivered the child would
// leak unreaped, which is fatal and skips the unmount. In every other
// case the bind target is unmounted before returning.
func (s *Supervisor) stop(pid int) error {
	if err := s.killer.Kill(pid, syscall.SIGINT); err != nil {
		if err2 := s.killer.Kill(pid, syscall.SIGTERM); err2 != nil {
			return fmt.Errorf("backend kill error: %v, SIGTERM escalation failed: %w", err, err2)
		}
		log.Printf("🛑 SIGINT delivery failed (%v), escalated to SIGTERM", err)
	} else {
		log.Printf("✅ The backend service has been terminated")
	}

	s.binder.Unbind(s.cfg.MountBindDownloadPath)
	return nil
}
