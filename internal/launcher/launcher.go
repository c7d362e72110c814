// Package launcher composes the two long-lived units of the process: the
// backend supervisor and the panel server. The panel runs for as long as
// the supervisor does; when the supervisor finishes its teardown the
// whole process exits.
package launcher

import (
	"log"

	"xunlei/internal/backend"
	"xunlei/internal/config"
	"xunlei/internal/server"
	"xunlei/internal/session"
)

type Launcher struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Launcher {
	return &Launcher{cfg: cfg}
}

func (l *Launcher) Run() error {
	denv := config.NewDaemonEnv(l.cfg)
	store := session.NewStore()
	defer store.Close()

	panel := server.NewServer(l.cfg, denv, store)
	defer panel.Close()

	go func() {
		if err := panel.Run(); err != nil {
			log.Printf("❌ [panel] %v", err)
		}
	}()

	supervisor := backend.NewSupervisor(l.cfg, denv)
	if err := supervisor.Run(); err != nil {
		return err
	}

	log.Println("✅ All services have been complete")
	return nil
}
