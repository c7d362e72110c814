// Package mount manages the bind mount that presents the real download
// directory at the path the backend daemon expects.
package mount

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/sys/unix"
)

// Syscaller abstracts the mount syscalls so tests can run unprivileged.
type Syscaller interface {
	Mount(source, target, fstype string, flags uintptr, data string) error
	Unmount(target string, flags int) error
}

type unixSyscaller struct{}

func (unixSyscaller) Mount(source, target, fstype string, flags uintptr, data string) error {
	return unix.Mount(source, target, fstype, flags, data)
}

func (unixSyscaller) Unmount(target string, flags int) error {
	return unix.Unmount(target, flags)
}

type Binder struct {
	sys Syscaller
}

func NewBinder() *Binder {
	return &Binder{sys: unixSyscaller{}}
}

// NewBinderWithSyscaller injects an alternative syscall implementation.
func NewBinderWithSyscaller(sys Syscaller) *Binder {
	return &Binder{sys: sys}
}

// Bind mounts source onto target with a plain bind mount. A stale mount
// left at target by a previous run is unmounted first; that cleanup is
// allowed to fail. A failed bind is fatal to startup, so it is returned.
func (b *Binder) Bind(source, target string) error {
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("create mount target %s: %w", target, err)
	}

	_ = b.sys.Unmount(target, 0)

	if err := b.sys.Mount(source, target, "", unix.MS_BIND, ""); err != nil {
		return fmt.Errorf("mount %s to %s failed: %w", source, target, err)
	}
	log.Printf("📌 Mount %s to %s succeeded", source, target)
	return nil
}

// Unbind unmounts target. Failure is logged only; shutdown must not stall
// on a busy mount.
func (b *Binder) Unbind(target string) {
	if err := b.sys.Unmount(target, 0); err != nil {
		log.Printf("❌ Unmount %s failed: %v", target, err)
		return
	}
	log.Printf("📌 Unmount %s succeeded", target)
}
