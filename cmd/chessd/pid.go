package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// pidFile is a written PID file, optionally held under an exclusive flock
type pidFile struct {
	path   string
	file   *os.File
	locked bool
}

// managePIDFile writes the current PID to path. With lock set, a second
// server pointed at the same file refuses to start. The returned cleanup
// removes the file.
func managePIDFile(path string, lock bool) (func(), error) {
	p := &pidFile{path: path}
	if err := p.open(lock); err != nil {
		return nil, err
	}
	if lock {
		if err := p.lock(); err != nil {
			return nil, err
		}
	}
	if err := p.write(os.Getpid()); err != nil {
		p.release()
		return nil, err
	}
	return p.release, nil
}

// open creates the file, or truncates an existing one after the staleness
// check when locking
func (p *pidFile) open(lock bool) error {
	f, err := os.OpenFile(p.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err == nil {
		p.file = f
		return nil
	}
	if !os.IsExist(err) {
		return fmt.Errorf("cannot create PID file: %w", err)
	}

	if lock {
		if err := checkStalePID(p.path); err != nil {
			return err
		}
	}

	f, err = os.OpenFile(p.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("cannot open PID file: %w", err)
	}
	p.file = f
	return nil
}

func (p *pidFile) lock() error {
	err := syscall.Flock(int(p.file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
	if err == nil {
		p.locked = true
		return nil
	}
	p.file.Close()
	if errors.Is(err, syscall.EWOULDBLOCK) {
		return fmt.Errorf("cannot acquire lock: another instance is running")
	}
	return fmt.Errorf("lock failed: %w", err)
}

func (p *pidFile) write(pid int) error {
	if _, err := fmt.Fprintf(p.file, "%d\n", pid); err != nil {
		return fmt.Errorf("cannot write PID: %w", err)
	}
	if err := p.file.Sync(); err != nil {
		return fmt.Errorf("cannot sync PID file: %w", err)
	}
	return nil
}

func (p *pidFile) release() {
	if p.locked {
		syscall.Flock(int(p.file.Fd()), syscall.LOCK_UN)
	}
	p.file.Close()
	os.Remove(p.path)
}

// checkStalePID inspects an existing PID file. Any leftover file is an error
// when locking: either its process is gone or it runs without the lock.
func checkStalePID(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read existing PID file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return fmt.Errorf("corrupted PID file (contains: %q)", string(data))
	}

	// FindProcess never fails on Unix; signal 0 probes for existence
	proc, _ := os.FindProcess(pid)
	if err = proc.Signal(syscall.Signal(0)); err != nil {
		if errors.Is(err, os.ErrProcessDone) || errors.Is(err, syscall.ESRCH) {
			return fmt.Errorf("stale PID file found for defunct process %d", pid)
		}
		return fmt.Errorf("process %d exists but cannot verify ownership: %v", pid, err)
	}

	return fmt.Errorf("stale PID file: process %d is running but not holding lock", pid)
}
