package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestManagePIDFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chessd.pid")

	cleanup, err := managePIDFile(path, true)
	if err != nil {
		t.Fatalf("managePIDFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != strconv.Itoa(os.Getpid()) {
		t.Errorf("PID file holds %q, want our PID", got)
	}

	// Our own process is alive but the file already exists
	if _, err := managePIDFile(path, true); err == nil {
		t.Error("second locked PID file succeeded")
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("PID file survived cleanup: %v", err)
	}
}

func TestStalePIDFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chessd.pid")
	if err := os.WriteFile(path, []byte("not-a-pid\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := managePIDFile(path, true); err == nil || !strings.Contains(err.Error(), "corrupted") {
		t.Errorf("corrupted PID file error = %v", err)
	}

	// Without locking an existing file is simply overwritten
	cleanup, err := managePIDFile(path, false)
	if err != nil {
		t.Fatalf("unlocked managePIDFile: %v", err)
	}
	cleanup()
}
