package binident

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/surfacectl/surfacectl/internal/hashing"
)

func writeExecutable(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o755); err != nil {
		t.Fatalf("write executable: %v", err)
	}
	return path
}

func TestResolveDirectPath(t *testing.T) {
	dir := t.TempDir()
	path := writeExecutable(t, dir, "tool", []byte("#!/bin/sh\necho hi\n"))

	resolved, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve() = %v", err)
	}
	if !filepath.IsAbs(resolved) {
		t.Errorf("Resolve() = %q, want absolute path", resolved)
	}
}

func TestResolveMissingPath(t *testing.T) {
	if _, err := Resolve(filepath.Join(t.TempDir(), "ghost")); err == nil {
		t.Error("Resolve() on missing binary = nil error, want error")
	}
}

func TestResolveDirectoryRejected(t *testing.T) {
	dir := t.TempDir()
	if _, err := Resolve(dir); err == nil {
		t.Error("Resolve() on a directory = nil error, want error")
	}
}

func TestResolveNonExecutableRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	if err := os.WriteFile(path, []byte("not a program"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := Resolve(path); err == nil {
		t.Error("Resolve() on a non-executable file = nil error, want error")
	}
}

func TestComputeIdentity(t *testing.T) {
	dir := t.TempDir()
	content := []byte("#!/bin/sh\necho hi\n")
	path := writeExecutable(t, dir, "tool", content)

	identity, err := ComputeIdentity(path)
	if err != nil {
		t.Fatalf("ComputeIdentity() = %v", err)
	}
	if identity.Hash.Algo != hashing.Algo {
		t.Errorf("Hash.Algo = %q, want %q", identity.Hash.Algo, hashing.Algo)
	}
	if want := hashing.Hex(content); identity.Hash.Value != want {
		t.Errorf("Hash.Value = %q, want %q", identity.Hash.Value, want)
	}
	if identity.Platform.OS != runtime.GOOS || identity.Platform.Arch != runtime.GOARCH {
		t.Errorf("Platform = %+v, want {%s %s}", identity.Platform, runtime.GOOS, runtime.GOARCH)
	}
	if identity.Env.Locale != "C" || identity.Env.TZ != "UTC" || identity.Env.Term != "dumb" {
		t.Errorf("Env = %+v, want the fixed contract snapshot", identity.Env)
	}
}

func TestComputeIdentityMissingFile(t *testing.T) {
	if _, err := ComputeIdentity(filepath.Join(t.TempDir(), "ghost")); err == nil {
		t.Error("ComputeIdentity() on missing file = nil error, want error")
	}
}
