// Package binident resolves a user-supplied binary path or name to an
// executable file on disk and computes its BinaryIdentity.
package binident

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/surfacectl/surfacectl/internal/contract"
	"github.com/surfacectl/surfacectl/internal/hashing"
	"github.com/surfacectl/surfacectl/internal/schema"
)

// Resolve finds binaryPath on PATH if it is bare, then canonicalizes it and
// verifies it is a regular, executable file. It returns the resolved
// absolute path while leaving the caller's original form (argv[0]) untouched,
// preserving multi-call-binary semantics (spec §6).
func Resolve(binaryPath string) (string, error) {
	candidate := binaryPath
	if !filepath.IsAbs(candidate) {
		if found, err := exec.LookPath(candidate); err == nil {
			candidate = found
		}
	}

	resolved, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		resolved = candidate
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return "", fmt.Errorf("resolve binary path %q: %w", binaryPath, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("binary %q not found: %w", binaryPath, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("binary %q is a directory, not a file", binaryPath)
	}
	if info.Mode()&0o111 == 0 {
		return "", fmt.Errorf("binary %q is not executable", binaryPath)
	}

	return abs, nil
}

// ComputeIdentity hashes the resolved binary's bytes and assembles the
// BinaryIdentity recorded in the report.
func ComputeIdentity(resolvedPath string) (schema.BinaryIdentity, error) {
	hash, err := hashing.HexFile(resolvedPath)
	if err != nil {
		return schema.BinaryIdentity{}, fmt.Errorf("hash binary %q: %w", resolvedPath, err)
	}

	return schema.BinaryIdentity{
		Path: resolvedPath,
		Hash: schema.Hash{Algo: hashing.Algo, Value: hash},
		Platform: schema.Platform{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
		Env: contract.Snapshot(),
	}, nil
}
