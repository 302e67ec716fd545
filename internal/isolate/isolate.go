// Package isolate executes a child invocation under the environment
// contract, either directly in the current namespace or sandboxed via a
// rootless container tool, enforcing resource limits and a wall-clock
// deadline. Both modes return the same Result shape (spec §4.1).
package isolate

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/surfacectl/surfacectl/internal/contract"
)

// Mode selects how the child is isolated.
type Mode string

const (
	ModeDirect    Mode = "direct"
	ModeSandboxed Mode = "bwrap"
)

// Result is what the caller learns from one child invocation.
type Result struct {
	ExitCode   *int
	TimedOut   bool
	WallTimeMs int64
	Stdout     []byte
	Stderr     []byte
}

// SetupError marks a failure to even construct the sandbox (missing mount
// root, missing container tool, binary copy failure) as distinct from an
// ordinary spawn or timeout failure of the probed child itself. Callers
// use this distinction to surface sandbox failures as fatal (spec §4.1,
// §7's SandboxSetup kind) instead of absorbing them into a per-probe
// Undetermined verdict the way a ProbeSpawn failure is absorbed.
type SetupError struct {
	Cause error
}

func (e *SetupError) Error() string { return e.Cause.Error() }
func (e *SetupError) Unwrap() error { return e.Cause }

const pollInterval = 5 * time.Millisecond

// RunDirect spawns binary in the current namespace: a new session (so the
// whole process group can be killed as a unit on timeout), wrapped in a
// shell that applies the rlimit ladder to itself before exec-replacing
// itself with binary (see limits.go's wrapWithRlimits), then the
// environment contract.
func RunDirect(binary string, args []string, cwd string, limits Limits) (Result, error) {
	wrapPath, wrapArgs := wrapWithRlimits(binary, args, limits)

	cmd := exec.Command(wrapPath, wrapArgs...)
	cmd.Dir = cwd
	cmd.Env = contract.EnvSlice()
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	return runCommand(cmd, limits)
}

// RunSandboxed spawns binary inside a rootless bwrap container: tmpfs root,
// the immutable store bound read-only, the fixture directory bound
// read-write as /work, and the resolved binary copied in as /bin/<name>.
// execBinary preserves the caller's argv[0] form (multi-call semantics);
// binarySource is the resolved path whose bytes are actually copied in.
func RunSandboxed(execBinary, binarySource string, args []string, fixtureRoot string, limits Limits) (Result, error) {
	const storeRoot = "/nix/store"
	if _, err := os.Stat(storeRoot); err != nil {
		return Result{}, &SetupError{Cause: fmt.Errorf("sandbox setup: expected %s for sandbox mounts: %w", storeRoot, err)}
	}

	bwrapPath, err := exec.LookPath("bwrap")
	if err != nil {
		return Result{}, &SetupError{Cause: fmt.Errorf("sandbox setup: bwrap not found: %w", err)}
	}

	binaryName := filepath.Base(execBinary)
	runRoot := filepath.Dir(fixtureRoot)
	binRoot := filepath.Join(runRoot, "bin")
	if err := os.MkdirAll(binRoot, 0o755); err != nil {
		return Result{}, &SetupError{Cause: fmt.Errorf("sandbox setup: create bin dir: %w", err)}
	}

	sandboxBinary := filepath.Join(binRoot, binaryName)
	if err := copyFile(binarySource, sandboxBinary); err != nil {
		return Result{}, &SetupError{Cause: fmt.Errorf("sandbox setup: copy binary: %w", err)}
	}

	args0 := []string{
		"--die-with-parent",
		"--unshare-net",
		"--tmpfs", "/",
		"--dir", "/proc",
		"--dir", "/dev",
		"--dir", "/tmp",
		"--dir", "/bin",
		"--dir", "/work",
		"--dir", "/nix",
		"--dir", "/nix/store",
		"--proc", "/proc",
		"--dev", "/dev",
		"--tmpfs", "/tmp",
		"--ro-bind", storeRoot, "/nix/store",
		"--ro-bind", binRoot, "/bin",
		"--bind", fixtureRoot, "/work",
		"--chdir", "/work",
		"--clearenv",
		"--setenv", "LC_ALL", contract.EnvLCAll,
		"--setenv", "TZ", contract.EnvTZ,
		"--setenv", "TERM", contract.EnvTerm,
		"--setenv", "PATH", contract.EnvPath,
		"--",
		"/bin/" + binaryName,
	}
	args0 = append(args0, args...)

	// Wrap the bwrap invocation itself: rlimits set by the shell persist
	// across bwrap's own exec of the sandboxed target, so the limits reach
	// the real target without surfacectl's own process ever being touched,
	// the same mechanism RunDirect uses.
	wrapPath, wrapArgs := wrapWithRlimits(bwrapPath, args0, limits)
	cmd := exec.Command(wrapPath, wrapArgs...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	return runCommand(cmd, limits)
}

func runCommand(cmd *exec.Cmd, limits Limits) (Result, error) {
	cmd.Stdin = nil

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return Result{}, fmt.Errorf("stdout not captured: %w", err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return Result{}, fmt.Errorf("stderr not captured: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("spawn command: %w", err)
	}
	pid := cmd.Process.Pid

	var wg sync.WaitGroup
	var stdout, stderr []byte
	wg.Add(2)
	go func() { defer wg.Done(); stdout, _ = io.ReadAll(stdoutPipe) }()
	go func() { defer wg.Done(); stderr, _ = io.ReadAll(stderrPipe) }()

	start := time.Now()
	deadline := time.Duration(limits.WallTimeMs) * time.Millisecond
	timedOut := false

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

waitLoop:
	for {
		select {
		case err := <-done:
			_ = err
			break waitLoop
		case <-time.After(pollInterval):
			if time.Since(start) > deadline {
				timedOut = true
				killProcessGroup(pid)
				<-done
				break waitLoop
			}
		}
	}

	wallTimeMs := time.Since(start).Milliseconds()
	wg.Wait()

	var exitCode *int
	if cmd.ProcessState != nil {
		code := cmd.ProcessState.ExitCode()
		if code >= 0 {
			exitCode = &code
		}
	}

	return Result{
		ExitCode:   exitCode,
		TimedOut:   timedOut,
		WallTimeMs: wallTimeMs,
		Stdout:     stdout,
		Stderr:     stderr,
	}, nil
}

// killProcessGroup sends SIGKILL to the child's entire process group. Both
// RunDirect and RunSandboxed start the child in a new session (Setsid), so
// the negated pid reliably targets just that tree.
func killProcessGroup(pid int) {
	_ = unix.Kill(-pid, syscall.SIGKILL)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
