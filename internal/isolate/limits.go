package isolate

import (
	"os/exec"
	"strconv"
)

// Limits bounds a single child invocation. All fields mirror the original
// implementation's rlimit configuration (CPU seconds, address space, file
// size, wall clock); open-files is fixed at 128 and is not configurable.
type Limits struct {
	CPUTimeMs  int64
	MemoryKB   int64
	FileSizeKB int64
	WallTimeMs int64
}

const maxOpenFiles = 128

// shWrapScript sets the four rlimits via the shell's own ulimit builtin and
// then execs the real command, replacing the shell's process image.
// rlimits set this way apply only to the process that runs them — and since
// exec() never resets rlimits, the limits the shell just set are the ones
// the real command (and anything it then execs, e.g. bwrap's own sandboxed
// target) actually runs under. This is the Go equivalent of the original's
// pre_exec closure: Go's os/exec has no hook to run code in the child
// between fork and exec, so the "child-side code" is this shell script
// instead, never the surfacectl process's own limits. See DESIGN.md Open
// Question 7.
const shWrapScript = `ulimit -t "$1"; ulimit -f "$2"; ulimit -n "$3"; ulimit -v "$4" 2>/dev/null; shift 4; exec "$@"`

// wrapWithRlimits builds the argv for a shell invocation that applies
// limits to itself before exec-replacing itself with realPath/realArgs.
// The caller spawns the returned (path, args) instead of realPath directly;
// everything downstream (direct execution or a sandboxed bwrap chain) then
// runs under the limits without surfacectl ever touching its own rlimits.
func wrapWithRlimits(realPath string, realArgs []string, limits Limits) (string, []string) {
	shPath, err := exec.LookPath("sh")
	if err != nil {
		shPath = "/bin/sh"
	}

	cpuSecs := ceilDiv(limits.CPUTimeMs, 1000)
	fsizeBlocks := limits.FileSizeKB * 2 // ulimit -f counts 512-byte blocks; 1 KB = 2 blocks

	args := []string{
		"-c", shWrapScript, "sh",
		strconv.FormatInt(cpuSecs, 10),
		strconv.FormatInt(fsizeBlocks, 10),
		strconv.Itoa(maxOpenFiles),
		strconv.FormatInt(limits.MemoryKB, 10),
		realPath,
	}
	args = append(args, realArgs...)
	return shPath, args
}

func ceilDiv(ms, per int64) int64 {
	if ms <= 0 {
		return 0
	}
	return (ms + per - 1) / per
}
