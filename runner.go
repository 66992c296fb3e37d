package dynamodblocal

import (
	"os"
	"os/exec"
	"syscall"
)

// ProcessHandle is the live reference to a spawned emulator process
type ProcessHandle interface {
	// PID returns the operating system process ID
	PID() int

	// Signal delivers a signal to the process
	Signal(sig os.Signal) error

	// Wait blocks until the process exits and returns its exit error, or
	// nil for a zero exit code. Wait must be called at most once.
	Wait() error
}

// ProcessRunner spawns emulator processes. All spawning goes through this
// interface so tests can substitute a fake without touching os/exec.
type ProcessRunner interface {
	// Start spawns name with args and returns a handle to the running
	// process. The process inherits the caller's environment.
	Start(name string, args []string) (ProcessHandle, error)
}

// execRunner is the default ProcessRunner backed by os/exec with
// inherited standard streams
type execRunner struct{}

func (execRunner) Start(name string, args []string) (ProcessHandle, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execHandle{cmd: cmd}, nil
}

// execHandle wraps a started exec.Cmd
type execHandle struct {
	cmd *exec.Cmd
}

func (h *execHandle) PID() int {
	return h.cmd.Process.Pid
}

func (h *execHandle) Signal(sig os.Signal) error {
	return h.cmd.Process.Signal(sig)
}

func (h *execHandle) Wait() error {
	return h.cmd.Wait()
}

// gracefulSignal is the signal Stop sends; SIGTERM lets the JVM run its
// shutdown hooks
var gracefulSignal os.Signal = syscall.SIGTERM
