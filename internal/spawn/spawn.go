// Package spawn launches detached child processes and collects their exits.
package spawn

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"syscall"
)

// exitBuffer bounds the exits held between two Reap calls.
const exitBuffer = 64

// Exit describes a child that has terminated.
type Exit struct {
	Pid  int
	Name string
	Code int
	Err  error
}

// Spawner starts children in their own session so they outlive the window
// manager's process group. A goroutine per child waits on it; Reap collects
// the results without blocking.
type Spawner struct {
	logger *slog.Logger
	exits  chan Exit
}

// New creates a spawner.
func New(logger *slog.Logger) *Spawner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Spawner{
		logger: logger,
		exits:  make(chan Exit, exitBuffer),
	}
}

// Spawn starts argv detached from the terminal and the window manager.
func (s *Spawner) Spawn(argv []string) error {
	if len(argv) == 0 || argv[0] == "" {
		return errors.New("spawn: empty command")
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn %s: %w", argv[0], err)
	}
	pid := cmd.Process.Pid
	s.logger.Debug("spawned", "command", argv[0], "pid", pid)
	go s.wait(cmd, argv[0], pid)
	return nil
}

func (s *Spawner) wait(cmd *exec.Cmd, name string, pid int) {
	err := cmd.Wait()
	exit := Exit{Pid: pid, Name: name, Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exit.Code = exitErr.ExitCode()
	}
	select {
	case s.exits <- exit:
	default:
		// Nobody is reaping; the process itself is already collected.
	}
}

// Reap returns the children that exited since the last call and logs the
// ones that failed.
func (s *Spawner) Reap() []Exit {
	var out []Exit
	for {
		select {
		case e := <-s.exits:
			if e.Err != nil {
				s.logger.Debug("child exited", "command", e.Name, "pid", e.Pid, "code", e.Code, "error", e.Err)
			}
			out = append(out, e)
		default:
			return out
		}
	}
}
