package compositor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

var ErrRefusedPID = errors.New("refusing to signal this pid")

// Processes starts client programs and kills misbehaving ones
type Processes struct {
	// Display is exported to children as WAYLAND_DISPLAY when set
	Display string
	self    int
	log     *logrus.Entry
}

func NewProcesses() *Processes {
	return &Processes{
		self: os.Getpid(),
		log:  logrus.WithField("component", "processes"),
	}
}

// Child is a started command. Done yields the result of Wait once.
type Child struct {
	Cmd  *exec.Cmd
	Done <-chan error
}

// Spawn runs command through /bin/sh -c
func (p *Processes) Spawn(command string) (*Child, error) {
	if command == "" {
		return nil, errors.New("empty command")
	}
	cmd := exec.Command("/bin/sh", "-c", command)
	cmd.Env = os.Environ()
	if p.Display != "" {
		cmd.Env = append(cmd.Env, "WAYLAND_DISPLAY="+p.Display)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %q: %w", command, err)
	}
	done := make(chan error, 1)
	go func() {
		err := cmd.Wait()
		if exiterr, ok := err.(*exec.ExitError); ok {
			p.log.WithError(err).WithFields(logrus.Fields{
				"exit-code": exiterr.ExitCode(),
				"command":   command,
			}).Warningln("Bad command completion")
		}
		done <- err
	}()
	p.log.WithFields(logrus.Fields{
		"command": command,
		"pid":     cmd.Process.Pid,
	}).Infoln("Started command")
	return &Child{Cmd: cmd, Done: done}, nil
}

// Kill sends SIGKILL to pid. Init, invalid pids and the compositor itself are
// never signalled.
func (p *Processes) Kill(pid int) error {
	if pid <= 1 || pid == p.self {
		return fmt.Errorf("%w: %d", ErrRefusedPID, pid)
	}
	if err := unix.Kill(pid, unix.SIGKILL); err != nil {
		return fmt.Errorf("killing %d: %w", pid, err)
	}
	p.log.WithField("pid", pid).Infoln("Killed client")
	return nil
}
