package playback

import (
	"os/exec"
	"syscall"

	"github.com/cockroachdb/errors"

	"github.com/mizikori/airwave/internal/domain/track"
)

// Process is a running external player process.
type Process interface {
	// Wait blocks until the process exits. A nonzero exit status is
	// returned as an error.
	Wait() error
	// Terminate asks the process to exit gracefully.
	Terminate() error
	// Kill forcibly ends the process.
	Kill() error
}

// Runner launches player processes. The default implementation shells out to
// mpv; tests substitute a fake.
type Runner interface {
	Start(t track.Track) (Process, error)
}

// execRunner launches the configured player command via os/exec.
type execRunner struct {
	command   string
	extraArgs []string
}

// NewRunner creates a Runner for the given player command.
func NewRunner(command string, extraArgs []string) Runner {
	return &execRunner{command: command, extraArgs: extraArgs}
}

func (r *execRunner) Start(t track.Track) (Process, error) {
	args := []string{"--no-video", "--really-quiet", "--no-terminal"}
	args = append(args, r.extraArgs...)
	args = append(args, t.WatchURL())

	cmd := exec.Command(r.command, args...)
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "failed to launch %s", r.command)
	}
	return &execProcess{cmd: cmd}, nil
}

type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) Wait() error {
	return p.cmd.Wait()
}

func (p *execProcess) Terminate() error {
	return p.cmd.Process.Signal(syscall.SIGTERM)
}

func (p *execProcess) Kill() error {
	return p.cmd.Process.Kill()
}

// CheckPlayer verifies the player command is available, for a startup
// preflight check.
func CheckPlayer(command string) error {
	if _, err := exec.LookPath(command); err != nil {
		return errors.Wrapf(err, "player command %q not found in PATH", command)
	}
	return nil
}
