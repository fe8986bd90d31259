package runner

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"

	"github.com/sirupsen/logrus"
)

// Runner executes an external command on the build host. Commands are passed
// as full shell lines; callers are responsible for quoting arguments (see
// shellescape) before assembling the line.
type Runner interface {
	Command(cmd string) error
	CommandWithOutput(cmd string) (string, error)
}

// LocalRunner runs commands through the local shell. All git and container
// tool invocations of the build pipeline go through here so that tests can
// substitute a mock.
type LocalRunner struct{}

func NewLocalRunner() *LocalRunner {
	return &LocalRunner{}
}

func (r *LocalRunner) Command(cmd string) error {
	logrus.Infof("[local]: %s", cmd)
	command := exec.Command("/bin/sh", "-c", cmd)
	command.Stdout = os.Stdout
	command.Stderr = os.Stderr
	if err := command.Run(); err != nil {
		return fmt.Errorf("failed to execute command: %s", cmd)
	}
	return nil
}

func (r *LocalRunner) CommandWithOutput(cmd string) (string, error) {
	var stdout, stderr bytes.Buffer
	command := exec.Command("/bin/sh", "-c", cmd)
	command.Stdout = &stdout
	command.Stderr = &stderr
	if err := command.Run(); err != nil {
		return "", fmt.Errorf("%w, %s", err, stderr.String())
	}
	return stdout.String(), nil
}
