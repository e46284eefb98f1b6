package player

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// CommandBackend plays clips with an external program
type CommandBackend struct {
	// Command is the program and its leading arguments, for example
	// "mpg123 -q". The clip path is appended. Empty selects a player
	// installed on the system.
	Command string
}

// Start launches the player program for path
func (b CommandBackend) Start(path string) (Playback, error) {
	cmd, err := b.command(path)
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", cmd.Path, err)
	}
	return &commandPlayback{cmd: cmd}, nil
}

func (b CommandBackend) command(path string) (*exec.Cmd, error) {
	if fields := strings.Fields(b.Command); len(fields) > 0 {
		args := append(fields[1:], path)
		return exec.Command(fields[0], args...), nil
	}

	switch runtime.GOOS {
	case "darwin":
		return exec.Command("afplay", path), nil
	case "linux", "freebsd", "openbsd":
		// mpg123 first since it handles MP3 files best
		for _, candidate := range [][]string{
			{"mpg123", "-q"},
			{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
			{"play", "-q"},
			{"paplay"},
			{"aplay", "-q"},
		} {
			if _, err := exec.LookPath(candidate[0]); err == nil {
				args := append(candidate[1:], path)
				return exec.Command(candidate[0], args...), nil
			}
		}
		return nil, fmt.Errorf("no audio player found. Install mpg123, ffplay, sox, paplay, or aplay")
	case "windows":
		return exec.Command("cmd", "/c", "start", "/min", path), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

type commandPlayback struct {
	cmd *exec.Cmd
}

func (c *commandPlayback) Stop() error {
	if c.cmd.Process == nil {
		return nil
	}
	if err := c.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

func (c *commandPlayback) Wait() error {
	return c.cmd.Wait()
}
