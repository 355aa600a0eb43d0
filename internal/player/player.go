// package player launches preview playback in an external program.
package player

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tuneflow/internal/shared"
)

var getRuntime = func() string { return runtime.GOOS }

// Launcher starts playback of a preview URL.
type Launcher interface {
	Start(ctx context.Context, url string) (Playback, error)
}

// Playback is a running preview.
type Playback interface {
	URL() string
	// Done is closed when playback finishes or is stopped.
	Done() <-chan struct{}
	Stop() error
}

// ExecLauncher plays previews with a configured command, falling back to the system opener.
type ExecLauncher struct {
	command  string
	args     []string
	logger   *log.Logger
	lookPath func(string) (string, error)
}

var _ Launcher = (*ExecLauncher)(nil)

// NewLauncher creates an [ExecLauncher] from the player configuration.
func NewLauncher(cfg shared.PlayerConfig, logger *log.Logger) *ExecLauncher {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ExecLauncher{command: cfg.Command, args: cfg.Args, logger: logger, lookPath: exec.LookPath}
}

// Start launches the player with url appended to its arguments.
//
// When the configured command is missing the system opener is used instead. Openers
// hand the URL off and exit, so such playbacks are detached: Done only closes on Stop.
func (l *ExecLauncher) Start(ctx context.Context, url string) (Playback, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty preview url", shared.ErrInvalidInput)
	}

	name, args, detached, err := l.resolve(url)
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start player %s: %w", name, err)
	}

	l.logger.Debug("started preview", "player", name, "url", url, "detached", detached)

	p := &process{url: url, cmd: cmd, done: make(chan struct{}), detached: detached}
	if detached {
		go cmd.Wait()
	} else {
		go p.wait()
	}
	go func() {
		select {
		case <-ctx.Done():
			p.Stop()
		case <-p.done:
		}
	}()
	return p, nil
}

// resolve picks the program and arguments used to play url.
func (l *ExecLauncher) resolve(url string) (string, []string, bool, error) {
	if l.command != "" {
		if path, err := l.lookPath(l.command); err == nil {
			return path, append(append([]string{}, l.args...), url), false, nil
		}
		l.logger.Warn("player not found, using system opener", "player", l.command)
	}

	switch rt := getRuntime(); rt {
	case "darwin":
		return "open", []string{url}, true, nil
	case "linux":
		return "xdg-open", []string{url}, true, nil
	case "windows":
		return "cmd", []string{"/c", "start", url}, true, nil
	default:
		return "", nil, false, fmt.Errorf("%w: unsupported platform: %s", shared.ErrServiceUnavailable, rt)
	}
}

type process struct {
	url      string
	cmd      *exec.Cmd
	detached bool

	once sync.Once
	done chan struct{}
}

func (p *process) URL() string           { return p.url }
func (p *process) Done() <-chan struct{} { return p.done }

func (p *process) wait() {
	p.cmd.Wait()
	p.finish()
}

func (p *process) finish() {
	p.once.Do(func() { close(p.done) })
}

// Stop kills the player and waits for it to exit.
func (p *process) Stop() error {
	if p.detached {
		p.finish()
		return nil
	}

	select {
	case <-p.done:
		return nil
	default:
	}

	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to stop player: %w", err)
	}
	<-p.done
	return nil
}
