package player

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"github.com/desertthunder/tuneflow/internal/shared"
)

func newTestLauncher(command string, args ...string) *ExecLauncher {
	return NewLauncher(shared.PlayerConfig{Command: command, Args: args}, shared.NewLogger(&bytes.Buffer{}))
}

func TestResolve(t *testing.T) {
	original := getRuntime
	defer func() { getRuntime = original }()

	t.Run("configured command", func(t *testing.T) {
		l := newTestLauncher("mpv", "--no-video")
		l.lookPath = func(name string) (string, error) { return "/usr/bin/" + name, nil }

		name, args, detached, err := l.resolve("https://audio.test/a.m4a")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if name != "/usr/bin/mpv" || detached {
			t.Errorf("unexpected player %s detached=%v", name, detached)
		}
		if len(args) != 2 || args[0] != "--no-video" || args[1] != "https://audio.test/a.m4a" {
			t.Errorf("unexpected args %v", args)
		}
		if len(l.args) != 1 {
			t.Error("configured args must not be modified")
		}
	})

	tests := []struct {
		platform string
		want     string
		wantErr  bool
	}{
		{"darwin", "open", false},
		{"linux", "xdg-open", false},
		{"windows", "cmd", false},
		{"plan9", "", true},
	}

	for _, tt := range tests {
		t.Run("fallback on "+tt.platform, func(t *testing.T) {
			getRuntime = func() string { return tt.platform }
			l := newTestLauncher("missing-player")
			l.lookPath = func(string) (string, error) { return "", exec.ErrNotFound }

			name, args, detached, err := l.resolve("u")
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if name != tt.want || !detached || args[len(args)-1] != "u" {
				t.Errorf("unexpected fallback %s %v detached=%v", name, args, detached)
			}
		})
	}
}

func TestStart(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}

	t.Run("empty url", func(t *testing.T) {
		l := newTestLauncher("sh")
		if _, err := l.Start(context.Background(), ""); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("process exit closes done", func(t *testing.T) {
		l := newTestLauncher("sh", "-c", "exit 0")
		p, err := l.Start(context.Background(), "https://audio.test/a.m4a")
		if err != nil {
			t.Fatalf("failed to start: %v", err)
		}
		if p.URL() != "https://audio.test/a.m4a" {
			t.Errorf("unexpected url %s", p.URL())
		}

		select {
		case <-p.Done():
		case <-time.After(5 * time.Second):
			t.Fatal("playback did not finish")
		}
	})

	t.Run("stop kills the player", func(t *testing.T) {
		l := newTestLauncher("sh", "-c", "sleep 30")
		p, err := l.Start(context.Background(), "u")
		if err != nil {
			t.Fatalf("failed to start: %v", err)
		}

		if err := p.Stop(); err != nil {
			t.Errorf("failed to stop: %v", err)
		}
		select {
		case <-p.Done():
		default:
			t.Error("expected done after stop")
		}
		if err := p.Stop(); err != nil {
			t.Errorf("second stop should be a no-op: %v", err)
		}
	})

	t.Run("context cancel stops the player", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		l := newTestLauncher("sh", "-c", "sleep 30")
		p, err := l.Start(ctx, "u")
		if err != nil {
			t.Fatalf("failed to start: %v", err)
		}

		cancel()
		select {
		case <-p.Done():
		case <-time.After(5 * time.Second):
			t.Fatal("playback survived context cancellation")
		}
	})
}
