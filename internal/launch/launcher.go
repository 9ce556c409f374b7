package launch

//go:generate mockgen -source=launcher.go -destination=mocks/mock_launch.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	fsutil "github.com/kk-code-lab/pluck/internal/fs"
)

// Outcome is the terminal state of one activation.
type Outcome int

const (
	Opened Outcome = iota
	FellBackToReveal
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Opened:
		return "opened"
	case FellBackToReveal:
		return "revealed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result carries the outcome and, unless the file opened, the error that
// caused the fallback or failure.
type Result struct {
	Outcome Outcome
	Path    string
	Err     error
}

// Launcher opens a selected path on the desktop.
type Launcher interface {
	Launch(ctx context.Context, path string) Result
}

// Revealer shows a file selected in the desktop file manager.
type Revealer interface {
	Reveal(ctx context.Context, path string) error
}

// ErrNoOpener is returned when no default-handler command is installed.
var ErrNoOpener = errors.New("no opener command available")

var commandBuilder = exec.CommandContext

// DesktopLauncher opens files with the platform's default handler and falls
// back to revealing them in the file manager.
type DesktopLauncher struct {
	goos     string
	lookPath func(string) (string, error)
	revealer Revealer
	logger   zerolog.Logger
}

// NewDesktopLauncher returns a launcher for the running platform.
func NewDesktopLauncher(logger zerolog.Logger) *DesktopLauncher {
	l := &DesktopLauncher{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		logger:   logger,
	}
	if usesFreedesktop(l.goos) {
		l.revealer = NewDBusRevealer()
	}
	return l
}

// Launch makes a single attempt to open path, then a single attempt to
// reveal it. It never retries.
func (l *DesktopLauncher) Launch(ctx context.Context, path string) Result {
	target := fsutil.Resolve(path)

	openErr := l.open(ctx, target)
	if openErr == nil {
		l.logger.Debug().Str("path", target).Msg("opened with default handler")
		return Result{Outcome: Opened, Path: target}
	}
	l.logger.Warn().Err(openErr).Str("path", target).Msg("open failed, revealing instead")

	revealErr := l.reveal(ctx, target)
	if revealErr == nil {
		return Result{Outcome: FellBackToReveal, Path: target, Err: openErr}
	}

	err := errors.Join(openErr, revealErr)
	l.logger.Warn().Err(err).Str("path", target).Msg("reveal failed")
	return Result{Outcome: Failed, Path: target, Err: err}
}

func (l *DesktopLauncher) open(ctx context.Context, target string) error {
	argv, err := openCommand(l.goos, l.lookPath, target)
	if err != nil {
		return err
	}
	return run(ctx, argv)
}

func (l *DesktopLauncher) reveal(ctx context.Context, target string) error {
	var busErr error
	if l.revealer != nil {
		busErr = l.revealer.Reveal(ctx, target)
		if busErr == nil {
			return nil
		}
		l.logger.Debug().Err(busErr).Msg("file manager reveal over D-Bus failed")
	}

	argv, err := revealCommand(l.goos, l.lookPath, target)
	if err != nil {
		return errors.Join(busErr, err)
	}
	if err := run(ctx, argv); err != nil {
		return errors.Join(busErr, err)
	}
	return nil
}

func run(ctx context.Context, argv []string) error {
	cmd := commandBuilder(ctx, argv[0], argv[1:]...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(argv[0]), err)
	}
	return nil
}

func openCommand(goos string, lookPath func(string) (string, error), target string) ([]string, error) {
	switch {
	case strings.EqualFold(goos, "windows"):
		return resolveArgv(lookPath, []string{"rundll32", "url.dll,FileProtocolHandler", target})
	case strings.EqualFold(goos, "darwin"):
		return resolveArgv(lookPath, []string{"open", target})
	}

	for _, candidate := range [][]string{
		{"xdg-open", target},
		{"gio", "open", target},
	} {
		if argv, err := resolveArgv(lookPath, candidate); err == nil {
			return argv, nil
		}
	}
	return nil, ErrNoOpener
}

func revealCommand(goos string, lookPath func(string) (string, error), target string) ([]string, error) {
	switch {
	case strings.EqualFold(goos, "windows"):
		return resolveArgv(lookPath, []string{"explorer", "/select," + target})
	case strings.EqualFold(goos, "darwin"):
		return resolveArgv(lookPath, []string{"open", "-R", target})
	}
	return openCommand(goos, lookPath, fsutil.ContainingDir(target))
}

func resolveArgv(lookPath func(string) (string, error), argv []string) ([]string, error) {
	resolved, err := lookPath(argv[0])
	if err != nil || resolved == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoOpener, argv[0])
	}
	out := append([]string{resolved}, argv[1:]...)
	return out, nil
}

func usesFreedesktop(goos string) bool {
	switch strings.ToLower(goos) {
	case "windows", "darwin", "ios", "android", "plan9":
		return false
	}
	return true
}
