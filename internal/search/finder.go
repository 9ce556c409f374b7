package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
)

// ErrFinderUnavailable is returned when the external search tools cannot be started.
var ErrFinderUnavailable = errors.New("finder unavailable")

const (
	DefaultFdCommand  = "fd"
	DefaultFzfCommand = "fzf"
)

// commandBuilder is swapped in tests to capture argument vectors.
var commandBuilder = exec.CommandContext

// Finder streams ranked candidate paths for a query, one per line.
type Finder interface {
	Find(ctx context.Context, query string) (io.ReadCloser, error)
}

// CommandFinder lists files with fd and ranks them with fzf's filter mode.
// Neither stage goes through a shell: root and query each travel as a single
// argv element.
type CommandFinder struct {
	Root       string
	FdCommand  string
	FzfCommand string
}

// NewCommandFinder returns a finder scoped to root. Empty command names fall
// back to fd and fzf on PATH.
func NewCommandFinder(root, fdCommand, fzfCommand string) *CommandFinder {
	return &CommandFinder{
		Root:       root,
		FdCommand:  fdCommand,
		FzfCommand: fzfCommand,
	}
}

// BuildArgs returns the argument vectors for the listing and ranking stages.
func BuildArgs(root, query string) (fdArgs []string, fzfArgs []string) {
	if root == "" {
		root = "."
	}
	fdArgs = []string{"--type", "f", "--hidden", "--color", "never", "--", ".", root}
	fzfArgs = []string{"--filter=" + query}
	return fdArgs, fzfArgs
}

func (f *CommandFinder) fdCommand() string {
	if f.FdCommand == "" {
		return DefaultFdCommand
	}
	return f.FdCommand
}

func (f *CommandFinder) fzfCommand() string {
	if f.FzfCommand == "" {
		return DefaultFzfCommand
	}
	return f.FzfCommand
}

// Find starts `fd … | fzf --filter=query` and returns fzf's stdout.
// Closing the stream terminates both processes.
func (f *CommandFinder) Find(ctx context.Context, query string) (io.ReadCloser, error) {
	fdArgs, fzfArgs := BuildArgs(f.Root, query)
	ctx, cancel := context.WithCancel(ctx)

	pipeReader, pipeWriter, err := os.Pipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create pipe: %w", err)
	}

	lister := commandBuilder(ctx, f.fdCommand(), fdArgs...)
	lister.Stdout = pipeWriter
	if err := lister.Start(); err != nil {
		_ = pipeReader.Close()
		_ = pipeWriter.Close()
		cancel()
		return nil, fmt.Errorf("%w: start %s: %v", ErrFinderUnavailable, f.fdCommand(), err)
	}
	_ = pipeWriter.Close()

	ranker := commandBuilder(ctx, f.fzfCommand(), fzfArgs...)
	ranker.Stdin = pipeReader
	out, err := ranker.StdoutPipe()
	if err == nil {
		err = ranker.Start()
	}
	_ = pipeReader.Close()
	if err != nil {
		cancel()
		_ = lister.Wait()
		return nil, fmt.Errorf("%w: start %s: %v", ErrFinderUnavailable, f.fzfCommand(), err)
	}

	return &pipelineStream{
		ReadCloser: out,
		cancel:     cancel,
		procs:      []*exec.Cmd{ranker, lister},
	}, nil
}

type pipelineStream struct {
	io.ReadCloser
	cancel context.CancelFunc
	procs  []*exec.Cmd
	once   sync.Once
}

// Close kills whatever is still running and reaps both processes. Exit
// statuses are ignored: fzf exits non-zero when nothing matches, and a
// cancelled pipeline is killed on purpose.
func (s *pipelineStream) Close() error {
	s.once.Do(func() {
		s.cancel()
		for _, proc := range s.procs {
			_ = proc.Wait()
		}
	})
	return nil
}

// CheckTools reports which pipeline stages cannot be found on PATH.
func (f *CommandFinder) CheckTools(lookPath func(string) (string, error)) error {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	var missing []error
	for _, name := range []string{f.fdCommand(), f.fzfCommand()} {
		if _, err := lookPath(name); err != nil {
			missing = append(missing, fmt.Errorf("%s not found", name))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrFinderUnavailable, errors.Join(missing...))
}
