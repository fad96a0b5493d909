//go:build !windows

package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/term"

	"github.com/Camium02/gridterm"
)

// Session runs a command under a PTY and mirrors its emulated screen to the
// hosting terminal.
type Session struct {
	cmd      *exec.Cmd
	term     *gridterm.Terminal
	ptmx     *os.File
	renderer *Renderer
	logger   *slog.Logger

	stdin  *os.File
	stdout *os.File

	renderMu sync.Mutex
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the diagnostics logger for the session and the emulator.
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// WithStdio overrides the host terminal files, defaulting to os.Stdin and
// os.Stdout.
func WithStdio(in, out *os.File) SessionOption {
	return func(s *Session) {
		s.stdin = in
		s.stdout = out
	}
}

// NewSession prepares a session for the given command. The command is started
// by Run.
func NewSession(cmd *exec.Cmd, opts ...SessionOption) (*Session, error) {
	if cmd == nil {
		return nil, errors.New("cli: nil command")
	}

	s := &Session{
		cmd:    cmd,
		logger: slog.New(slog.DiscardHandler),
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.renderer = NewRenderer(s.stdout)
	return s, nil
}

// Terminal returns the emulator backing the session.
func (s *Session) Terminal() *gridterm.Terminal {
	return s.term
}

// Run starts the command and blocks until it exits or the context is
// canceled. The hosting terminal is switched to raw mode for the duration.
func (s *Session) Run(ctx context.Context) error {
	rows, cols := 24, 80
	if w, h, err := term.GetSize(int(s.stdout.Fd())); err == nil {
		cols, rows = w, h
	}

	ptmx, err := pty.StartWithSize(s.cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return err
	}
	s.ptmx = ptmx
	defer ptmx.Close()

	s.term = gridterm.New(
		gridterm.WithSize(rows, cols),
		gridterm.WithResponse(ptmx),
		gridterm.WithLogger(s.logger),
		gridterm.WithScrollback(gridterm.NewMemoryScrollback(10000)),
		gridterm.WithChange(s),
	)

	oldState, err := term.MakeRaw(int(s.stdin.Fd()))
	if err != nil {
		return err
	}
	defer func() {
		_ = term.Restore(int(s.stdin.Fd()), oldState)
	}()

	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	defer signal.Stop(winch)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.watchResize(ctx, winch)
	go func() {
		// Raw keystrokes pass straight through; the application gets the
		// same bytes the hosting terminal produced.
		_, _ = io.Copy(ptmx, s.stdin)
		cancel()
	}()

	done := make(chan error, 1)
	go func() {
		_, copyErr := io.Copy(s.term, ptmx)
		done <- copyErr
	}()

	select {
	case <-ctx.Done():
	case err = <-done:
		// pty read errors after child exit are expected
		if err != nil {
			s.logger.Debug("pty copy ended", "error", err)
			err = nil
		}
	}

	waitErr := s.cmd.Wait()
	_, _ = io.WriteString(s.stdout, "\x1b[0m\x1b[?25h\r\n")
	if err != nil {
		return err
	}
	return waitErr
}

// ContentChanged repaints the host terminal. Implements
// gridterm.ChangeProvider.
func (s *Session) ContentChanged() {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()
	if err := s.renderer.Render(s.term.Snapshot()); err != nil {
		s.logger.Warn("render failed", "error", err)
	}
}

// SizeChanged resizes the PTY to match. Implements gridterm.ChangeProvider.
func (s *Session) SizeChanged(rows, cols int) {
	if err := pty.Setsize(s.ptmx, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	}); err != nil {
		s.logger.Warn("pty resize failed", "error", err)
	}
}

func (s *Session) watchResize(ctx context.Context, winch <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-winch:
			w, h, err := term.GetSize(int(s.stdout.Fd()))
			if err != nil {
				s.logger.Warn("size query failed", "error", err)
				continue
			}
			s.renderMu.Lock()
			s.renderer.Reset()
			s.renderMu.Unlock()
			s.term.Resize(h, w)
		}
	}
}
