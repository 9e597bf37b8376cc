// Package pty spawns a child shell attached to a pseudo-terminal, supervises
// its lifetime, and exposes non-blocking read/write plus best-effort process
// introspection. It is the PTY Session Manager of the terminal core (the
// "A" component): every other component talks to a child process only
// through a *Handle.
package pty

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/creack/pty"
	goerrors "github.com/go-errors/errors"
	"golang.org/x/sync/errgroup"

	"vtcore/internal/telemetry"
)

// readBufSize bounds a single read off the PTY master, per spec §4.A.
const readBufSize = 64 * 1024

// ErrBrokenPipe is returned by Write once the child side of the PTY has
// gone away.
var ErrBrokenPipe = fmt.Errorf("pty: broken pipe")

// Handle owns a child process's PTY master, its reader goroutine, and its
// lifecycle state. The zero value is not usable; construct with Spawn or
// SpawnCommand.
type Handle struct {
	Ptm *os.File
	Cmd *exec.Cmd

	log *telemetry.Logger

	output     chan []byte
	outputOnce sync.Once

	exited   atomic.Bool
	exitCode atomic.Int32 // sentinel: unknownExitCode until set
	mu       sync.Mutex
	exitErr  error

	readerDone chan struct{}
}

const unknownExitCode = int32(-1 << 30)

// Spawn opens a PTY, resolves the shell, and starts it with TERM set for
// 256-color support. workingDir may be empty (inherit the caller's cwd).
func Spawn(rows, cols int, workingDir string, shellOverride string, log *telemetry.Logger) (*Handle, error) {
	command, args := ResolveShell(shellOverride)
	return SpawnCommand(rows, cols, workingDir, command, args, log)
}

// SpawnCommand starts an explicit program in a PTY (used e.g. to open a
// system utility like `less` or `man` in a pane instead of a shell).
func SpawnCommand(rows, cols int, workingDir, command string, args []string, log *telemetry.Logger) (*Handle, error) {
	if log == nil {
		log = telemetry.Nop()
	}
	cmd := exec.Command(command, args...)
	cmd.Dir = workingDir
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	ptm, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		wrapped := goerrors.Wrap(err, 0)
		log.Error("pty", "spawn", "start command failed", map[string]any{
			"command": command, "args": args, "trace": wrapped.ErrorStack(),
		})
		return nil, fmt.Errorf("spawn %q: %w", command, err)
	}

	h := &Handle{
		Ptm:        ptm,
		Cmd:        cmd,
		log:        log,
		output:     make(chan []byte, 64),
		readerDone: make(chan struct{}),
	}
	h.exitCode.Store(unknownExitCode)
	go h.readLoop()
	log.Info("pty", "spawn", "started child", map[string]any{"command": command, "pid": cmd.Process.Pid})
	return h, nil
}

// readLoop is the dedicated reader thread described in spec §5: it blocks in
// read() and pushes fixed-size buffers onto the output channel until EOF or
// error, then marks the handle exited.
func (h *Handle) readLoop() {
	defer close(h.readerDone)
	defer close(h.output)
	buf := make([]byte, readBufSize)
	for {
		n, err := h.Ptm.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case h.output <- chunk:
			default:
				// Consumer (VT Worker) is behind; block briefly rather than
				// drop bytes — correctness over throughput.
				h.output <- chunk
			}
		}
		if err != nil {
			h.markExited(err)
			return
		}
	}
}

func (h *Handle) markExited(readErr error) {
	// Report exited only once the exit code below has been stored.
	defer h.exited.Store(true)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.exitErr != nil {
		return
	}
	if readErr != nil && readErr != io.EOF {
		h.exitErr = readErr
	}
	if state := h.Cmd.ProcessState; state != nil {
		h.exitCode.Store(int32(state.ExitCode()))
	} else if err := h.Cmd.Wait(); err == nil {
		if h.Cmd.ProcessState != nil {
			h.exitCode.Store(int32(h.Cmd.ProcessState.ExitCode()))
		}
	} else {
		h.exitErr = err
		if h.Cmd.ProcessState != nil {
			h.exitCode.Store(int32(h.Cmd.ProcessState.ExitCode()))
		}
	}
}

// TakeOutputReceiver transfers ownership of the read side to the caller
// (normally the VT Worker). It is one-shot: a second call returns nil.
func (h *Handle) TakeOutputReceiver() <-chan []byte {
	var ch chan []byte
	h.outputOnce.Do(func() { ch = h.output })
	return ch
}

// Write sends bytes to the child. It may block briefly on the kernel PTY
// buffer; callers that need a hard deadline should use WriteTimeout.
func (h *Handle) Write(p []byte) (int, error) {
	n, err := h.Ptm.Write(p)
	if err != nil {
		return n, fmt.Errorf("%w: %v", ErrBrokenPipe, err)
	}
	return n, nil
}

// WriteTimeout writes to the child PTY with a deadline. If the child is not
// reading stdin, the kernel buffer fills and Write blocks indefinitely; this
// runs the write on a goroutine so the caller can give up and, e.g., treat
// the child as hung.
func (h *Handle) WriteTimeout(p []byte, timeout time.Duration) (int, error) {
	type result struct {
		n   int
		err error
	}
	ch := make(chan result, 1)
	go func() {
		n, err := h.Write(p)
		ch <- result{n, err}
	}()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case r := <-ch:
		return r.n, r.err
	case <-timer.C:
		return 0, fmt.Errorf("pty: write timed out after %s", timeout)
	}
}

// Resize updates the PTY window size. pixelW/pixelH are forwarded for
// clients (e.g. image protocols) that need cell pixel dimensions; a zero
// value is fine and means "unknown".
func (h *Handle) Resize(rows, cols, pixelW, pixelH int) error {
	err := pty.Setsize(h.Ptm, &pty.Winsize{
		Rows: uint16(rows), Cols: uint16(cols),
		X: uint16(pixelW), Y: uint16(pixelH),
	})
	if err != nil {
		h.log.Warn("pty", "resize", "setsize failed", map[string]any{
			"rows": rows, "cols": cols, "error": err.Error(),
		})
	}
	return err
}

// HasExited reports whether the reader thread has observed EOF or an error.
func (h *Handle) HasExited() bool {
	return h.exited.Load()
}

// ExitCode returns the child's exit code and whether it is known yet.
func (h *Handle) ExitCode() (int, bool) {
	v := h.exitCode.Load()
	if v == unknownExitCode {
		return 0, false
	}
	return int(v), true
}

// ExitError returns the error that ended the PTY read loop, if any
// (distinct from a clean exit, which has no error).
func (h *Handle) ExitError() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.exitErr
}

// Wait blocks until the reader goroutine has observed the child's exit and
// returns the same error ExitError would. It's the join point a caller
// folds into an errgroup.Group alongside the pane's vt.Worker.
func (h *Handle) Wait() error {
	<-h.readerDone
	return h.ExitError()
}

// WaitGroup enqueues Wait inside eg, so a pane's PTY reader and its VT
// Worker shut down through one coordinated errgroup.Group instead of two
// independently-leaking goroutines.
func (h *Handle) WaitGroup(eg *errgroup.Group) {
	eg.Go(h.Wait)
}

// Kill sends SIGKILL to the child process. ESRCH (already dead) is ignored.
func (h *Handle) Kill() {
	if h.Cmd == nil || h.Cmd.Process == nil {
		return
	}
	_ = h.Cmd.Process.Kill()
}

// Close tears the PTY down: it marks the handle exited, kills the child,
// waits for the reader goroutine to observe EOF, and reaps the process so it
// never becomes a zombie. Safe to call more than once.
func (h *Handle) Close() error {
	h.Kill()
	closeErr := h.Ptm.Close()
	<-h.readerDone
	return closeErr
}
