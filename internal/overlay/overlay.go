// Package overlay is the interactive session loop: it owns the real
// terminal's raw mode, wires one pane's PTY handle, VT Worker, and Grid
// together, turns host key bytes into wire bytes via internal/input, and
// drives internal/render to repaint the host screen. It is the glue layer
// above the core components, not a core component itself.
package overlay

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"vtcore/internal/config"
	"vtcore/internal/copymode"
	"vtcore/internal/grid"
	"vtcore/internal/input"
	"vtcore/internal/panetree"
	"vtcore/internal/pty"
	"vtcore/internal/recorder"
	"vtcore/internal/render"
	"vtcore/internal/telemetry"
	"vtcore/internal/vt"
)

// Pane bundles one pty/grid/worker triple and satisfies panetree.Terminal so
// a Session's tree can track liveness without depending on this package.
type Pane struct {
	ID     uuid.UUID
	PTY    *pty.Handle
	Grid   *grid.Grid
	Worker *vt.Worker
	Rec    *recorder.Recorder
	eg     *errgroup.Group
}

// HasExited satisfies panetree.Terminal.
func (p *Pane) HasExited() bool { return p.PTY.HasExited() }

// Close stops the pane's worker, tears down the PTY, finishes any in-flight
// recording, and waits for the reader/worker goroutines this pane's
// errgroup.Group is supervising.
func (p *Pane) Close() error {
	p.Worker.Stop()
	err := p.PTY.Close()
	if p.eg != nil {
		p.eg.Wait()
	}
	if p.Rec != nil {
		p.Rec.Finish()
	}
	return err
}

// Session owns the host terminal and one tab's worth of panes (a tab is a
// panetree.Tree of panes).
type Session struct {
	cfg config.Settings
	log *telemetry.Logger

	tree *panetree.Tab

	encoders map[uuid.UUID]*input.Encoder
	copy     *copymode.State
	search   *copymode.Search

	pipeline *render.Pipeline
	out      io.Writer
	profile  termenv.Profile

	record    bool
	recordDir string

	restore *term.State
	rows    int
	cols    int

	prefixPending bool
}

// New builds a Session that will write host output to out (normally
// os.Stdout) using cfg for scrollback/shell defaults.
func New(cfg config.Settings, log *telemetry.Logger, out io.Writer) *Session {
	if log == nil {
		log = telemetry.Nop()
	}
	return &Session{
		cfg:      cfg,
		log:      log,
		encoders: make(map[uuid.UUID]*input.Encoder),
		pipeline: render.New(render.DefaultTheme),
		out:      out,
		profile:  termenv.ColorProfile(),
	}
}

// EnableRecording turns on session recording for every pane opened after
// this call, writing .cast files under dir (config.RecordingsDir() if dir
// is empty).
func (s *Session) EnableRecording(dir string) {
	s.record = true
	if dir == "" {
		dir = config.RecordingsDir()
	}
	s.recordDir = dir
}

// Run takes the host terminal into raw mode, spawns command as the first
// pane, and drives the read/render loop until the child exits or the user
// quits. It is only valid to call when os.Stdin/os.Stdout are a real TTY;
// callers should gate on pty.IsInteractive first.
func (s *Session) Run(command string, args []string) error {
	fd := int(os.Stdin.Fd())
	cols, rows, err := term.GetSize(fd)
	if err != nil {
		return fmt.Errorf("overlay: get terminal size: %w", err)
	}
	s.rows, s.cols = rows, cols

	pane, err := s.newPane(command, args, rows, cols)
	if err != nil {
		return err
	}
	s.tree = panetree.NewTree(pane)
	s.copy = copymode.New(pane.Grid)
	s.search = copymode.NewSearch(pane.Grid)

	restore, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("overlay: set raw mode: %w", err)
	}
	s.restore = restore
	defer func() {
		term.Restore(fd, s.restore)
		io.WriteString(s.out, "\x1b[?25h\x1b[0m\r\n")
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)
	defer signal.Stop(sigCh)
	go s.watchResize(sigCh)

	stopRender := make(chan struct{})
	go s.renderLoop(stopRender)
	defer close(stopRender)

	io.WriteString(s.out, "\x1b[2J\x1b[H")
	s.paint()

	go s.readInput()

	return pane.PTY.Wait()
}

func (s *Session) activePane() *Pane {
	if s.tree == nil {
		return nil
	}
	t, ok := s.tree.FindTerminal(s.tree.ActivePane)
	if !ok {
		return nil
	}
	return t.(*Pane)
}

func (s *Session) newPane(command string, args []string, rows, cols int) (*Pane, error) {
	var h *pty.Handle
	var err error
	if command == "" {
		h, err = pty.Spawn(rows, cols, "", s.cfg.Shell, s.log)
	} else {
		h, err = pty.SpawnCommand(rows, cols, "", command, args, s.log)
	}
	if err != nil {
		return nil, err
	}

	g := grid.New(rows, cols, s.cfg.ScrollbackLines)
	w := vt.New(h, g, s.log)

	id := uuid.New()
	pane := &Pane{ID: id, PTY: h, Grid: g, Worker: w}

	if s.record {
		rec, err := recorder.StartWithID(s.recordDir, id, rows, cols)
		if err != nil {
			s.log.Warn("overlay", "record", "failed to start recorder", map[string]any{"error": err.Error()})
		} else {
			pane.Rec = rec
			w.SetRecorder(rec)
		}
	}

	eg := &errgroup.Group{}
	w.RunGroup(eg)
	h.WaitGroup(eg)
	pane.eg = eg

	s.encoders[id] = input.New(g)
	return pane, nil
}

// watchResize updates the active pane (and, via the session's own stdout
// size) on SIGWINCH.
func (s *Session) watchResize(sigCh <-chan os.Signal) {
	for range sigCh {
		cols, rows, err := term.GetSize(int(os.Stdin.Fd()))
		if err != nil || rows < 1 || cols < 1 {
			continue
		}
		s.rows, s.cols = rows, cols
		if p := s.activePane(); p != nil {
			p.Grid.Resize(rows, cols)
			p.PTY.Resize(rows, cols, 0, 0)
			p.Worker.ConsumeRenderFlag() // drain any stale flag before the resize repaint
		}
		io.WriteString(s.out, "\x1b[2J")
	}
}

// renderLoop repaints the host screen whenever the active pane's worker
// reports a frame is due, at a fixed poll interval well under a human's
// perceptible latency but coarser than vt.MinFrameInterval so the poll
// itself isn't the bottleneck.
func (s *Session) renderLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(8 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p := s.activePane()
			if p == nil {
				continue
			}
			if p.Worker.ConsumeRenderFlag() {
				s.paint()
			}
		}
	}
}

func (s *Session) paint() {
	p := s.activePane()
	if p == nil {
		return
	}
	var in render.Input
	if s.search != nil && len(s.search.Matches) > 0 {
		in.Matches = make([]render.SearchMatch, len(s.search.Matches))
		for i, m := range s.search.Matches {
			in.Matches[i] = render.SearchMatch{Row: m.Row, StartCol: m.StartCol, EndCol: m.EndCol}
		}
		in.CurrentMatch = s.search.Current
	}
	frame := s.pipeline.Build(p.Grid, in)
	s.drawFrame(frame)
}
