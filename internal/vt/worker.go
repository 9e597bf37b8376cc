// Package vt runs the dedicated goroutine that decouples CPU-bound VT/ANSI
// parsing from the render loop: it drains a pane's PTY output channel,
// applies out-of-band OSC and DEC-mode scanning, advances the grid parser,
// and throttles how often it tells the caller a new frame is worth drawing.
package vt

import (
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"vtcore/internal/grid"
	"vtcore/internal/pty"
	"vtcore/internal/telemetry"
)

// MinFrameInterval bounds how often Worker reports a render is needed, so a
// child producing output faster than the display can draw it doesn't starve
// the render loop or burn CPU composing frames nobody sees.
const MinFrameInterval = 4 * time.Millisecond

// Recorder receives a copy of every chunk of output written to the grid, in
// order, for session recording. Implemented by internal/recorder.Recorder.
type Recorder interface {
	RecordOutput(data []byte)
}

// Worker owns the read side of one pane's PTY output and feeds it to a
// Grid. It is started with Run in its own goroutine, or with RunGroup so
// the owner can join it through an errgroup.Group. Stop only asks it to exit
// after the current batch; the PTY handle's own Close unblocks the
// underlying reader regardless.
type Worker struct {
	handle *pty.Handle
	grid   *grid.Grid
	log    *telemetry.Logger

	recorder Recorder

	needsRender atomic.Bool
	stopped     atomic.Bool

	lastFrame time.Time
}

// New builds a Worker over an already-spawned PTY handle and the grid it
// should feed. Call Run exactly once, from its own goroutine.
func New(h *pty.Handle, g *grid.Grid, log *telemetry.Logger) *Worker {
	if log == nil {
		log = telemetry.Nop()
	}
	return &Worker{handle: h, grid: g, log: log}
}

// SetRecorder installs (or clears, with nil) the session recorder. Safe to
// call before Run; not safe to call concurrently with Run.
func (w *Worker) SetRecorder(r Recorder) { w.recorder = r }

// Stop asks Run to exit after its current iteration. It does not itself
// unblock a pending channel receive; closing the PTY handle does that.
func (w *Worker) Stop() { w.stopped.Store(true) }

// RunGroup starts Run inside eg instead of a fire-and-forget goroutine, so a
// caller supervising a pane's reader thread and its worker together (e.g.
// one errgroup.Group per pane) gets both join points folded into a single
// eg.Wait() instead of leaking an unjoined goroutine per pane.
func (w *Worker) RunGroup(eg *errgroup.Group) {
	eg.Go(func() error {
		w.Run()
		return nil
	})
}

// Run drains output until the channel closes (child exited) or Stop is
// called. It batches opportunistically: after the first chunk arrives, it
// drains any chunks already buffered in the channel before handing the
// combined bytes to the grid, so a shell printing a multi-KB prompt in
// several writes still produces one parse pass.
func (w *Worker) Run() {
	recv := w.handle.TakeOutputReceiver()
	if recv == nil {
		return
	}
	for {
		if w.stopped.Load() {
			return
		}
		chunk, ok := <-recv
		if !ok {
			w.grid.ApplyScan(grid.ScanResult{}) // no-op; keeps side-channel state consistent on exit
			return
		}
		batch := w.drainBatch(recv, chunk)
		w.process(batch)
	}
}

// drainBatch opportunistically collects additional chunks already sitting
// in the channel buffer (try_recv-style, never blocking) to avoid one
// grid.Write call per small PTY read when the child writes in a burst.
func (w *Worker) drainBatch(recv <-chan []byte, first []byte) []byte {
	batch := first
	for {
		select {
		case next, ok := <-recv:
			if !ok {
				return batch
			}
			batch = append(batch, next...)
		default:
			return batch
		}
	}
}

func (w *Worker) process(data []byte) {
	if w.recorder != nil {
		w.recorder.RecordOutput(data)
	}
	scanRes := grid.Scan(data)
	w.grid.ApplyScan(scanRes)
	scanModes(data, w.grid)
	if _, err := w.grid.Write(data); err != nil {
		w.log.Warn("vt", "write", "grid write failed", map[string]any{"error": err.Error()})
	}
	w.markNeedsRender()
}

// markNeedsRender sets the render-needed flag unconditionally; the
// MinFrameInterval throttle and lastFrame bookkeeping live in
// ConsumeRenderFlag.
func (w *Worker) markNeedsRender() {
	w.needsRender.Store(true)
}

// NeedsRender reports whether a frame is pending without clearing it.
func (w *Worker) NeedsRender() bool { return w.needsRender.Load() }

// ConsumeRenderFlag is how the render loop asks "should I draw a frame
// now?". It enforces MinFrameInterval: even if output arrived, this returns
// false until enough wall-clock time has passed since the last frame it
// approved, so a firehose child can't make the renderer busy-loop.
func (w *Worker) ConsumeRenderFlag() bool {
	if !w.needsRender.Load() {
		return false
	}
	if time.Since(w.lastFrame) < MinFrameInterval {
		return false
	}
	w.needsRender.Store(false)
	w.lastFrame = time.Now()
	return true
}
