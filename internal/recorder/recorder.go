// Package recorder implements session recording and replay: an append-only
// asciinema-v2-shaped ".cast" file of timestamped output (and optionally
// input) events, and a player that can seek and change speed without
// losing sync with the terminal parser.
package recorder

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// Header is the first line of a .cast file.
type Header struct {
	Version   int    `json:"version"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Timestamp int64  `json:"timestamp"`
	Env       EnvTag `json:"env"`
}

type EnvTag struct {
	TERM  string `json:"TERM"`
	SHELL string `json:"SHELL"`
}

// Recorder owns one open .cast file. Start creates it and writes the
// header; RecordOutput/RecordInput append events; Finish flushes and
// releases the advisory lock. All methods are safe to call from the VT
// Worker goroutine that feeds RecordOutput, and exactly once (by the pane
// owner) for Start/Finish.
type Recorder struct {
	mu       sync.Mutex
	f        *os.File
	w        *bufio.Writer
	lock     *flock.Flock
	start    time.Time
	finished bool
	path     string
	err      error
}

// Start creates <dir>/<unix_seconds>.cast, named from the current time
// (StartWithID names the file by a uuid instead), and writes its header. It
// takes an exclusive flock on "<path>.lock" until Finish, so a concurrent
// ParseCastFile refuses the file rather than read it half-written.
func Start(dir string, rows, cols int) (*Recorder, error) {
	return start(dir, fmt.Sprintf("%d.cast", time.Now().Unix()), rows, cols)
}

// StartWithID names the file <dir>/<id>.cast instead of deriving the name
// from the current time, for callers (e.g. a pane keyed by a uuid session
// id) that want a predictable path.
func StartWithID(dir string, id uuid.UUID, rows, cols int) (*Recorder, error) {
	return start(dir, id.String()+".cast", rows, cols)
}

func start(dir, filename string, rows, cols int) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("recorder: create dir: %w", err)
	}
	path := filepath.Join(dir, filename)

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("recorder: lock %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("recorder: create %s: %w", path, err)
	}

	now := time.Now()
	r := &Recorder{f: f, w: bufio.NewWriter(f), lock: lock, start: now, path: path}
	header := Header{
		Version:   2,
		Width:     cols,
		Height:    rows,
		Timestamp: now.Unix(),
		Env:       EnvTag{TERM: "xterm-256color", SHELL: shellEnv()},
	}
	if err := r.writeJSON(header); err != nil {
		r.Finish()
		return nil, err
	}
	return r, nil
}

func shellEnv() string {
	if s := os.Getenv("SHELL"); s != "" {
		return s
	}
	return "/bin/sh"
}

func (r *Recorder) writeJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := r.w.Write(b); err != nil {
		return err
	}
	return r.w.WriteByte('\n')
}

// RecordOutput appends an "o" event for a chunk of child output. Errors are
// not returned (satisfying vt.Worker's Recorder interface); on I/O failure
// the caller should drop the recorder, log a warning, and keep the
// terminal running — Err reports the failure so the caller can decide to
// do that.
func (r *Recorder) RecordOutput(data []byte) { r.record("o", data) }

// RecordInput appends an "i" event for a chunk of user keystrokes/paste.
func (r *Recorder) RecordInput(data []byte) { r.record("i", data) }

func (r *Recorder) record(kind string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished || r.err != nil {
		return
	}
	elapsed := time.Since(r.start).Seconds()
	event := []any{elapsed, kind, string(data)}
	if err := r.writeJSON(event); err != nil {
		r.err = err
	}
}

// Err returns the first write error encountered, if any. Once set, further
// record calls become no-ops.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Finish flushes buffered writes, closes the file, and releases the lock.
// It is idempotent and safe to call from a defer/Drop path.
func (r *Recorder) Finish() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished {
		return nil
	}
	r.finished = true
	var err error
	if r.w != nil {
		err = r.w.Flush()
	}
	if r.f != nil {
		if cerr := r.f.Close(); err == nil {
			err = cerr
		}
	}
	if r.lock != nil {
		r.lock.Unlock()
	}
	return err
}

// Path returns the recording file's path.
func (r *Recorder) Path() string { return r.path }

// SizeHuman reports the recording file's current size in a human-readable
// form ("1.2 MB"), for a status line showing recording progress.
func (r *Recorder) SizeHuman() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w != nil {
		r.w.Flush()
	}
	info, err := os.Stat(r.path)
	if err != nil {
		return "0 B"
	}
	return humanize.Bytes(uint64(info.Size()))
}

// Age reports how long ago recording started, in human-readable form
// ("3 minutes"), for the same status line.
func (r *Recorder) Age() string {
	return humanize.Time(r.start)
}
