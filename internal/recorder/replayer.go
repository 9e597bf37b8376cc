package recorder

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/gofrs/flock"
)

// Event is one parsed line of a .cast file's body: a timestamp (seconds
// since the recording started), a kind ("o" or "i"), and its payload.
type Event struct {
	Timestamp float64
	Kind      string
	Data      []byte
}

// Replay is a parsed recording plus a playback cursor: a virtual clock
// (Position) that advances at Speed, a running index into Events, and
// play/pause state.
type Replay struct {
	Header Header
	Events []Event // only "o" events are kept for playback

	CurrentIndex int
	Speed        float64
	Playing      bool
	Position     float64

	totalDuration float64
}

// TotalDuration is the timestamp of the last kept event, i.e. the full
// recording length in virtual seconds.
func (r *Replay) TotalDuration() float64 { return r.totalDuration }

const (
	MinSpeed = 0.25
	MaxSpeed = 8.0
)

// ParseCastFile reads a .cast file: the first non-empty line is the header
// (must contain numeric width/height), subsequent lines are JSON arrays of
// at least 3 elements; only "o"-kind events are kept. Malformed
// lines, blank lines, and unknown header fields are tolerated rather than
// treated as parse errors — only a missing/non-numeric width or height
// fails the whole parse.
func ParseCastFile(path string) (*Replay, error) {
	lock := flock.New(path + ".lock")
	locked, err := lock.TryRLock()
	if err == nil && locked {
		defer lock.Unlock()
	} else if err == nil {
		return nil, fmt.Errorf("recorder: %s is still being recorded", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("recorder: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var header Header
	headerSeen := false
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := json.Unmarshal(line, &header); err != nil || header.Width == 0 || header.Height == 0 {
			return nil, fmt.Errorf("recorder: %s: invalid or missing header", path)
		}
		headerSeen = true
		break
	}
	if !headerSeen {
		return nil, fmt.Errorf("recorder: %s: empty file", path)
	}

	var events []Event
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var raw []json.RawMessage
		if err := json.Unmarshal(line, &raw); err != nil || len(raw) < 3 {
			continue
		}
		var ts float64
		var kind, data string
		if err := json.Unmarshal(raw[0], &ts); err != nil {
			continue
		}
		if err := json.Unmarshal(raw[1], &kind); err != nil {
			continue
		}
		if kind != "o" {
			continue
		}
		if err := json.Unmarshal(raw[2], &data); err != nil {
			continue
		}
		events = append(events, Event{Timestamp: ts, Kind: kind, Data: []byte(data)})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("recorder: %s: %w", path, err)
	}

	total := 0.0
	if len(events) > 0 {
		total = events[len(events)-1].Timestamp
	}
	r := &Replay{Header: header, Events: events, Speed: 1.0}
	r.totalDuration = total
	return r, nil
}

// TogglePlay flips Playing.
func (r *Replay) TogglePlay() { r.Playing = !r.Playing }

// SpeedUp, SpeedDown double/halve Speed within [MinSpeed, MaxSpeed].
func (r *Replay) SpeedUp()   { r.setSpeed(r.Speed * 2) }
func (r *Replay) SpeedDown() { r.setSpeed(r.Speed / 2) }

func (r *Replay) setSpeed(s float64) {
	if s < MinSpeed {
		s = MinSpeed
	}
	if s > MaxSpeed {
		s = MaxSpeed
	}
	r.Speed = s
}

// Advance moves the virtual clock forward by a wall-clock delta scaled by
// Speed, and returns every event whose
// timestamp has now been crossed, in order, for the caller to feed to a
// fresh parser. dirty reports whether any bytes were fed, so the caller
// only marks a frame for repaint when playback actually produced output.
func (r *Replay) Advance(dt float64) (fed []Event, dirty bool) {
	if !r.Playing {
		return nil, false
	}
	r.Position += dt * r.Speed
	if r.Position > r.totalDuration {
		r.Position = r.totalDuration
		r.Playing = false
	}
	for r.CurrentIndex < len(r.Events) && r.Events[r.CurrentIndex].Timestamp <= r.Position {
		fed = append(fed, r.Events[r.CurrentIndex])
		r.CurrentIndex++
	}
	return fed, len(fed) > 0
}

// Seek jumps to fraction in [0,1] of the recording and moves the replay
// cursor there: CurrentIndex becomes the index of the first event whose
// timestamp is not before the new Position. Seek itself only moves the
// cursor; the caller is responsible for rebuilding a fresh Term and
// replaying r.EventsUpTo(r.CurrentIndex) into it (an idempotent rebuild that
// avoids state drift versus running the parser backward), since this package
// doesn't depend on internal/grid.
func (r *Replay) Seek(fraction float64) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	r.Position = r.totalDuration * fraction
	r.CurrentIndex = sort.Search(len(r.Events), func(i int) bool {
		return r.Events[i].Timestamp >= r.Position
	})
}

// EventsUpTo returns the event data (output bytes only) for events
// [0, idx), concatenated, for a caller rebuilding a fresh Term after Seek.
func (r *Replay) EventsUpTo(idx int) []byte {
	var out []byte
	for i := 0; i < idx && i < len(r.Events); i++ {
		out = append(out, r.Events[i].Data...)
	}
	return out
}
