package grid

import (
	"net/url"
	"strconv"
	"strings"
)

// ProgressState is the most recent OSC 9;4 progress report from the child
// shell or an app running inside it (ConEmu/Windows Terminal progress
// protocol, also emitted by build tools under WSL and some package
// managers).
type ProgressState struct {
	Active        bool
	Indeterminate bool
	Error         bool
	Paused        bool
	Percent       int // 0-100, meaningful only when Active and !Indeterminate
}

// PromptMarker is one OSC 133 shell-integration boundary (FinalTerm/iTerm2
// "semantic prompt" protocol): A marks a new prompt, B the end of the
// prompt (start of user input), C the start of command output, D the end
// of output with an optional exit code.
type PromptMarker struct {
	Kind     byte // 'A', 'B', 'C', or 'D'
	ExitCode int
	HasExit  bool
}

// ScanResult collects everything oscscan pulled out of a byte chunk that the
// stock VT parser either ignores or does not interpret semantically. The VT
// worker runs this once per chunk before (and independent of) feeding the
// same bytes to the grid's Write.
type ScanResult struct {
	CWD       string // set if an OSC 7 "file://host/path" was seen
	HasCWD    bool
	Title     string // set if an OSC 0/1/2 title sequence was seen
	HasTitle  bool
	Progress  ProgressState
	HasProgress bool
	Prompts   []PromptMarker
}

// Scan walks data looking for OSC ("\033]...\007" or "\033]...\033\\")
// sequences carrying OSC 7, 9;4, 133, or 0/1/2, without attempting to fully
// parse the stream the way the grid's VT parser does. It is deliberately
// tolerant: a malformed or truncated OSC sequence is skipped rather than
// treated as an error, since a chunk boundary may split one in half.
func Scan(data []byte) ScanResult {
	var result ScanResult
	i := 0
	for i < len(data) {
		if data[i] != 0x1B || i+1 >= len(data) || data[i+1] != ']' {
			i++
			continue
		}
		start := i + 2
		end, next := findOSCTerminator(data, start)
		if end < 0 {
			break
		}
		body := string(data[start:end])
		applyOSCBody(&result, body)
		i = next
	}
	return result
}

// findOSCTerminator returns the index of the byte just past the OSC payload
// (exclusive) and the index to resume scanning from (past the terminator).
func findOSCTerminator(data []byte, from int) (int, int) {
	for i := from; i < len(data); i++ {
		switch data[i] {
		case 0x07:
			return i, i + 1
		case 0x1B:
			if i+1 < len(data) && data[i+1] == '\\' {
				return i, i + 2
			}
		}
	}
	return -1, -1
}

func applyOSCBody(result *ScanResult, body string) {
	kind, rest, ok := cutOSC(body)
	if !ok {
		return
	}
	switch kind {
	case "0", "1", "2":
		result.Title = rest
		result.HasTitle = true
	case "7":
		if u, err := url.Parse(rest); err == nil && u.Path != "" {
			result.CWD = u.Path
			result.HasCWD = true
		}
	case "9":
		applyProgress(result, rest)
	case "133":
		applyPromptMarker(result, rest)
	}
}

// cutOSC splits "N;rest" into (N, rest, true); a bare numeric OSC with no
// payload returns ("N", "", true).
func cutOSC(body string) (string, string, bool) {
	idx := strings.IndexByte(body, ';')
	if idx < 0 {
		return body, "", body != ""
	}
	return body[:idx], body[idx+1:], true
}

// applyProgress parses the ConEmu-style "4;state;percent" payload that
// follows "9;" in an OSC 9;4 sequence.
func applyProgress(result *ScanResult, rest string) {
	if !strings.HasPrefix(rest, "4;") {
		return
	}
	fields := strings.Split(rest[2:], ";")
	state := fields[0]
	percent := 0
	if len(fields) > 1 {
		if v, err := strconv.Atoi(fields[1]); err == nil {
			percent = v
		}
	}
	result.HasProgress = true
	switch state {
	case "0":
		result.Progress = ProgressState{Active: false}
	case "1":
		result.Progress = ProgressState{Active: true, Percent: clampPercent(percent)}
	case "2":
		result.Progress = ProgressState{Active: true, Error: true, Percent: clampPercent(percent)}
	case "3":
		result.Progress = ProgressState{Active: true, Indeterminate: true}
	case "4":
		result.Progress = ProgressState{Active: true, Paused: true, Percent: clampPercent(percent)}
	default:
		result.HasProgress = false
	}
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// applyPromptMarker parses OSC 133's "A", "B", "C", or "D[;exitcode]"
// payloads.
func applyPromptMarker(result *ScanResult, rest string) {
	if rest == "" {
		return
	}
	marker := PromptMarker{Kind: rest[0]}
	switch marker.Kind {
	case 'A', 'B', 'C':
		result.Prompts = append(result.Prompts, marker)
	case 'D':
		if idx := strings.IndexByte(rest, ';'); idx >= 0 {
			if v, err := strconv.Atoi(rest[idx+1:]); err == nil {
				marker.ExitCode = v
				marker.HasExit = true
			}
		}
		result.Prompts = append(result.Prompts, marker)
	}
}
