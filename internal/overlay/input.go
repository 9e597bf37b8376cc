package overlay

import (
	"os"
	"time"

	"vtcore/internal/copymode"
	"vtcore/internal/input"
)

func defaultStdinRead(buf []byte) (int, error) { return os.Stdin.Read(buf) }

const prefixKey = 0x02 // Ctrl-B, tmux's own prefix convention

// readInput reads raw bytes from the host terminal and dispatches them,
// mirroring the teacher's HandleDefaultBytes/HandlePassthroughBytes loop:
// read a chunk, then walk it byte-by-byte, letting each handler consume as
// many bytes as one logical key event needs (a CSI sequence is one event).
func (s *Session) readInput() {
	buf := make([]byte, 256)
	for {
		n, err := stdinRead(buf)
		if err != nil {
			return
		}
		i := 0
		for i < n {
			i = s.handleByte(buf, i, n)
		}
	}
}

// stdinRead is overridden in tests; production wires it to os.Stdin.
var stdinRead = defaultStdinRead

func (s *Session) handleByte(buf []byte, i, n int) int {
	b := buf[i]

	if s.prefixPending {
		s.prefixPending = false
		return s.handlePrefixed(b, buf, i+1, n)
	}

	if b == prefixKey {
		s.startPrefixTimer()
		return i + 1
	}

	if s.copy != nil && s.copy.Active {
		return s.handleCopyByte(buf, i, n)
	}

	if b == 0x1B {
		return s.handleEscape(buf, i, n)
	}

	s.sendRune(rune(b))
	return i + 1
}

// handlePrefixed dispatches the key following the Ctrl-B prefix: '[' enters
// copy mode (tmux's own binding for this), 'd' detaches by killing the
// active pane, anything else is dropped.
func (s *Session) handlePrefixed(b byte, buf []byte, i, n int) int {
	switch b {
	case '[':
		if s.copy != nil {
			s.copy.Enter()
		}
	case 'd':
		if p := s.activePane(); p != nil {
			p.Close()
		}
	}
	return i
}

func (s *Session) startPrefixTimer() {
	s.prefixPending = true
	time.AfterFunc(500*time.Millisecond, func() {
		s.prefixPending = false
	})
}

// handleEscape decodes one CSI/SS3 sequence the host terminal sent for a
// function/arrow/navigation key, maps it back to an input.Key, and
// re-encodes it through the active pane's Encoder — which consults that
// pane's own Kitty flags, so a child that negotiated the Kitty keyboard
// protocol gets the richer wire format even though the host sent the
// legacy form.
func (s *Session) handleEscape(buf []byte, i, n int) int {
	if i+1 >= n {
		s.sendRune('\x1b')
		return i + 1
	}
	switch buf[i+1] {
	case '[':
		return s.handleCSI(buf, i+2, n)
	case 'O':
		if i+2 >= n {
			return i + 2
		}
		if key, ok := ss3Key[buf[i+2]]; ok {
			s.sendKey(key, 0)
		}
		return i + 3
	default:
		s.sendRune('\x1b')
		return i + 1
	}
}

var ss3Key = map[byte]input.Key{
	'A': input.KeyUp, 'B': input.KeyDown, 'C': input.KeyRight, 'D': input.KeyLeft,
	'H': input.KeyHome, 'F': input.KeyEnd,
}

var csiFinalKey = map[byte]input.Key{
	'A': input.KeyUp, 'B': input.KeyDown, 'C': input.KeyRight, 'D': input.KeyLeft,
	'H': input.KeyHome, 'F': input.KeyEnd,
}

var csiTildeKey = map[int]input.Key{
	2: input.KeyInsert, 3: input.KeyDelete, 5: input.KeyPageUp, 6: input.KeyPageDown,
	11: input.KeyF1, 12: input.KeyF2, 13: input.KeyF3, 14: input.KeyF4, 15: input.KeyF5,
	17: input.KeyF6, 18: input.KeyF7, 19: input.KeyF8, 20: input.KeyF9, 21: input.KeyF10,
	23: input.KeyF11, 24: input.KeyF12,
}

// handleCSI parses "Pn* final" starting right after "ESC [" and returns the
// index past the whole sequence.
func (s *Session) handleCSI(buf []byte, start, n int) int {
	j := start
	for j < n && (buf[j] >= '0' && buf[j] <= '9' || buf[j] == ';') {
		j++
	}
	if j >= n {
		return j
	}
	final := buf[j]
	params := string(buf[start:j])
	num, mod := parseCSIParams(params)

	if key, ok := csiFinalKey[final]; ok {
		s.sendKey(key, mod)
		return j + 1
	}
	if final == '~' {
		if key, ok := csiTildeKey[num]; ok {
			s.sendKey(key, mod)
		}
		return j + 1
	}
	return j + 1
}

// parseCSIParams splits "1;5" (num ; modifier) forms used by both the
// arrow-key and tilde encodings; a bare "5" is treated as num with no
// modifier, matching how real terminals only add the ";mod" half when a
// modifier is actually held.
func parseCSIParams(params string) (num int, mod input.Modifier) {
	num = 1
	var a, b int
	var sawSemi bool
	for _, r := range params {
		if r == ';' {
			sawSemi = true
			continue
		}
		if r < '0' || r > '9' {
			continue
		}
		d := int(r - '0')
		if !sawSemi {
			a = a*10 + d
		} else {
			b = b*10 + d
		}
	}
	if !sawSemi {
		if a > 0 {
			num = a
		}
		return num, 0
	}
	if a > 0 {
		num = a
	}
	if b > 1 {
		mod = input.Modifier(b - 1)
	}
	return num, mod
}

func (s *Session) sendKey(key input.Key, mod input.Modifier) {
	p := s.activePane()
	if p == nil {
		return
	}
	enc := s.encoders[p.ID]
	if enc == nil {
		return
	}
	bytes := enc.EncodeKey(key, mod)
	p.PTY.Write(bytes)
}

func (s *Session) sendRune(r rune) {
	p := s.activePane()
	if p == nil {
		return
	}
	enc := s.encoders[p.ID]
	if enc == nil {
		return
	}
	p.PTY.Write(enc.EncodeRune(r, 0))
}

// handleCopyByte routes one byte to the vi-style copy-mode bindings instead
// of the active pane, until 'q'/Escape exits copy mode. '/' starts a
// literal search handled inline rather than via a separate mode, since the
// search bar itself is just a query buffer.
func (s *Session) handleCopyByte(buf []byte, i, n int) int {
	b := buf[i]
	c := s.copy
	switch b {
	case 'q', 0x1B:
		c.Exit()
	case 'h':
		c.Left()
	case 'j':
		c.Down()
	case 'k':
		c.Up()
	case 'l':
		c.Right()
	case 'w':
		c.WordForward()
	case 'b':
		c.WordBack()
	case '0':
		c.LineStart()
	case '$':
		c.LineEnd()
	case 'g':
		c.Top()
	case 'G':
		c.Bottom()
	case 'v':
		c.ToggleCharacter()
	case 'V':
		c.ToggleLine()
	case 0x16: // Ctrl-V
		c.ToggleBlock()
	case 'y':
		c.Yank()
	case 'n':
		if s.search != nil {
			s.search.Next()
		}
	case 'N':
		if s.search != nil {
			s.search.Prev()
		}
	case '/':
		return s.readSearchQuery(buf, i+1, n, copymode.SearchLiteral)
	}
	return i + 1
}

// readSearchQuery consumes bytes up to (and including) the terminating
// Enter as the search query, so a single keystroke loop can still drive a
// multi-byte text entry without a separate input-mode type.
func (s *Session) readSearchQuery(buf []byte, i, n int, mode copymode.SearchMode) int {
	start := i
	for i < n && buf[i] != '\r' && buf[i] != '\n' {
		i++
	}
	if s.search != nil {
		s.search.Query = string(buf[start:i])
		s.search.Mode = mode
		s.search.FindMatches()
	}
	if i < n {
		if buf[i] == '\r' && i+1 < n && buf[i+1] == '\n' {
			i++
		}
		i++
	}
	return i
}
