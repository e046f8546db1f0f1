// Package term couples the terminal widget with the PTY and the child
// process that runs inside it, and watches the output stream for the
// events the widget keeps to itself (bell rings, window-title updates).
package term

import "strings"

// Scanner states track just enough of the escape-sequence families to
// tell a real bell from an OSC terminator.
const (
	scanGround = iota
	scanEscape
	scanCSI
	scanOSCNum
	scanOSCPayload
)

// maxTitle bounds the OSC payload we are willing to buffer; anything
// longer is a runaway sequence, not a window title.
const maxTitle = 4096

// StreamScanner inspects the byte stream headed for the terminal widget
// without modifying it. The widget's parser swallows BEL in ground
// state and does not surface OSC titles, so bell and title handling
// live here. State persists across arbitrary chunk boundaries.
type StreamScanner struct {
	// Bell fires for each BEL rung in ground state or mid-sequence
	// (C0 controls execute during control sequences); BELs that
	// terminate an OSC string do not count. Title fires with the
	// payload of an OSC 0 or OSC 2 update. Both run on whatever
	// goroutine feeds Scan.
	Bell  func()
	Title func(string)

	state    int
	oscCmd   int
	payload  []byte
	overflow bool
}

// Scan consumes one chunk of terminal output.
func (s *StreamScanner) Scan(data []byte) {
	for _, b := range data {
		s.scanByte(b)
	}
}

func (s *StreamScanner) scanByte(b byte) {
	switch s.state {
	case scanGround:
		switch b {
		case 0x07:
			s.ring()
		case 0x1b:
			s.state = scanEscape
		}

	case scanEscape:
		switch b {
		case '[':
			s.state = scanCSI
		case ']':
			s.state = scanOSCNum
			s.oscCmd = 0
			s.payload = s.payload[:0]
			s.overflow = false
		default:
			s.state = scanGround
		}

	case scanCSI:
		switch {
		case b == 0x07:
			s.ring()
		case b == 0x1b:
			s.state = scanEscape
		case b >= 0x40 && b <= 0x7e:
			s.state = scanGround
		}

	case scanOSCNum:
		switch {
		case b >= '0' && b <= '9':
			if s.oscCmd < 1<<16 {
				s.oscCmd = s.oscCmd*10 + int(b-'0')
			}
		case b == ';':
			s.state = scanOSCPayload
		default:
			s.state = scanGround
		}

	case scanOSCPayload:
		switch b {
		case 0x07:
			s.finishOSC()
			s.state = scanGround
		case 0x1b:
			s.finishOSC()
			s.state = scanEscape
		default:
			if len(s.payload) < maxTitle {
				s.payload = append(s.payload, b)
			} else {
				s.overflow = true
			}
		}
	}
}

func (s *StreamScanner) ring() {
	if s.Bell != nil {
		s.Bell()
	}
}

func (s *StreamScanner) finishOSC() {
	if s.Title == nil || s.overflow {
		return
	}
	if s.oscCmd != 0 && s.oscCmd != 2 {
		return
	}
	s.Title(strings.ToValidUTF8(string(s.payload), "�"))
}
