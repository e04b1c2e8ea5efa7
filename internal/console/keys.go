package console

import (
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

const escByte = 0x1b

// escapeSequences maps the bytes following ESC to the key they encode.
// Both CSI (ESC [) and SS3 (ESC O) forms are accepted for cursor keys.
var escapeSequences = map[string]tea.KeyType{
	"[A": tea.KeyUp,
	"[B": tea.KeyDown,
	"[C": tea.KeyRight,
	"[D": tea.KeyLeft,
	"OA": tea.KeyUp,
	"OB": tea.KeyDown,
	"OC": tea.KeyRight,
	"OD": tea.KeyLeft,

	"[H":  tea.KeyHome,
	"[F":  tea.KeyEnd,
	"OH":  tea.KeyHome,
	"OF":  tea.KeyEnd,
	"[1~": tea.KeyHome,
	"[4~": tea.KeyEnd,
	"[7~": tea.KeyHome,
	"[8~": tea.KeyEnd,
	"[2~": tea.KeyInsert,
	"[3~": tea.KeyDelete,
	"[5~": tea.KeyPgUp,
	"[6~": tea.KeyPgDown,
	"[Z":  tea.KeyShiftTab,

	"OP":   tea.KeyF1,
	"OQ":   tea.KeyF2,
	"OR":   tea.KeyF3,
	"OS":   tea.KeyF4,
	"[11~": tea.KeyF1,
	"[12~": tea.KeyF2,
	"[13~": tea.KeyF3,
	"[14~": tea.KeyF4,
	"[15~": tea.KeyF5,
	"[17~": tea.KeyF6,
	"[18~": tea.KeyF7,
	"[19~": tea.KeyF8,
	"[20~": tea.KeyF9,
	"[21~": tea.KeyF10,
	"[23~": tea.KeyF11,
	"[24~": tea.KeyF12,
}

// DecodeKeys turns a chunk of raw terminal input into logical keys.
//
// A chunk is assumed to hold whole sequences, which is what a tty in raw
// mode delivers per read. CSI and SS3 sequences are consumed whole; those
// without a known meaning are dropped. ESC followed by another character is
// that character with Alt held, and a lone ESC is the Escape key. Bytes of an
// incomplete UTF-8 sequence at the end of buf are returned as rest so the
// caller can prepend them to the next read.
func DecodeKeys(buf []byte) (keys []tea.KeyMsg, rest []byte) {
	for i := 0; i < len(buf); {
		b := buf[i]

		switch {
		case b == escByte:
			if i+1 == len(buf) || buf[i+1] == escByte {
				keys = append(keys, tea.KeyMsg{Type: tea.KeyEsc})
				i++
				continue
			}
			if n := sequenceLen(buf[i+1:]); n > 0 {
				if typ, ok := escapeSequences[string(buf[i+1:i+1+n])]; ok {
					keys = append(keys, tea.KeyMsg{Type: typ})
				}
				i += 1 + n
				continue
			}
			k, n, valid := decodeOne(buf[i+1:])
			if n == 0 {
				return keys, append([]byte(nil), buf[i:]...)
			}
			i += 1 + n
			if valid {
				k.Alt = true
				keys = append(keys, k)
			}

		default:
			k, n, valid := decodeOne(buf[i:])
			if n == 0 {
				return keys, append([]byte(nil), buf[i:]...)
			}
			i += n
			if valid {
				keys = append(keys, k)
			}
		}
	}
	return keys, nil
}

// decodeOne decodes the control byte or UTF-8 rune at the start of b. n is
// the number of bytes used, zero for an incomplete rune; valid is false for
// bytes that are not UTF-8.
func decodeOne(b []byte) (k tea.KeyMsg, n int, valid bool) {
	c := b[0]
	switch {
	case c == ' ':
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, 1, true
	case c < 0x20 || c == 0x7f:
		// Control characters share their byte value with tea's key types
		// (CR is KeyEnter, HT is KeyTab, DEL is KeyBackspace).
		return tea.KeyMsg{Type: tea.KeyType(c)}, 1, true
	}
	if !utf8.FullRune(b) {
		return tea.KeyMsg{}, 0, false
	}
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError {
		return tea.KeyMsg{}, size, false
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}, size, true
}

// sequenceLen returns the length of the CSI or SS3 sequence that starts b
// (after the ESC), or 0 if b does not start one. A CSI is '[', parameter
// bytes 0x30-0x3F, intermediate bytes 0x20-0x2F and one final byte
// 0x40-0x7E; an SS3 is 'O' and one more byte. An unterminated sequence runs
// to the end of b.
func sequenceLen(b []byte) int {
	if len(b) == 0 {
		return 0
	}
	switch b[0] {
	case 'O':
		if len(b) < 2 {
			return 0
		}
		return 2
	case '[':
		i := 1
		for i < len(b) && b[i] >= 0x30 && b[i] <= 0x3f {
			i++
		}
		for i < len(b) && b[i] >= 0x20 && b[i] <= 0x2f {
			i++
		}
		if i < len(b) && b[i] >= 0x40 && b[i] <= 0x7e {
			return i + 1
		}
		return i
	default:
		return 0
	}
}
