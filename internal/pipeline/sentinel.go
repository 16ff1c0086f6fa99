package pipeline

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Comment boundaries are encoded with Unicode Private Use Area characters.
// They pass through goldmark as plain text and are resolved after parsing.
// Input text must never contain them; see ContainsReserved.
const (
	startOpen  = '\uE000'
	startClose = '\uE001'
	endOpen    = '\uE002'
	endClose   = '\uE003'
)

// StartMarker returns the sentinel opening comment id.
func StartMarker(id int) string {
	return string(startOpen) + strconv.Itoa(id) + string(startClose)
}

// EndMarker returns the sentinel closing comment id.
func EndMarker(id int) string {
	return string(endOpen) + strconv.Itoa(id) + string(endClose)
}

// Marker is a well-formed sentinel located in a string.
type Marker struct {
	ID  int
	End bool

	// Pos and Len are byte offsets of the whole sentinel.
	Pos int
	Len int
}

// NextMarker finds the first well-formed sentinel in s.
func NextMarker(s string) (Marker, bool) {
	offset := 0
	for {
		i := strings.IndexFunc(s[offset:], func(r rune) bool {
			return r == startOpen || r == endOpen
		})
		if i < 0 {
			return Marker{}, false
		}
		pos := offset + i
		if m, ok := markerAt(s, pos); ok {
			return m, true
		}
		offset = pos + utf8.RuneLen(startOpen)
	}
}

// markerAt parses a sentinel starting at s[pos].
func markerAt(s string, pos int) (Marker, bool) {
	open, size := utf8.DecodeRuneInString(s[pos:])
	closing := startClose
	if open == endOpen {
		closing = endClose
	}
	digits := pos + size
	j := digits
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == digits || !strings.HasPrefix(s[j:], string(closing)) {
		return Marker{}, false
	}
	id, err := strconv.Atoi(s[digits:j])
	if err != nil {
		return Marker{}, false
	}
	return Marker{
		ID:  id,
		End: open == endOpen,
		Pos: pos,
		Len: j + len(string(closing)) - pos,
	}, true
}

// Markers returns every well-formed sentinel in s, in order.
func Markers(s string) []Marker {
	var out []Marker
	offset := 0
	for {
		m, ok := NextMarker(s[offset:])
		if !ok {
			return out
		}
		m.Pos += offset
		out = append(out, m)
		offset = m.Pos + m.Len
	}
}

func isReserved(r rune) bool {
	return r >= startOpen && r <= endClose
}

// ContainsReserved reports whether s contains a sentinel code point.
func ContainsReserved(s string) bool {
	return IndexReserved(s) >= 0
}

// IndexReserved returns the byte index of the first sentinel code point in
// s, or -1.
func IndexReserved(s string) int {
	return strings.IndexFunc(s, isReserved)
}

// StripReserved removes every sentinel code point from s.
func StripReserved(s string) string {
	if !ContainsReserved(s) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isReserved(r) {
			return -1
		}
		return r
	}, s)
}

// StripMarkers removes well-formed sentinels from s, keeping other text.
func StripMarkers(s string) string {
	markers := Markers(s)
	if len(markers) == 0 {
		return s
	}
	var sb strings.Builder
	last := 0
	for _, m := range markers {
		sb.WriteString(s[last:m.Pos])
		last = m.Pos + m.Len
	}
	sb.WriteString(s[last:])
	return sb.String()
}
