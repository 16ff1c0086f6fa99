package mdtoken

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark/util"
)

// Unescape resolves backslash escapes and character references in raw
// markdown text in a single pass, so an escaped '&' never starts a reference.
// NUL bytes become U+FFFD.
func Unescape(source []byte) string {
	var sb strings.Builder
	sb.Grow(len(source))
	limit := len(source)
	for i := 0; i < limit; i++ {
		c := source[i]
		switch {
		case c == '\\' && i+1 < limit && util.IsPunct(source[i+1]):
			sb.WriteByte(source[i+1])
			i++
		case c == 0:
			sb.WriteRune(utf8.RuneError)
		case c == '&':
			r, n := readReference(source, i)
			if n == 0 {
				sb.WriteByte(c)
				continue
			}
			sb.WriteString(r)
			i += n - 1
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// readReference decodes the character reference starting at source[pos].
// It returns the replacement and the number of bytes consumed, or 0 when
// source[pos:] does not start a valid reference.
func readReference(source []byte, pos int) (string, int) {
	limit := len(source)
	next := pos + 1
	if next >= limit {
		return "", 0
	}
	if source[next] != '#' {
		end, ok := util.ReadWhile(source, [2]int{next, limit}, util.IsAlphaNumeric)
		if !ok || end >= limit || source[end] != ';' {
			return "", 0
		}
		entity, found := util.LookUpHTML5EntityByName(string(source[next:end]))
		if !found {
			return "", 0
		}
		return string(entity.Characters), end + 1 - pos
	}

	start := next + 1
	if start >= limit {
		return "", 0
	}
	base, pred, maxDigits := 10, util.IsNumeric, 7
	if source[start] == 'x' || source[start] == 'X' {
		start++
		base, pred, maxDigits = 16, util.IsHexDecimal, 6
	}
	end, ok := util.ReadWhile(source, [2]int{start, limit}, pred)
	if !ok || end >= limit || source[end] != ';' || end-start > maxDigits {
		return "", 0
	}
	v, err := strconv.ParseUint(string(source[start:end]), base, 32)
	if err != nil {
		return "", 0
	}
	return string(util.ToValidRune(rune(v))), end + 1 - pos
}
