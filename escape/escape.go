package escape

import "io"

// MaxEscapeLen is the length of the longest recognized escape sequence,
// "&apos;" or "&quot;" (six bytes each).
const MaxEscapeLen = 6

type entity struct {
	name string // without leading '&' or trailing ';'
	ch   byte
}

// specialSix lists the only entities this package ever decodes or
// encodes, in encode preference order (earlier entries win when a
// character could be written more than one way, which cannot happen
// here since each maps to a distinct character).
var specialSix = [6]entity{
	{"amp", '&'},
	{"lt", '<'},
	{"gt", '>'},
	{"quot", '"'},
	{"apos", '\''},
	{"#10", '\n'},
}

// FindEscape checks whether s begins with one of the Special Six
// entities and, if so, returns the length of the escape sequence
// (including the leading '&' and trailing ';') and the character it
// decodes to. ok is false if s does not begin with a recognized
// escape, in which case escLen and unesc are zero.
func FindEscape(s []byte) (escLen int, unesc byte, ok bool) {
	if len(s) == 0 || s[0] != '&' {
		return 0, 0, false
	}
	limit := len(s)
	if limit > MaxEscapeLen {
		limit = MaxEscapeLen
	}
	for _, e := range specialSix {
		n := len(e.name)
		// "&" + name + ";"
		total := n + 2
		if total > limit {
			continue
		}
		if string(s[1:1+n]) == e.name && s[1+n] == ';' {
			return total, e.ch, true
		}
	}
	return 0, 0, false
}

// escapeFor returns the entity name (without '&' or ';') that encodes
// ch, or "" if ch is not one of the Special Six.
func escapeFor(ch byte) string {
	for _, e := range specialSix {
		if e.ch == ch {
			return e.name
		}
	}
	return ""
}

// UnescapeInPlace decodes every Special Six escape found in buf[:n],
// writing the decoded bytes starting at buf[0], and returns the new,
// generally shorter, length. It never allocates: the write cursor
// never runs ahead of the read cursor, since every escape sequence is
// at least as long as the single byte it decodes to.
func UnescapeInPlace(buf []byte, n int) int {
	r, w := 0, 0
	for r < n {
		if buf[r] == '&' {
			if escLen, unesc, ok := FindEscape(buf[r:n]); ok {
				buf[w] = unesc
				w++
				r += escLen
				continue
			}
		}
		buf[w] = buf[r]
		w++
		r++
	}
	return w
}

// EscapedLen returns the length of s after every Special Six character
// in it is replaced by its entity form.
func EscapedLen(s []byte) int {
	n := len(s)
	for _, c := range s {
		if name := escapeFor(c); name != "" {
			n += len(name) + 1 // "&" + name + ";" instead of 1 char
		}
	}
	return n
}

// AppendEscaped appends the escaped form of s to dst and returns the
// extended slice, in the manner of strconv.AppendQuote.
func AppendEscaped(dst, s []byte) []byte {
	for _, c := range s {
		if name := escapeFor(c); name != "" {
			dst = append(dst, '&')
			dst = append(dst, name...)
			dst = append(dst, ';')
		} else {
			dst = append(dst, c)
		}
	}
	return dst
}

// WriteEscaped writes the escaped form of s to w, returning the number
// of bytes written to w (not the number consumed from s).
func WriteEscaped(w io.Writer, s []byte) (int, error) {
	buf := AppendEscaped(make([]byte, 0, EscapedLen(s)), s)
	return w.Write(buf)
}
