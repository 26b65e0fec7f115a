package escape

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindEscape(t *testing.T) {
	a := assert.New(t)
	n, ch, ok := FindEscape([]byte("&amp;rest"))
	a.True(ok)
	a.Equal(5, n)
	a.Equal(byte('&'), ch)

	n, ch, ok = FindEscape([]byte("&#10;x"))
	a.True(ok)
	a.Equal(5, n)
	a.Equal(byte('\n'), ch)

	_, _, ok = FindEscape([]byte("&nope;"))
	a.False(ok)

	_, _, ok = FindEscape([]byte("plain"))
	a.False(ok)
}

func TestUnescapeInPlace(t *testing.T) {
	a := assert.New(t)
	buf := []byte("high &amp; mighty")
	n := UnescapeInPlace(buf, len(buf))
	a.Equal("high & mighty", string(buf[:n]))

	buf = []byte("&lt;init&gt;")
	n = UnescapeInPlace(buf, len(buf))
	a.Equal("<init>", string(buf[:n]))

	buf = []byte("no escapes here")
	n = UnescapeInPlace(buf, len(buf))
	a.Equal("no escapes here", string(buf[:n]))

	buf = []byte("line1&#10;line2")
	n = UnescapeInPlace(buf, len(buf))
	a.Equal("line1\nline2", string(buf[:n]))
}

func TestAppendEscapedRoundTrip(t *testing.T) {
	a := assert.New(t)
	original := []byte(`quote:" apos:' amp:& lt:< gt:> nl:` + "\n")
	escaped := AppendEscaped(nil, original)
	a.NotContains(string(escaped), "\n")

	back := append([]byte(nil), escaped...)
	n := UnescapeInPlace(back, len(back))
	a.Equal(string(original), string(back[:n]))
}

func TestWriteEscaped(t *testing.T) {
	a := assert.New(t)
	var buf bytes.Buffer
	n, err := WriteEscaped(&buf, []byte("a&b"))
	a.NoError(err)
	a.Equal("a&amp;b", buf.String())
	a.Equal(len("a&amp;b"), n)
}
