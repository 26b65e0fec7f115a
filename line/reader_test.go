package line

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rose00/xmlinput/block"
)

func collectLines(r *Reader) (lines []string, endings []string) {
	for {
		line := r.CurrentLine()
		if r.Done() {
			break
		}
		lines = append(lines, string(line))
		endings = append(endings, r.CurrentLineEnding())
		if !r.Next() {
			break
		}
	}
	return
}

// S1 — line splitting with partial final line.
func TestLineSplittingPartialFinalLine(t *testing.T) {
	a := assert.New(t)
	r := NewFromBytes([]byte("ab\ncd\r\nef"))
	lines, endings := collectLines(r)
	a.Equal([]string{"ab", "cd", "ef"}, lines)
	a.Equal([]string{"\n", "\r\n", ""}, endings)
	a.Equal(3, r.Lineno())
	a.True(r.Done())
	a.False(r.Next(), "Next after done stays false")
}

// S2 — pushback across a line boundary.
func TestPushbackAcrossLineBoundary(t *testing.T) {
	a := assert.New(t)
	r := NewFromBytes([]byte("one\ntwo\n"))

	a.Equal("one", string(r.CurrentLine()))
	r.PushbackInput([]byte("zero\n"), false)

	a.Equal("zero", string(r.CurrentLine()))
	a.Equal(1, r.Lineno())

	a.True(r.Next())
	a.Equal("one", string(r.CurrentLine()))
	a.Equal(2, r.Lineno())

	a.True(r.Next())
	a.Equal("two", string(r.CurrentLine()))
	a.Equal(3, r.Lineno())

	a.False(r.Next())
	a.True(r.Done())
}

// S3 — self-growing buffer.
func TestSelfGrowingBuffer(t *testing.T) {
	a := assert.New(t)
	pattern := strings.Repeat("x", 5000)
	src := block.NewMemorySource([]byte(pattern))
	r := New(src)

	line := r.CurrentLine()
	a.Equal(5000, len(line))
	a.Equal(pattern, string(line))
	a.Equal("", r.CurrentLineEnding())
}

func TestRoundTripPushback(t *testing.T) {
	a := assert.New(t)
	r := NewFromBytes([]byte("alpha\nbeta\n"))
	a.Equal("alpha", string(r.CurrentLine()))
	saved := r.SaveLine()
	savedLen := r.CurrentLineLength()

	endl := r.CurrentLineEnding()
	r.PushbackInput([]byte(endl), false)
	r.PushbackInput(saved, false)

	a.Equal("alpha", string(r.CurrentLine()))
	a.Equal(savedLen, r.CurrentLineLength())
}

func TestOverwritePushback(t *testing.T) {
	a := assert.New(t)
	r := NewFromBytes([]byte("original\nnext\n"))
	a.Equal("original", string(r.CurrentLine()))

	r.PushbackInput([]byte("replaced\n"), true)
	a.Equal("replaced", string(r.CurrentLine()))

	a.True(r.Next())
	a.Equal("next", string(r.CurrentLine()))
}

func TestEmbeddedNullPreserved(t *testing.T) {
	a := assert.New(t)
	data := []byte("ab\x00cd\nef\n")
	r := NewFromBytes(data)
	line := r.CurrentLine()
	a.Equal(5, len(line))
	a.Equal([]byte("ab\x00cd"), line)
}

func TestLoneCRIsOrdinaryData(t *testing.T) {
	a := assert.New(t)
	r := NewFromBytes([]byte("a\rb\n"))
	a.Equal("a\rb", string(r.CurrentLine()))
	a.Equal("\n", r.CurrentLineEnding())
}

func TestBufferedAfterCurrent(t *testing.T) {
	a := assert.New(t)
	r := NewFromBytes([]byte("one\ntwo\nthree\n"))
	rest := r.BufferedAfterCurrent()
	a.Equal("two\nthree\n", string(rest))
}

func TestSetDoneIsIdempotent(t *testing.T) {
	a := assert.New(t)
	r := NewFromBytes([]byte("a\nb\n"))
	r.SetDone()
	a.True(r.Done())
	a.Equal("", string(r.CurrentLine()))
	r.SetDone() // must not panic or change state
	a.True(r.Done())
}

func TestAllocationFailureIsSticky(t *testing.T) {
	a := assert.New(t)
	src := block.NewMemorySource([]byte(strings.Repeat("y", 10000)))
	r := New(src, WithMaxBufferSize(100))

	a.True(r.Error())
	a.True(r.Done())
	a.Error(r.Err())

	// further operations must not revive the stream
	r.PushbackInput([]byte("more\n"), false)
	a.True(r.Done())
	a.True(r.Error())
}

func TestNonScribblingRead(t *testing.T) {
	a := assert.New(t)
	original := []byte("line one\nline two\nline three")
	probe := append([]byte(nil), original...)
	src := block.NewMemorySource(probe)
	r := New(src)
	for !r.Done() {
		r.CurrentLine()
		r.Next()
	}
	// the source's own backing slice must be untouched; only the
	// reader's private scratch buffer gets null-terminated in place.
	a.Equal(string(original), string(probe))
}
