package line

import (
	"context"
	"math"

	"github.com/rose00/xmlinput/block"
	"github.com/rose00/xmlinput/xmlerr"
)

const (
	smallSize = 240  // initial buffer allocation
	bigSize   = 2048 // threshold past which growth is 3/2 rather than "jump to big"
)

// Reader reads line-oriented text from a block.Source into a growable
// scratch buffer, splitting it into logical lines. See the package doc
// for the buffer lifecycle and ownership rules.
type Reader struct {
	src block.Source
	ctx context.Context

	buffer     []byte
	contentEnd int // end of valid bytes in buffer
	beg, end   int // [beg,end) delimits the current line
	lineEnding int // 0 = none, 1 = "\n", 2 = "\r\n"
	position   int // bytes consumed before the current line
	lineno     int // 1-based; 0 before the first real line

	doneFlag bool
	errFlag  bool
	errCause error

	maxBufferSize int
}

// Option configures a Reader at construction time.
type Option func(*Reader)

// WithMaxBufferSize bounds how large the scratch buffer may grow. A
// growth request beyond this bound is treated as an allocation
// failure (see xmlerr.AllocationFailure), the Go analogue of the
// original design's "malloc returned null". The default is
// unbounded.
func WithMaxBufferSize(n int) Option {
	return func(r *Reader) { r.maxBufferSize = n }
}

// WithContext sets the context.Context passed to the source's
// ReadBlock calls, letting a caller cancel an in-flight read.
func WithContext(ctx context.Context) Option {
	return func(r *Reader) { r.ctx = ctx }
}

// New returns a Reader that pulls blocks from src. src may be nil, in
// which case the reader behaves as though it has no more input until
// SetInput or PushbackInput supplies some.
func New(src block.Source, opts ...Option) *Reader {
	r := &Reader{src: src, ctx: context.Background(), maxBufferSize: math.MaxInt}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewFromBytes wraps data directly, as if by an initial PushbackInput,
// useful for reading lines out of an already-in-memory string or
// buffer without a block.Source at all.
func NewFromBytes(data []byte, opts ...Option) *Reader {
	r := New(nil, opts...)
	if len(data) > 0 {
		r.PushbackInput(data, false)
	}
	return r
}

// SetInput discards any buffered content and switches to a new source,
// closing the previous one if any.
func (r *Reader) SetInput(src block.Source) {
	r.clearBuffer()
	r.doneFlag = r.errFlag // a sticky error keeps the stream done
	if r.src != nil {
		r.src.Close()
	}
	r.src = src
}

// Close releases the current source, if any.
func (r *Reader) Close() error {
	if r.src != nil {
		return r.src.Close()
	}
	return nil
}

func (r *Reader) clearBuffer() {
	r.contentEnd, r.beg, r.end = 0, 0, 0
	r.lineEnding = 0
}

func (r *Reader) unstarted() bool { return r.buffer == nil }

func (r *Reader) needToRead() bool { return r.end == r.contentEnd }

func (r *Reader) haveCurrentLine() bool { return r.end < r.contentEnd }

func (r *Reader) preloadBuffer() {
	if !r.doneFlag && r.needToRead() {
		r.fillBuffer()
	}
}

// CurrentLine returns the bytes of the current line, exclusive of any
// line terminator. It may trigger a read if not enough input is
// buffered yet. The returned slice aliases the Reader's buffer and is
// invalidated by the next call to CurrentLine, Next, PushbackInput, or
// SetDone. After Done, it returns nil.
func (r *Reader) CurrentLine() []byte {
	r.preloadBuffer()
	if r.doneFlag {
		return nil
	}
	return r.buffer[r.beg:r.end]
}

// CurrentLineLength is equivalent to len(r.CurrentLine()) but avoids
// constructing the slice header when only the length is wanted.
func (r *Reader) CurrentLineLength() int {
	r.preloadBuffer()
	if r.doneFlag {
		return 0
	}
	return r.end - r.beg
}

// CurrentLineEnding returns "", "\n", or "\r\n": the exact terminator
// that was stripped from the current line. "" means either a final
// partial line (no terminator seen yet) or that the stream is done.
func (r *Reader) CurrentLineEnding() string {
	r.preloadBuffer()
	switch r.lineEnding {
	case 1:
		return "\n"
	case 2:
		return "\r\n"
	default:
		return ""
	}
}

// BufferedAfterCurrent returns bytes already read from the source past
// the current line's terminator, but not yet exposed as a line. This
// is only useful when stacking input streams on top of one another.
func (r *Reader) BufferedAfterCurrent() []byte {
	r.preloadBuffer()
	if r.doneFlag {
		return nil
	}
	endl := r.end + r.lineEnding
	return r.buffer[endl:r.contentEnd]
}

// Next discards the current line and advances to the next one. It
// returns true iff there is a next line, which is always the opposite
// of Done().
func (r *Reader) Next() bool {
	r.preloadBuffer()
	if r.doneFlag {
		return false
	}
	newBeg := r.end + 1
	if r.lineEnding == 2 {
		newBeg++ // skip the nulled '\n' after the nulled '\r'
	}
	r.position += newBeg - r.beg
	r.setBufferContent(newBeg, r.contentEnd)
	if !r.needToRead() {
		return true
	}
	return r.fillBuffer()
}

// Done reports whether there are no more lines.
func (r *Reader) Done() bool {
	r.preloadBuffer()
	return r.doneFlag
}

// SetDone discards any pending input and marks the stream finished.
// Idempotent.
func (r *Reader) SetDone() {
	if r.doneFlag {
		return
	}
	r.doneFlag = true
	r.clearBuffer()
}

// Error reports the sticky error bit, reading first if needed, as Done
// does. Once true, it never returns to false: see Err for the
// underlying cause.
func (r *Reader) Error() bool {
	r.preloadBuffer()
	return r.errFlag
}

// Err returns a detailed error if Error is true, or nil otherwise.
func (r *Reader) Err() error {
	if !r.Error() {
		return nil
	}
	return xmlerr.Wrap(r.errCause, "line.Reader", xmlerr.AllocationFailure,
		xmlerr.WithLine(r.lineno), xmlerr.WithPosition(r.position))
}

func (r *Reader) setError(cause error) {
	r.errFlag = true
	r.errCause = cause
	r.doneFlag = true
	r.lineEnding = 0
}

// Lineno returns the 1-based ordinal of the current line; it starts at
// one once any real line has been read.
func (r *Reader) Lineno() int { return r.lineno }

// Position returns the number of bytes read before the current line.
func (r *Reader) Position() int { return r.position }

// SaveLine returns an owned copy of the current line, including any
// embedded zero bytes.
func (r *Reader) SaveLine() []byte {
	line := r.CurrentLine()
	cp := make([]byte, len(line))
	copy(cp, line)
	return cp
}

// PushbackInput forces data to appear immediately before the current
// line, or in place of it if overwriteCurrentLine is true. If the
// current line had a terminator, it is resynthesized so the next scan
// rediscovers it, and the line number is pre-decremented by one
// because the resplit will recount it.
//
// PushbackInput is a no-op once the stream has a sticky allocation
// error: unlike the plain "done" state, which pushback can revive, a
// stream that failed to grow its buffer stays done for good.
func (r *Reader) PushbackInput(data []byte, overwriteCurrentLine bool) {
	if r.errFlag || len(data) == 0 {
		return
	}
	partialLine := data[len(data)-1] != '\n'
	if overwriteCurrentLine {
		r.preloadBuffer()
	}
	if !r.haveCurrentLine() {
		overwriteCurrentLine = false
	}
	pending, pendingBeg := 0, 0
	if !r.doneFlag {
		if overwriteCurrentLine {
			pendingBeg = r.end + 1
			if r.lineEnding == 2 {
				pendingBeg++
			}
		} else {
			pendingBeg = r.beg
		}
		pending = r.contentEnd - pendingBeg
	}
	if r.haveCurrentLine() {
		r.lineno-- // we will see its terminator again, or it will be discarded
		if pendingBeg <= r.end {
			r.buffer[r.end] = '\n' // setBufferContent will rediscover it
			switch r.lineEnding {
			case 2:
				r.buffer[r.end] = '\r'
				r.buffer[r.end+1] = '\n'
			case 0:
				pending-- // kill the synthetic trailing newline from a partial final line
			}
		}
	}
	buflen := len(data) + pending
	if pending == 0 {
		buflen = len(data) + 1
	}
	if len(r.buffer) < buflen {
		if !r.expandBuffer(buflen) {
			r.setError(nil)
			return
		}
	}
	fillp := len(r.buffer)
	if pending > 0 {
		fillp -= pending
		if fillp != pendingBeg {
			copy(r.buffer[fillp:fillp+pending], r.buffer[pendingBeg:pendingBeg+pending])
		}
	} else if partialLine {
		fillp-- // leave room for a terminating synthetic newline later, if needed
	}
	fillp -= len(data)
	copy(r.buffer[fillp:fillp+len(data)], data)
	r.doneFlag = false
	r.setBufferContent(fillp, fillp+len(data)+pending)
}

// fillBuffer makes sure there is at least one line in the buffer,
// reading from the source as needed. It returns false iff the stream
// is now done.
func (r *Reader) fillBuffer() bool {
	for r.needToRead() {
		fillOffset, fillLength := r.prepareToFillBuffer()
		if r.errFlag {
			return false
		}
		var n int
		if r.src != nil {
			n = r.src.ReadBlock(r.ctx, r.buffer[fillOffset:fillOffset+fillLength])
		}
		lastPartial := 0
		if n == 0 {
			if r.beg == r.end { // no partial line pending: we are simply done
				r.SetDone()
				return false
			}
			// pretend to read a newline, to complete the last partial line
			r.buffer[fillOffset] = '\n'
			lastPartial = 1
		}
		r.setBufferContent(r.beg, fillOffset+n+lastPartial)
		if lastPartial != 0 {
			r.lineEnding = 0 // cancel the effect of the synthetic newline
			break
		}
	}
	return true
}

// prepareToFillBuffer finds room in the buffer to call ReadBlock,
// compacting or growing it as needed.
func (r *Reader) prepareToFillBuffer() (fillOffset, fillLength int) {
	if len(r.buffer) == 0 {
		if !r.expandBuffer(smallSize) {
			r.setError(nil)
			return 0, 0
		}
	}
	if r.beg == r.end { // no partial line: reuse the whole buffer
		r.clearBuffer()
		return 0, len(r.buffer)
	}
	if r.beg > 0 { // compact: slide the pending partial line down to zero
		contentLen := r.contentEnd - r.beg
		copy(r.buffer, r.buffer[r.beg:r.contentEnd])
		r.contentEnd, r.end = contentLen, contentLen
		r.beg = 0
	}
	if r.end < len(r.buffer) { // room after the partial line
		return r.end, len(r.buffer) - r.end
	}
	// the whole buffer holds a partial line: must grow
	newSize := bigSize
	if len(r.buffer) >= bigSize {
		newSize = len(r.buffer) + len(r.buffer)/2
	}
	if r.expandBuffer(newSize) {
		return r.end, len(r.buffer) - r.end
	}
	r.setError(nil)
	return 0, 0
}

// setBufferContent resets beg/end/contentEnd to the given range and
// scans it for the first line terminator, overwriting it with zero
// bytes and bumping lineno.
func (r *Reader) setBufferContent(contentStart, contentEnd int) {
	if contentStart >= contentEnd {
		r.clearBuffer()
		return
	}
	r.beg = contentStart
	r.contentEnd = contentEnd
	r.lineEnding = 0

	end := contentStart
	for ; end < contentEnd; end++ {
		if r.buffer[end] == '\n' {
			r.buffer[end] = 0
			r.lineno++
			r.lineEnding = 1
			if end > contentStart && r.buffer[end-1] == '\r' {
				r.buffer[end-1] = 0
				r.lineEnding = 2
				end-- // the line stops before the '\r'
			}
			break
		}
	}
	r.end = end
}

// expandBuffer grows the buffer to at least newLength, returning false
// if that would exceed maxBufferSize.
func (r *Reader) expandBuffer(newLength int) bool {
	if newLength <= len(r.buffer) {
		return true
	}
	if newLength > r.maxBufferSize {
		return false
	}
	newBuf := make([]byte, newLength)
	copy(newBuf, r.buffer[:r.contentEnd])
	r.buffer = newBuf
	return true
}
