package xmlscan

import (
	"bytes"
	"io"

	"github.com/rose00/xmlinput/escape"
	"github.com/rose00/xmlinput/line"
	"github.com/rose00/xmlinput/xmlerr"
)

// LineKind classifies a single line of xmlscan input.
type LineKind int

const (
	// TEXT is an ordinary line of character data, with any Special
	// Six entities already decoded.
	TEXT LineKind = 0
	// HEAD is an opening tag, "<name ...>".
	HEAD LineKind = 1
	// TAIL is a closing tag, "</name>".
	TAIL LineKind = 2
	// ELEM is a self-closed tag or processing instruction,
	// "<name .../>" or "<?name ...?>".
	ELEM LineKind = HEAD | TAIL
)

func (k LineKind) String() string {
	switch k {
	case TEXT:
		return "TEXT"
	case HEAD:
		return "HEAD"
	case TAIL:
		return "TAIL"
	case ELEM:
		return "ELEM"
	default:
		return "LineKind(?)"
	}
}

// Attr is one name='value' pair parsed from a markup line. Both Name
// and Value alias the underlying line.Reader buffer and are valid
// only until the next line is read.
type Attr struct {
	Name  []byte
	Value []byte
}

// Scanner wraps a *line.Reader, adding a lazily-computed classification
// and attribute index for the current line.
type Scanner struct {
	r      *line.Reader
	strict bool // reject the cheesy space-terminated attribute fallback

	scannedLineno int // 0 means "never scanned"
	kind          LineKind
	lineLength    int
	tagOffset     int
	tagEnd        int
	errorOffset   int
	attrCount     int // -1 means not parsed yet
	attrs         []Attr
	attrErr       error
}

// Option configures a Scanner at construction time.
type Option func(*Scanner)

// WithStrictAttributes rejects the "cheesy" fallback that otherwise
// lets an unquoted attribute value run to the next space instead of a
// closing quote.
func WithStrictAttributes() Option {
	return func(s *Scanner) { s.strict = true }
}

// New wraps r, an already-constructed line.Reader.
func New(r *line.Reader, opts ...Option) *Scanner {
	s := &Scanner{r: r, attrCount: -1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reader returns the wrapped line.Reader, for callers who want direct
// access to Next, Done, PushbackInput, and so on.
func (s *Scanner) Reader() *line.Reader { return s.r }

func (s *Scanner) needScan() bool {
	return s.scannedLineno != s.r.Lineno() || s.r.Lineno() == 0
}

// Next advances to the next line, invalidating any cached
// classification and attribute index.
func (s *Scanner) Next() bool {
	s.scannedLineno = 0
	s.attrCount = -1
	return s.r.Next()
}

// Done reports whether there are no more lines.
func (s *Scanner) Done() bool { return s.r.Done() }

func (s *Scanner) doScan() {
	rawLine := s.r.CurrentLine()
	s.scannedLineno = s.r.Lineno()
	s.attrCount = 0
	s.attrs = s.attrs[:0]
	s.attrErr = nil
	s.errorOffset = 0

	ll := len(rawLine)
	kind := TEXT
	toff, tend := 0, 0
	if ll >= 2 && rawLine[0] == '<' && rawLine[ll-1] == '>' {
		toff = 1
		ll--
		switch {
		case rawLine[1] == '/':
			kind = TAIL
			toff = 2
		case rawLine[ll-1] == '/':
			kind = ELEM
			ll--
		case rawLine[ll-1] == '?':
			kind = ELEM
			ll--
		default:
			kind = HEAD
		}
		rawLine[ll] = 0
		tend = ll
		if kind != TAIL {
			if sp := bytes.IndexByte(rawLine[toff:ll], ' '); sp >= 0 {
				tend = toff + sp
				rawLine[tend] = 0
				for i := tend + 1; i < ll; i++ {
					if rawLine[i] != ' ' {
						s.attrCount = -1 // attributes present, parse lazily
						break
					}
				}
			}
		}
	} else {
		ll = escape.UnescapeInPlace(rawLine, ll)
	}
	s.kind = kind
	s.lineLength = ll
	s.tagOffset = toff
	s.tagEnd = tend
}

// Kind classifies the current line, scanning it if this has not
// already happened since the last Next.
func (s *Scanner) Kind() LineKind {
	if s.needScan() {
		s.doScan()
	}
	return s.kind
}

// IsText reports whether the current line is TEXT.
func (s *Scanner) IsText() bool { return s.Kind() == TEXT }

// IsMarkup reports whether the current line is HEAD, TAIL, or ELEM.
func (s *Scanner) IsMarkup() bool { return s.Kind() != TEXT }

// DoesPush reports whether the current line opens an element (HEAD).
func (s *Scanner) DoesPush() bool { return s.Kind() == HEAD }

// DoesPop reports whether the current line closes an element (TAIL).
func (s *Scanner) DoesPop() bool { return s.Kind() == TAIL }

// Text returns the text of a TEXT line, Special Six entities already
// decoded. It panics if the current line is not TEXT.
func (s *Scanner) Text() []byte {
	if s.Kind() != TEXT {
		panic("xmlscan: Text called on a markup line")
	}
	return s.r.CurrentLine()[:s.lineLength]
}

// Tag returns the element name of a markup line, or nil for TEXT.
func (s *Scanner) Tag() []byte {
	s.Kind() // force a scan
	if s.tagOffset == 0 {
		return nil
	}
	return s.r.CurrentLine()[s.tagOffset:s.tagEnd]
}

// HasTag reports whether the current line is markup with the given
// tag name.
func (s *Scanner) HasTag(tag string) bool {
	t := s.Tag()
	return t != nil && string(t) == tag
}

// parseAttrs lazily splits the attribute region of a markup line into
// name='value' pairs, decoding Special Six entities in each value.
// Already-parsed attributes remain valid even if a later one is
// malformed.
func (s *Scanner) parseAttrs() {
	rawLine := s.r.CurrentLine()
	scan, limit := s.tagEnd+1, s.lineLength
	aindex := 0
	for scan < limit {
		if rawLine[scan] == ' ' || rawLine[scan] == '\t' {
			scan++
			continue
		}
		nameStart := scan
		eq := bytes.IndexByte(rawLine[scan:limit], '=')
		if eq < 0 {
			s.errorOffset = scan
			s.attrErr = xmlerr.New("xmlscan.Scanner.parseAttrs", xmlerr.MalformedAttribute,
				xmlerr.WithLine(s.r.Lineno()), xmlerr.WithPosition(scan),
				xmlerr.WithMessage("missing '=' after attribute name"))
			break
		}
		eq += scan
		rawLine[eq] = 0
		name := rawLine[nameStart:eq]
		scan = eq + 1

		endq := byte('\'')
		if scan < limit && rawLine[scan] == '\'' {
			scan++
		} else {
			endq = ' '
		}
		if endq == ' ' && s.strict {
			s.errorOffset = scan
			s.attrErr = xmlerr.New("xmlscan.Scanner.parseAttrs", xmlerr.MalformedAttribute,
				xmlerr.WithLine(s.r.Lineno()), xmlerr.WithPosition(scan),
				xmlerr.WithMessage("attribute value must be quoted"))
			break
		}
		valueStart := scan
		var valueEnd int
		rel := bytes.IndexByte(rawLine[scan:limit], endq)
		if endq == ' ' && rel < 0 {
			rawLine[limit] = 0
			valueEnd = limit
			scan = limit
		} else if rel < 0 {
			s.errorOffset = scan
			s.attrErr = xmlerr.New("xmlscan.Scanner.parseAttrs", xmlerr.MalformedAttribute,
				xmlerr.WithLine(s.r.Lineno()), xmlerr.WithPosition(scan),
				xmlerr.WithMessage("unterminated attribute value"))
			break
		} else {
			valueEnd = scan + rel
			rawLine[valueEnd] = 0
			scan = valueEnd + 1
		}
		value := rawLine[valueStart:valueEnd]
		value = value[:escape.UnescapeInPlace(value, len(value))]

		s.attrs = append(s.attrs, Attr{Name: name, Value: value})
		aindex++
	}
	s.attrCount = aindex
}

// AttrCount returns the number of attributes on the current line,
// parsing them on first use.
func (s *Scanner) AttrCount() int {
	s.Kind()
	if s.attrCount < 0 {
		s.parseAttrs()
	}
	return s.attrCount
}

// AttrErr returns the error from the most recent attribute parse, if
// any attribute on the current line was malformed. Attributes parsed
// before the failure are still available via AttrCount/AttrName/AttrValue.
func (s *Scanner) AttrErr() error {
	s.AttrCount()
	return s.attrErr
}

// AttrName returns the name of the nth attribute, or nil if out of range.
func (s *Scanner) AttrName(n int) []byte {
	if n < 0 || n >= s.AttrCount() {
		return nil
	}
	return s.attrs[n].Name
}

// AttrValue returns the value of the nth attribute, or nil if out of range.
func (s *Scanner) AttrValue(n int) []byte {
	if n < 0 || n >= s.AttrCount() {
		return nil
	}
	return s.attrs[n].Value
}

// AttrIndex returns the index of the attribute with the given name,
// or -1 if there is none.
func (s *Scanner) AttrIndex(name string) int {
	for n := 0; n < s.AttrCount(); n++ {
		if string(s.attrs[n].Name) == name {
			return n
		}
	}
	return -1
}

// HasAttr reports whether an attribute with the given name exists on
// the current line.
func (s *Scanner) HasAttr(name string) bool { return s.AttrIndex(name) >= 0 }

// Attrs returns all attributes of the current line, in textual order.
// The returned slice aliases Scanner-internal state and is invalidated
// by the next call to Next.
func (s *Scanner) Attrs() []Attr {
	s.AttrCount()
	return s.attrs
}

// WriteTo writes an XML-flavored rendering of the current line (no
// trailing newline), re-escaping the Special Six characters on the
// way out. It is the inverse of what doScan and parseAttrs undo on
// the way in.
func (s *Scanner) WriteTo(w io.Writer) (int64, error) {
	var total int64
	write := func(p []byte) error {
		n, err := w.Write(p)
		total += int64(n)
		return err
	}
	writeEscaped := func(p []byte) error {
		n, err := escape.WriteEscaped(w, p)
		total += int64(n)
		return err
	}

	switch s.Kind() {
	case TEXT:
		if err := writeEscaped(s.Text()); err != nil {
			return total, err
		}
		return total, nil
	case TAIL:
		if err := write([]byte("</")); err != nil {
			return total, err
		}
	default:
		if err := write([]byte("<")); err != nil {
			return total, err
		}
	}
	if err := write(s.Tag()); err != nil {
		return total, err
	}
	for n := 0; n < s.AttrCount(); n++ {
		if err := write([]byte(" ")); err != nil {
			return total, err
		}
		if err := write(s.AttrName(n)); err != nil {
			return total, err
		}
		if err := write([]byte("='")); err != nil {
			return total, err
		}
		if err := writeEscaped(s.AttrValue(n)); err != nil {
			return total, err
		}
		if err := write([]byte("'")); err != nil {
			return total, err
		}
	}
	closing := ">"
	if s.Kind() == ELEM {
		tag := s.Tag()
		if len(tag) > 0 && tag[0] == '?' {
			closing = "?>"
		} else {
			closing = "/>"
		}
	}
	if err := write([]byte(closing)); err != nil {
		return total, err
	}
	return total, nil
}
