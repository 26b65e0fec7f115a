package pattern

import (
	"strconv"
	"strings"

	"github.com/rose00/xmlinput/escape"
	"github.com/rose00/xmlinput/xmlerr"
	"github.com/rose00/xmlinput/xmlscan"
)

// saneNameExclusions lists characters that can never appear in a
// literal tag or attribute name pattern.
const saneNameExclusions = "&<>\"'\n=?/"

func isSaneNameStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

// findChar returns the index of the first occurrence of ch in
// buf[beg:end], or end if there is none — the same "not found means
// end" convention used throughout this matcher, mirroring the pointer
// arithmetic it was ported from.
func findChar(buf []byte, beg, end int, ch byte) int {
	for i := beg; i < end; i++ {
		if buf[i] == ch {
			return i
		}
	}
	return end
}

func findStr(buf []byte, beg, end int, s string) int {
	if len(s) == 0 {
		return beg
	}
	if len(s) == 1 {
		return findChar(buf, beg, end, s[0])
	}
	for i := beg; i+len(s) <= end; i++ {
		if string(buf[i:i+len(s)]) == s {
			return i
		}
	}
	return end
}

func isCharClassIn(buf []byte, beg, end int, chars string) bool {
	for i := beg; i < end; i++ {
		if strings.IndexByte(chars, buf[i]) >= 0 {
			return true
		}
	}
	return false
}

// matcher is the state machine that drives one ScanElem call,
// stepping through the T (A='V')* segments of the format string
// against the tag name and attributes of a single xmlscan.Scanner
// element.
type matcher struct {
	elem *xmlscan.Scanner

	fmtBytes []byte
	fmtLimit int

	fpBase, fpLimit, fpNextBase int
	totalMatch                  bool
	prematch0, prematch1        int // -1 when unset

	which   byte // 'T', 'A', 'V', 'E' (done), or 'F' (failed)
	attrNum int
	base    []byte
	limit   int
	scanPos int
	lastN   int

	sinks   []Sink
	sinkPos int

	err error
}

func newMatcher(elem *xmlscan.Scanner, format string, sinks []Sink) *matcher {
	m := &matcher{
		elem:      elem,
		fmtBytes:  []byte(format),
		prematch0: -1, prematch1: -1,
		sinks: sinks,
	}
	m.fmtLimit = len(m.fmtBytes)
	m.nextSegment('T')
	return m
}

func (m *matcher) isDone() bool   { return m.which == 'E' }
func (m *matcher) isFailed() bool { return m.which == 'F' }

func (m *matcher) badSyntax(what string) bool {
	if m.err == nil {
		m.err = xmlerr.New("pattern.ScanElem", xmlerr.PatternSyntaxError,
			xmlerr.WithMessage("bad scan format "+strconv.Quote(string(m.fmtBytes))+": "+what))
	}
	m.which = 'F'
	return false
}

// nextSegment advances the state machine to the tag ('T'), the next
// attribute name ('A'), or the matching value ('V'). For 'A' it
// returns false both on bad syntax and on ordinary end-of-pattern
// (check isFailed to distinguish the two).
func (m *matcher) nextSegment(which byte) bool {
	if m.which == 'F' {
		return false
	}
	switch which {
	case 'T':
		m.fpBase = 0
		m.fpLimit = findChar(m.fmtBytes, 0, m.fmtLimit, ' ')
		m.fpNextBase = m.fpLimit
		if m.fpNextBase < m.fmtLimit {
			m.fpNextBase++
		}
		m.totalMatch = m.fpLimit > m.fpBase && m.fmtBytes[m.fpLimit-1] == '?'
		if m.totalMatch {
			m.fpLimit--
		}
		bad := m.fpBase == m.fpLimit ||
			(!isSaneNameStart(m.fmtBytes[m.fpBase]) && strings.IndexByte("%*", m.fmtBytes[m.fpBase]) < 0) ||
			isCharClassIn(m.fmtBytes, m.fpBase, m.fpLimit, saneNameExclusions)
		if bad {
			return m.badSyntax("bad tag")
		}
		m.which = 'T'
		return true

	case 'A':
		m.fpBase = m.fpNextBase
		for m.fpBase < m.fmtLimit && m.fmtBytes[m.fpBase] == ' ' {
			m.fpBase++
		}
		if m.fpBase == m.fmtLimit {
			m.fpLimit = m.fmtLimit
			m.which = 'E'
			return false
		}
		idx := findStr(m.fmtBytes, m.fpBase, m.fmtLimit, "='")
		m.fpNextBase = idx
		m.fpLimit = idx
		m.totalMatch = m.fpLimit > m.fpBase && m.fmtBytes[m.fpLimit-1] == '?'
		if m.totalMatch {
			m.fpLimit--
		}
		if (!m.totalMatch && m.fpLimit == m.fpBase) || m.fpNextBase == m.fmtLimit {
			return m.badSyntax("missing attribute name")
		}
		nameOK := isSaneNameStart(m.fmtBytes[m.fpBase]) ||
			strings.IndexByte("%*", m.fmtBytes[m.fpBase]) >= 0 ||
			m.fpLimit == m.fpBase
		if !nameOK || isCharClassIn(m.fmtBytes, m.fpBase, m.fpLimit, saneNameExclusions) {
			return m.badSyntax("bad attribute name")
		}
		if m.fpNextBase < m.fmtLimit {
			m.fpNextBase += 2 // skip "='"
		}
		m.which = 'A'
		return true

	case 'V':
		m.fpBase = m.fpNextBase
		m.fpLimit = findChar(m.fmtBytes, m.fpBase, m.fmtLimit, '\'')
		if m.fpLimit == m.fmtLimit {
			return m.badSyntax("no closing ' for attribute value")
		}
		m.fpNextBase = m.fpLimit + 1
		m.which = 'V'
		return true
	}
	m.which = 'F'
	return false
}

func (m *matcher) loadCommon(attrNum int, base []byte) {
	m.attrNum = attrNum
	m.base = base
	m.limit = len(base)
	m.scanPos = 0
}

func (m *matcher) loadTag() {
	tag := m.elem.Tag()
	m.loadCommon(-1, tag)
}

func (m *matcher) loadForMissingAttr() { m.loadCommon(-1, nil) }

func (m *matcher) loadAttr(attrNum int) {
	if attrNum < 0 {
		m.loadForMissingAttr()
		return
	}
	m.loadCommon(attrNum, m.elem.AttrName(attrNum))
}

func (m *matcher) loadValue(attrNum int) {
	if attrNum < 0 {
		m.loadForMissingAttr()
		return
	}
	m.loadCommon(attrNum, m.elem.AttrValue(attrNum))
}

// literalName reports the literal (non-wildcard) name at the current
// segment, if its pattern is a plain string possibly bracketed by %n
// conversions.
func (m *matcher) literalName() ([]byte, bool) {
	fp := m.fpBase
	for {
		next := m.skipConv(fp, 'n')
		if next <= fp {
			break
		}
		fp = next
	}
	result := fp
	fp = m.skipPlainChars(fp)
	resultLen := fp - result
	for {
		next := m.skipConv(fp, 'n')
		if next <= fp {
			break
		}
		fp = next
	}
	if fp == m.fpLimit && resultLen > 0 {
		return m.fmtBytes[result : result+resultLen], true
	}
	return nil, false
}

func (m *matcher) skipConv(fp int, skipc byte) int {
	fp0 := fp
	if fp < m.fpLimit && m.fmtBytes[fp] == '%' {
		fp++
		for fp < m.fpLimit && (m.fmtBytes[fp] == 'l' || m.fmtBytes[fp] == '*') {
			fp++
		}
		if fp < m.fpLimit && m.fmtBytes[fp] == skipc {
			return fp + 1
		}
	}
	return fp0
}

func (m *matcher) lookingAtEscape(fp int) (escLen int, unesc byte, ok bool) {
	if fp >= m.fpLimit || m.fmtBytes[fp] != '&' {
		return 0, 0, false
	}
	n, ch, found := escape.FindEscape(m.fmtBytes[fp:m.fpLimit])
	if !found {
		return 0, 0, false
	}
	return n, ch, true
}

func (m *matcher) skipPlainChars(fp int) int {
	for fp < m.fpLimit {
		switch m.fmtBytes[fp] {
		case '*', ' ', '%':
			return fp
		case '&':
			if _, _, ok := m.lookingAtEscape(fp); ok {
				return fp
			}
		}
		fp++
	}
	return fp
}

// prematchChar looks ahead (skipping a %n) for a literal character
// that will follow the current conversion, bracketing it in
// prematch0/prematch1 so %p knows where to stop. It returns 0 if
// there is nothing to look ahead to.
func (m *matcher) prematchChar(fp int) byte {
	lafp := m.skipConv(fp, 'n')
	if lafp >= m.fpLimit {
		return 0
	}
	limitc := m.fmtBytes[lafp]
	m.prematch0, m.prematch1 = lafp, lafp
	switch limitc {
	case '%':
		if lafp+1 < m.fpLimit && m.fmtBytes[lafp+1] == '%' {
			m.prematch1 += 2
			return limitc
		}
		m.prematch1++
		return ' '
	case '*', ' ':
		m.prematch1++
		return ' '
	case '&':
		escLen, unesc, ok := m.lookingAtEscape(lafp)
		if ok {
			m.prematch1 += escLen
			return unesc
		}
		m.prematch1++
		return limitc
	}
	m.prematch1++
	return limitc
}

func (m *matcher) isFirstFormat(fp0 int) bool { return fp0 == m.fpBase }
func (m *matcher) isLastFormat(fp int) bool   { return fp == m.fpLimit }

func (m *matcher) mustBeSimple(what string) bool {
	if m.which == 'V' {
		if !m.totalMatch {
			return true
		}
		return m.badSyntax("pattern must be total after ?=")
	}
	return m.badSyntax(what)
}

func (m *matcher) emit(r result) {
	if m.sinkPos < len(m.sinks) {
		m.sinks[m.sinkPos](r)
	}
	m.sinkPos++
}

// finishSegment runs match() over the current segment and applies the
// tag-specific "empty text line can't satisfy a non-total tag" rule.
func (m *matcher) finishSegment() bool {
	if m.which == 'F' {
		return false
	}
	ok := m.match()
	if m.which == 'T' && !m.totalMatch && m.limit == 0 {
		ok = false
	}
	return ok
}

var percentTokens = []string{
	"%ln", "%lld", "%llx", "%lli",
	"%0p", "%ld", "%lx", "%li", "%lf",
	"%*n", "%n", "%p", "%d", "%x", "%i", "%f", "%%",
}

func (m *matcher) match() bool {
	fp := m.fpBase
	m.scanPos = 0
	m.lastN = 0
	for fp < m.fpLimit {
		fp0 := fp
		var ok bool
		switch m.fmtBytes[fp] {
		case '*':
			fp++
			ok = m.matchAll(fp0)
		case ' ':
			fp++
			ok = m.matchSpaces(fp0)
		case '%':
			tok, found := matchToken(m.fmtBytes, fp, m.fpLimit)
			if !found {
				return m.badSyntax("unknown % pattern")
			}
			fp += len(tok)
			ok = m.applyToken(tok, fp0, fp)
		default:
			var advanced int
			ok, advanced = m.matchLiteral(fp0)
			fp = advanced
		}
		if !ok {
			return false
		}
		if m.which == 'F' { // badSyntax was called by one of the matchers
			return false
		}
	}
	return m.scanPos == m.limit || m.totalMatch
}

func matchToken(fmtBytes []byte, fp, limit int) (string, bool) {
	for _, tok := range percentTokens {
		n := len(tok)
		if fp+n <= limit && string(fmtBytes[fp:fp+n]) == tok {
			return tok, true
		}
	}
	return "", false
}

func (m *matcher) applyToken(tok string, fp0, fp int) bool {
	switch tok {
	case "%*n":
		return m.matchPosition(fp0, fp, true)
	case "%n", "%ln":
		return m.matchPosition(fp0, fp, false)
	case "%p", "%0p":
		return m.matchStrptr(tok, fp0, fp)
	case "%d", "%ld", "%lld", "%x", "%lx", "%llx", "%i", "%li", "%lli":
		return m.matchStrtol(tok, fp0, fp)
	case "%f", "%lf":
		return m.matchStrtod(fp0, fp)
	case "%%":
		ok, _ := m.matchLiteral(fp0)
		return ok
	}
	return m.badSyntax("unknown % pattern")
}

func (m *matcher) matchAll(fp0 int) bool {
	if !m.isLastFormat(fp0 + 1) {
		return m.badSyntax("* must be last")
	}
	m.scanPos = m.limit
	return true
}

func (m *matcher) matchSpaces(fp0 int) bool {
	if !m.mustBeSimple("no spaces in names") {
		return false
	}
	for m.scanPos < m.limit && isSpace(m.base[m.scanPos]) {
		m.scanPos++
	}
	return true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func (m *matcher) matchPosition(fp0, fp int, discard bool) bool {
	if m.isFirstFormat(fp0) {
		if m.which == 'T' {
			return m.badSyntax("initial %n cannot apply to tag; use %p or %p%n")
		}
		if !discard {
			m.emit(result{isInt: true, i: int64(m.attrNum)})
		}
		if m.isLastFormat(fp) {
			m.scanPos = m.limit
		}
		return true
	}
	if m.totalMatch && !m.mustBeSimple("no %n counts in total patterns") {
		return false
	}
	n := m.scanPos - m.lastN
	m.lastN = m.scanPos
	if !discard {
		m.emit(result{isInt: true, i: int64(n)})
	}
	return true
}

func (m *matcher) matchStrptr(tok string, fp0, fp int) bool {
	nullTerminate := tok == "%0p" && m.which == 'V'
	limitc := m.prematchChar(fp)
	if limitc != 0 || m.scanPos > 0 {
		if !m.mustBeSimple("no partial matches in names") {
			return false
		}
	}
	if m.base == nil {
		// only reached for a total-match attribute that was absent, or
		// for the (empty) tag of a TEXT line
		m.emit(result{bytes: nil})
		return true
	}
	start := m.scanPos
	switch {
	case limitc == 0:
		m.scanPos = m.limit
	case limitc == ' ':
		for m.scanPos < m.limit && !isSpace(m.base[m.scanPos]) {
			m.scanPos++
		}
		m.prematch0 = -1
		if nullTerminate && m.scanPos < m.limit {
			m.base[m.scanPos] = 0
			m.scanPos++
		}
	default:
		for m.scanPos < m.limit && m.base[m.scanPos] != limitc {
			m.scanPos++
		}
		if m.scanPos >= m.limit {
			m.prematch0 = -1
		} else if nullTerminate {
			m.base[m.scanPos] = 0
			m.scanPos++
		}
	}
	end := m.scanPos
	if nullTerminate && end > start && end <= len(m.base) && m.base[end-1] == 0 {
		end--
	}
	m.emit(result{bytes: m.base[start:end]})
	return true
}

func (m *matcher) matchStrtol(tok string, fp0, fp int) bool {
	if !m.mustBeSimple("no numerals in names") {
		return false
	}
	base := 10
	if strings.HasSuffix(tok, "x") {
		base = 16
	}
	p := m.scanPos
	for p < m.limit && isSpace(m.base[p]) {
		p++
	}
	q := p
	neg := false
	if q < m.limit && (m.base[q] == '+' || m.base[q] == '-') {
		neg = m.base[q] == '-'
		q++
	}
	digitsStart := q
	isHexDigit := func(c byte) bool {
		return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	}
	isDecDigit := func(c byte) bool { return c >= '0' && c <= '9' }
	for q < m.limit {
		if base == 16 && isHexDigit(m.base[q]) {
			q++
		} else if base != 16 && isDecDigit(m.base[q]) {
			q++
		} else {
			break
		}
	}
	if q == digitsStart {
		return false
	}
	text := string(m.base[digitsStart:q])
	n, err := strconv.ParseInt(text, base, 64)
	if err != nil {
		return false
	}
	if neg {
		n = -n
	}
	m.scanPos = q
	m.emit(result{isInt: true, i: n})
	return true
}

func (m *matcher) matchStrtod(fp0, fp int) bool {
	if !m.mustBeSimple("no numerals in names") {
		return false
	}
	p := m.scanPos
	for p < m.limit && isSpace(m.base[p]) {
		p++
	}
	q := p
	for q < m.limit && (isDigitOrFloatChar(m.base[q])) {
		q++
	}
	if q == p {
		return false
	}
	text := string(m.base[p:q])
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return false
	}
	m.scanPos = q
	m.emit(result{f: f})
	return true
}

func isDigitOrFloatChar(c byte) bool {
	return (c >= '0' && c <= '9') || c == '+' || c == '-' || c == '.' ||
		c == 'e' || c == 'E'
}

// matchLiteral matches a single plain character (or an escape of one
// of the Special Six) at fp0, returning the new format cursor.
func (m *matcher) matchLiteral(fp0 int) (bool, int) {
	if m.prematch0 >= 0 && fp0 == m.prematch0 {
		fp := m.prematch1
		m.prematch0 = -1
		return true, fp
	}
	p := fp0
	q := fp0
	if m.fmtBytes[p] == '%' {
		q = p + 2
		p++ // disregard the leading '%' of "%%"
	} else {
		q = m.skipPlainChars(p)
	}
	length := q - p
	var lit byte
	haveLit := false
	if p == q {
		if escLen, unesc, ok := m.lookingAtEscape(p); ok {
			lit = unesc
			haveLit = true
			length = 1
			q = p + escLen
		}
	}
	if !haveLit {
		if p >= q {
			return m.badSyntax("empty literal"), q
		}
		lit = 0 // multi-byte literal handled via slice compare below
	}
	if m.base == nil {
		// only reached for a total-match attribute that was absent, or
		// for the (empty) tag of a TEXT line
		if m.which == 'A' || m.which == 'T' {
			m.scanPos++
			return true, q
		}
		return m.mustBeSimple(""), q
	}
	if haveLit {
		if m.scanPos+1 > m.limit || m.base[m.scanPos] != lit {
			return false, q
		}
		m.scanPos++
		return true, q
	}
	if m.scanPos+length > m.limit {
		return false, q
	}
	if string(m.base[m.scanPos:m.scanPos+length]) != string(m.fmtBytes[p:q]) {
		return false, q
	}
	m.scanPos += length
	return true, q
}

// ScanElem matches format against the current tag and attributes of
// s, delivering results to sinks in left-to-right order of the
// conversions that produce one. It returns false, with a nil error,
// on an ordinary match failure; a non-nil error means format itself
// was malformed.
func ScanElem(s *xmlscan.Scanner, format string, sinks ...Sink) (bool, error) {
	next := 0
	return ScanElemFrom(s, &next, format, sinks...)
}

// ScanElemFrom is ScanElem with an explicit, carried attribute cursor:
// *nextAttr gives the attribute to start a sequential match from, and
// is advanced by the number of sequential attribute patterns attempted
// (literal-name patterns leave it unchanged), letting
// repeated calls cycle through all of an element's attributes.
func ScanElemFrom(s *xmlscan.Scanner, nextAttr *int, format string, sinks ...Sink) (bool, error) {
	if !s.IsMarkup() && !strings.Contains(format, "?") {
		return false, nil
	}
	m := newMatcher(s, format, sinks)
	m.loadTag()
	if !m.finishSegment() {
		return false, m.err
	}
	sawLiteral := false
	sawSequential := *nextAttr != 0
	for {
		if !m.nextSegment('A') {
			break
		}
		name, isLiteral := m.literalName()
		thisAttr := -1
		if isLiteral {
			thisAttr = s.AttrIndex(string(name))
			sawLiteral = true
		} else {
			thisAttr = *nextAttr
			*nextAttr++
			if thisAttr >= s.AttrCount() {
				thisAttr = -1
			}
			sawSequential = true
		}
		if sawLiteral && sawSequential {
			m.badSyntax("bad mix of sequential and literal attribute names")
			break
		}
		if thisAttr < 0 && !m.totalMatch {
			break
		}
		m.loadAttr(thisAttr)
		if !m.finishSegment() {
			break
		}
		if !m.nextSegment('V') {
			break
		}
		m.loadValue(thisAttr)
		if !m.finishSegment() {
			break
		}
	}
	return m.isDone(), m.err
}
