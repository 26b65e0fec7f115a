/*
Package line implements a line-oriented input stream over a pluggable
block.Source.

Reader owns a single growable scratch buffer and presents the "current
line" as a contiguous byte slice, advancing through the source one line
at a time. It supports lookahead (BufferedAfterCurrent), pushback
(PushbackInput, which can even resurrect an already-consumed line), and
tracks a 1-based line number and a byte position for diagnostics.

The buffer starts small (a few hundred bytes) and grows by 3/2 once it
passes a "big" threshold, so that typical short configuration lines
need only the one initial allocation while pathologically long lines
still work. Compaction
(sliding a partial line down to offset zero) is preferred to growth
whenever there is room. A newline ('\n') or a carriage-return/newline
pair ('\r\n') ends a line; the terminator bytes are overwritten with a
zero byte in the buffer so the returned line is exactly the payload,
with no line terminator. A lone '\r' is ordinary data. Embedded zero
bytes in a line are preserved and reported via len(); they are not
treated as line terminators.

Reader is not safe for concurrent use: it is a single-owner buffer, and
its returned line slices are aliases into that buffer, invalidated by
the next call to CurrentLine, Next, PushbackInput, or SetDone.
*/
package line
