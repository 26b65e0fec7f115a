package pattern

// result carries whatever a single scanf-style conversion produced:
// a byte-slice capture, an integer, or a float. Which field is
// meaningful depends on the Sink that consumes it.
type result struct {
	bytes []byte
	isInt bool
	i     int64
	f     float64
}

// Sink receives the result of one scanf-style conversion in a format
// string, in left-to-right order, skipping conversions like "*" or a
// literal match that produce nothing. Construct one with IntSink,
// LongSink, StringSink, BytesSink, FloatSink, or AttrIndexSink.
type Sink func(result)

// IntSink stores a captured integer (from %d, %x, %i, or a position
// count from %n) into *dst.
func IntSink(dst *int) Sink {
	return func(r result) {
		if r.isInt {
			*dst = int(r.i)
		}
	}
}

// LongSink is the int64 analogue of IntSink, for %ld/%lld/%ln results.
func LongSink(dst *int64) Sink {
	return func(r result) {
		if r.isInt {
			*dst = r.i
		}
	}
}

// FloatSink stores a captured %f or %lf conversion into *dst.
func FloatSink(dst *float64) Sink {
	return func(r result) { *dst = r.f }
}

// StringSink stores a %p or %0p capture as a freshly copied string.
// Use BytesSink to avoid the copy when the alias lifetime is acceptable.
func StringSink(dst *string) Sink {
	return func(r result) { *dst = string(r.bytes) }
}

// BytesSink stores a %p or %0p capture as a byte slice aliasing the
// underlying line buffer; it is invalidated by the next line read.
func BytesSink(dst *[]byte) Sink {
	return func(r result) { *dst = r.bytes }
}

// AttrIndexSink stores the ambient attribute index reported by a lone
// %n in the first position of an attribute name pattern, or -1 if the
// attribute pattern was total and the attribute was absent.
func AttrIndexSink(dst *int) Sink {
	return func(r result) {
		if r.isInt {
			*dst = int(r.i)
		}
	}
}

// DiscardSink ignores its conversion; useful as a placeholder to keep
// sink/conversion counts aligned when a captured value is not wanted.
func DiscardSink() Sink {
	return func(result) {}
}
