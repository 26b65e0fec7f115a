/*
Package pattern implements a scanf-like matcher over an xmlscan.Scanner
element: ScanElem compares the current line's tag and attributes
against a compact format string and, on a match, delivers results to
caller-supplied Sinks.

A format is "tag (name='value')*", for example:

	pattern.ScanElem(s, "item id='%d' label='%p'", pattern.IntSink(&id), pattern.StringSink(&label))

Each of the tag, name, and value positions accepts its own small
sub-language: literal text to match exactly, "*" to match anything,
"%p"/"%0p" to capture a pointer-like byte slice, "%n"/"%ln" to capture
a position or, in the first slot of an attribute pattern, the ambient
attribute index, and "%d"/"%x"/"%i"/"%f" families to parse numeric
literals. A trailing '?' on a name marks that attribute pattern as
"total": if the named attribute is absent, the match continues anyway,
delivering nil for a %p capture and -1 for an attribute-index %n,
instead of failing outright.

Attribute name patterns are either literal (an exact name to look up)
or sequential (matched positionally against attributes in textual
order); the two styles cannot be mixed in a single ScanElem call.

A malformed format string is a caller bug, not a data error, and is
reported as an xmlerr.Error of kind xmlerr.PatternSyntaxError rather
than by panicking.
*/
package pattern
