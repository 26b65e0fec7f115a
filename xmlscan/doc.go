/*
Package xmlscan classifies the current line of a line.Reader as plain
text or XML markup, and lazily parses `name='value'` attributes out of
markup lines.

A Scanner wraps a *line.Reader and exposes the same current-line/Next
cursor, adding a cached, line-number-keyed classification: TEXT, HEAD
(an opening tag), TAIL (a closing tag), or ELEM (a self-closed tag or
processing instruction). Classification and attribute parsing are both
deferred until asked for, and invalidated automatically whenever the
underlying line advances.

Attribute values and text lines have their Special Six XML entities
decoded in place by the escape package; the returned byte slices alias
the line.Reader's own scratch buffer and are valid only until the next
line is read.
*/
package xmlscan
