/*
Package xmlerr is the shared error taxonomy for the xmlinput packages.

Errors are never raised through panics in normal operation; they are
observable either via sticky boolean state on the stream (cheap to
check in hot paths) or as a returned error carrying a Kind and enough
context to explain itself in a log line. Kind distinguishes normal
termination (EndOfInput), resource exhaustion (AllocationFailure),
recoverable per-line damage (MalformedAttribute), caller mistakes
(PatternSyntaxError), and structural mismatches across lines, such as
an unmatched closing tag found by query.Build (MatchFailure). A scan
pattern that simply does not match is an ordinary false return, not an
error.
*/
package xmlerr
