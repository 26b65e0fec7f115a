/*
Package block defines the abstract byte producer consumed by package line.

A Source is deliberately simpler than io.Reader: it never returns an
error, and a zero-byte read means end of input. It must remain legal to
call ReadBlock again after that point, and it must keep returning zero.
This makes line.Reader's fill loop trivial: no error plumbing, just "did
we get anything or not".
*/
package block
