package block

import "context"

// Source is an abstract byte producer. Read some bytes from an
// external source into dest and report how many were obtained. If
// there are no more, return zero; it must be legal to call ReadBlock
// again after that point, and it must keep returning zero.
//
// ctx lets a caller holding a slow source (an open file, a pipe)
// cancel an in-flight read; a Source should check ctx before
// starting work and return 0 promptly if it is already done, but is
// not required to interrupt a read already underway. There is no
// other timeout mechanism: callers must enforce timing out the
// source externally, per the package's single-owner, synchronous
// design.
type Source interface {
	ReadBlock(ctx context.Context, dest []byte) (n int)

	// Close releases any resource held by the source. It must be
	// idempotent: calling it more than once has no further effect.
	Close() error
}
