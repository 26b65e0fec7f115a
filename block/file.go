package block

import (
	"context"
	"os"
	"sync"
)

// FileSource reads blocks from an os.File, mapping any read error
// (including io.EOF) to a zero-length read, per the Source contract.
type FileSource struct {
	f        *os.File
	ownsFile bool

	mu     sync.Mutex
	closed bool
}

// NewFileSource opens name for reading and returns a Source backed by it.
func NewFileSource(name string) (*FileSource, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return &FileSource{f: f, ownsFile: true}, nil
}

// NewFileSourceFromFile wraps an already-open *os.File. The file is not
// closed by Close unless takeOwnership is true.
func NewFileSourceFromFile(f *os.File, takeOwnership bool) *FileSource {
	return &FileSource{f: f, ownsFile: takeOwnership}
}

func (s *FileSource) ReadBlock(ctx context.Context, dest []byte) (n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || len(dest) == 0 {
		return 0
	}
	select {
	case <-ctx.Done():
		return 0
	default:
	}
	n, err := s.f.Read(dest)
	if err != nil {
		// Any error, including io.EOF, is reported as end of input;
		// subsequent calls keep returning zero because the next Read
		// on an already-exhausted file also errors.
		return n
	}
	return n
}

func (s *FileSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.ownsFile {
		return s.f.Close()
	}
	return nil
}
