package block

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemorySource(t *testing.T) {
	a := assert.New(t)
	src := NewMemorySource([]byte("hello world"))
	buf := make([]byte, 5)

	n := src.ReadBlock(context.Background(), buf)
	a.Equal(5, n)
	a.Equal("hello", string(buf[:n]))

	n = src.ReadBlock(context.Background(), buf)
	a.Equal(5, n)
	a.Equal(" worl", string(buf[:n]))

	n = src.ReadBlock(context.Background(), buf)
	a.Equal(1, n)
	a.Equal("d", string(buf[:n]))

	n = src.ReadBlock(context.Background(), buf)
	a.Equal(0, n, "must report end of input")
	n = src.ReadBlock(context.Background(), buf)
	a.Equal(0, n, "must continue to report end of input after the first zero read")
	a.NoError(src.Close())
}

func TestMemorySourceRange(t *testing.T) {
	a := assert.New(t)
	base := []byte("0123456789")
	src := NewMemorySourceRange(base, 2, 5)
	buf := make([]byte, 10)
	n := src.ReadBlock(context.Background(), buf)
	a.Equal(3, n)
	a.Equal("234", string(buf[:n]))
	a.Equal(0, src.ReadBlock(context.Background(), buf))
}

func TestMemorySourceCancelled(t *testing.T) {
	a := assert.New(t)
	src := NewMemorySource([]byte("hello"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	buf := make([]byte, 5)
	a.Equal(0, src.ReadBlock(ctx, buf))
}

func TestFileSource(t *testing.T) {
	a := assert.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	a.NoError(os.WriteFile(path, []byte("ab\ncd\n"), 0o644))

	src, err := NewFileSource(path)
	a.NoError(err)
	buf := make([]byte, 64)
	n := src.ReadBlock(context.Background(), buf)
	a.Equal("ab\ncd\n", string(buf[:n]))

	n = src.ReadBlock(context.Background(), buf)
	a.Equal(0, n)
	n = src.ReadBlock(context.Background(), buf)
	a.Equal(0, n, "must continue to report end of input")
	a.NoError(src.Close())
	a.NoError(src.Close(), "Close must be idempotent")
}

func TestFileSourceFromOpenFile(t *testing.T) {
	a := assert.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	a.NoError(os.WriteFile(path, []byte("xyz"), 0o644))

	f, err := os.Open(path)
	a.NoError(err)
	src := NewFileSourceFromFile(f, false)
	buf := make([]byte, 64)
	n := src.ReadBlock(context.Background(), buf)
	a.Equal("xyz", string(buf[:n]))
	a.NoError(src.Close())

	// ownership was not taken, so the file must still be open
	_, err = f.Stat()
	a.NoError(err)
	f.Close()
}
