package xmlerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindRoundTrip(t *testing.T) {
	a := assert.New(t)
	for _, k := range []Kind{EndOfInput, AllocationFailure, MalformedAttribute, PatternSyntaxError} {
		text, err := k.MarshalText()
		a.NoError(err)
		var got Kind
		a.NoError(got.UnmarshalText(text))
		a.Equal(k, got)
	}
	var bad Kind
	a.Error(bad.UnmarshalText([]byte("nonsense")))
}

func TestErrorMessage(t *testing.T) {
	a := assert.New(t)
	e := New("line.Reader.fill", AllocationFailure, WithLine(3), WithPosition(12), WithMessage("buffer grow failed"))
	a.Equal("line.Reader.fill: allocation-failure at line 3 offset 12: buffer grow failed", e.Error())
}

func TestWrapPreservesCause(t *testing.T) {
	a := assert.New(t)
	cause := errors.New("boom")
	e := Wrap(cause, "pattern.ScanElem", PatternSyntaxError)
	a.ErrorIs(e, cause)
	a.Contains(e.Error(), "boom")
}

func TestIsComparesKindOnly(t *testing.T) {
	a := assert.New(t)
	e1 := New("op1", MalformedAttribute)
	e2 := New("op2", MalformedAttribute, WithMessage("different"))
	a.True(errors.Is(e1, e2))

	e3 := New("op3", PatternSyntaxError)
	a.False(errors.Is(e1, e3))
}
