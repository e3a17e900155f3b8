package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	e1 := New("cause1")
	e2 := New("cause2").Wrap(e1)
	e := New("outer").Wrap(e2)

	assert.True(t, Is(e, e1))
	assert.True(t, Is(e, e2))
	assert.Equal(t, "outer", e.Error())
	assert.True(t, Is(e.Unwrap(), e2))
}

func TestErrorSentinelImmutable(t *testing.T) {
	sentinel := New("not found")
	wrapped := sentinel.Wrap(fmt.Errorf("original failure"))

	require.Nil(t, sentinel.Unwrap())
	assert.True(t, Is(wrapped, sentinel))
	assert.EqualError(t, wrapped, "not found")
}

func TestErrorAs(t *testing.T) {
	e := New("typed").Wrap(New("inner"))
	var target *Error
	require.True(t, As(e, &target))
	assert.Equal(t, "typed", target.Error())
}
