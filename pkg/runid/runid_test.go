package runid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewIsUnique(t *testing.T) {
	require.NotEqual(t, New(), New())
}

func TestNextClientIDIsMonotonic(t *testing.T) {
	a := NextClientID()
	b := NextClientID()
	require.Greater(t, b, a)
}
