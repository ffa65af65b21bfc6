package valueengine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueAutoCreateString(t *testing.T) {
	v := NewValue()
	require.True(t, v.IsNil())

	s, err := v.Str(true)
	require.NoError(t, err)
	require.NotNil(t, s)
	require.Equal(t, KindString, v.Kind())
}

func TestValueWrongType(t *testing.T) {
	v := NewValue()
	_, err := v.Str(true)
	require.NoError(t, err)

	_, err = v.List(true)
	require.ErrorIs(t, err, ErrWrongType)

	_, err = v.Set(true, 512)
	require.ErrorIs(t, err, ErrWrongType)

	_, err = v.ZSet(true)
	require.ErrorIs(t, err, ErrWrongType)
}

func TestValueReadOnlyDoesNotCreate(t *testing.T) {
	v := NewValue()
	s, err := v.StrReadOnly()
	require.NoError(t, err)
	require.Nil(t, s)
	require.True(t, v.IsNil())

	l, err := v.List(false)
	require.NoError(t, err)
	require.Nil(t, l)
	require.True(t, v.IsNil())
}

func TestValueEmptyAfterDrain(t *testing.T) {
	v := NewValue()
	l, _ := v.List(true)
	l.PushRight(b("x"))
	require.False(t, v.Empty())
	l.PopLeft()
	require.True(t, v.Empty())

	sv, _ := v.Str(true)
	sv.Set(nil)
	require.False(t, v.Empty())
}

func TestValueKindString(t *testing.T) {
	require.Equal(t, "string", KindString.String())
	require.Equal(t, "list", KindList.String())
	require.Equal(t, "set", KindSet.String())
	require.Equal(t, "zset", KindZSet.String())
	require.Equal(t, "none", KindNil.String())
}
