package glob

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchStar(t *testing.T) {
	require.True(t, Match("user:*", "user:123"))
	require.True(t, Match("*", ""))
	require.True(t, Match("*", "anything"))
	require.False(t, Match("user:*", "account:1"))
}

func TestMatchQuestion(t *testing.T) {
	require.True(t, Match("h?llo", "hello"))
	require.False(t, Match("h?llo", "hllo"))
}

func TestMatchClass(t *testing.T) {
	require.True(t, Match("[ab]ello", "aello"))
	require.True(t, Match("[ab]ello", "bello"))
	require.False(t, Match("[ab]ello", "cello"))
	require.True(t, Match("[^ab]ello", "cello"))
	require.True(t, Match("[a-c]ello", "bello"))
}

func TestMatchEscape(t *testing.T) {
	require.True(t, Match(`h\*llo`, "h*llo"))
	require.False(t, Match(`h\*llo`, "hello"))
}

func TestMatchAnchored(t *testing.T) {
	require.False(t, Match("foo", "foobar"))
	require.True(t, Match("foo*", "foobar"))
}
