package route

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type stubHandler int

func TestResolveLiteralAndPrefix(t *testing.T) {
	tbl := New([]Entry[stubHandler]{
		{Pattern: "/api/*", Handler: 1},
		{Pattern: "/*", Handler: 2},
	})

	e, ok := tbl.Resolve("/api/foo")
	require.True(t, ok)
	require.Equal(t, stubHandler(1), e.Handler)

	e, ok = tbl.Resolve("/other")
	require.True(t, ok)
	require.Equal(t, stubHandler(2), e.Handler)
}

func TestResolveFirstMatchWins(t *testing.T) {
	tbl := New([]Entry[stubHandler]{
		{Pattern: "/x", Handler: 1},
		{Pattern: "/*", Handler: 2},
	})
	e, ok := tbl.Resolve("/x")
	require.True(t, ok)
	require.Equal(t, stubHandler(1), e.Handler)
}

func TestResolveNoMatch(t *testing.T) {
	tbl := New([]Entry[stubHandler]{{Pattern: "/only", Handler: 1}})
	_, ok := tbl.Resolve("/nope")
	require.False(t, ok)
}

func TestMatches(t *testing.T) {
	require.True(t, Matches("/foo", "/foo"))
	require.False(t, Matches("/foo", "/foobar"))
	require.True(t, Matches("/foo*", "/foobar"))
	require.True(t, Matches("/foo*", "/foo"))
}
