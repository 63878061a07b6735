package checkers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkEncodeParse(t *testing.T) {
	l := Link{Token{Board: "MW01,KR35", Size: "s", Set: "R"}}
	raw := l.Encode()
	got, err := ParseLink("https://example.invalid/play?" + raw)
	require.NoError(t, err)
	assert.Equal(t, l, got)

	got, err = ParseLink("?" + raw)
	require.NoError(t, err)
	assert.Equal(t, l, got)
}

func TestOpenLinkWithoutQueryStartsDefaultGame(t *testing.T) {
	for _, raw := range []string{"", "?", "  "} {
		s, err := OpenLink(raw)
		require.NoError(t, err)
		assert.Equal(t, DefaultTeam, s.ActiveTeam())
		assert.Equal(t, DefaultBoardSize, s.Size())
		assert.True(t, s.Board().Equal(NewStandardBoard(DefaultBoardSize)))
	}
}

func TestOpenLinkRestoresGame(t *testing.T) {
	src := NewSession(Small, First)
	_, err := src.AttemptMove(Cell{2, 2}, Cell{3, 3})
	require.NoError(t, err)

	s, err := OpenLink(LinkOf(src).Encode())
	require.NoError(t, err)
	assert.Equal(t, Second, s.ActiveTeam())
	assert.True(t, src.Board().Equal(s.Board()))
}

func TestOpenLinkFallsBackOnBrokenToken(t *testing.T) {
	s, err := OpenLink("board=ZZ99&size=s&set=W")
	assert.ErrorIs(t, err, ErrInvalidToken)
	require.NotNil(t, s)
	assert.True(t, s.Board().Equal(NewStandardBoard(DefaultBoardSize)))

	s, err = OpenLink("board=MW01&size=s&set=%zz")
	assert.ErrorIs(t, err, ErrInvalidToken)
	require.NotNil(t, s)
}
