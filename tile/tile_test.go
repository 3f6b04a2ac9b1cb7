package tile

import (
	"testing"

	"github.com/matryer/is"
)

func TestParseRoundTrip(t *testing.T) {
	is := is.New(t)
	cases := []string{"r1", "b12", "y13", "k7", "w"}
	for _, s := range cases {
		tl, err := Parse(s)
		is.NoErr(err)
		is.Equal(tl.String(), s)
	}
}

func TestParseErrors(t *testing.T) {
	is := is.New(t)
	for _, s := range []string{"", "g5", "r0", "r14", "r"} {
		_, err := Parse(s)
		is.True(err != nil)
	}
}

func TestWildEquality(t *testing.T) {
	is := is.New(t)
	is.Equal(Wild, Wild)
	is.True(Wild != New(Red, 5))
}

func TestColoredTileIdentity(t *testing.T) {
	is := is.New(t)
	tl := New(Blue, 9)
	is.Equal(tl.Color(), Blue)
	is.Equal(tl.Number(), 9)
	is.True(!tl.IsWild())
}
