package version

import (
	"testing"

	"github.com/matryer/is"
)

func TestShortRevisionFallsBackWhenUnset(t *testing.T) {
	is := is.New(t)
	saved := GitVersion
	defer func() { GitVersion = saved }()

	GitVersion = "abc"
	is.Equal(ShortRevision(), "dev")

	GitVersion = "abcdef1234"
	is.Equal(ShortRevision(), "abcdef1234")
}
