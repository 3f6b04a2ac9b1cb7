package bench

import (
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/tilecraft/rummisolve/hand"
	"github.com/tilecraft/rummisolve/meldsearch"
	"github.com/tilecraft/rummisolve/tile"
)

func TestStatisticMatchesKnownMeanAndStdev(t *testing.T) {
	is := is.New(t)
	var s Statistic
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		s.push(v)
	}
	is.Equal(s.Mean(), 5.0)
	is.True(math_abs(s.Stdev()-2.138) < 0.01)
}

func math_abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func TestZValNinetyFiveIsAboutOnePointNineSix(t *testing.T) {
	is := is.New(t)
	z := ZVal(95)
	is.True(math_abs(z-1.96) < 0.01)
}

func TestRunReportsCompletedRunsOverEasyScenario(t *testing.T) {
	is := is.New(t)
	h := hand.New()
	h.Add(tile.New(tile.Red, 7))
	h.Add(tile.New(tile.Blue, 7))
	h.Add(tile.New(tile.Yellow, 7))

	scenario := Scenario{
		Hand:         h,
		Quality:      meldsearch.MinTiles,
		TimeLimit:    500 * time.Millisecond,
		MemoFraction: 0.01,
	}
	report := Run(scenario, 3, 95)
	is.Equal(report.Runs, 3)
	is.True(report.AllCompleted)
	is.True(report.MeanMillis >= 0)
}
