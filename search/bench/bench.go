// Package bench times repeated runs of a move search against the same
// budget-bounded scenario and reports the run's mean, standard
// deviation, and a confidence interval around that mean.
package bench

import (
	"context"
	"math"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/tilecraft/rummisolve/hand"
	"github.com/tilecraft/rummisolve/meld"
	"github.com/tilecraft/rummisolve/meldsearch"
	"github.com/tilecraft/rummisolve/movesearch"
)

// Statistic accumulates a running mean and variance via Welford's
// algorithm, so a long bench run never has to retain every sample.
type Statistic struct {
	totalIterations int
	oldM, newM      float64
	oldS, newS      float64
}

func (s *Statistic) push(val float64) {
	s.totalIterations++
	if s.totalIterations == 1 {
		s.oldM = val
		s.newM = val
		s.oldS = 0
		return
	}
	s.newM = s.oldM + (val-s.oldM)/float64(s.totalIterations)
	s.newS = s.oldS + (val-s.oldM)*(val-s.newM)
	s.oldM = s.newM
	s.oldS = s.newS
}

func (s *Statistic) Mean() float64 {
	if s.totalIterations > 0 {
		return s.newM
	}
	return 0
}

func (s *Statistic) Variance() float64 {
	if s.totalIterations <= 1 {
		return 0
	}
	return s.newS / float64(s.totalIterations-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

func (s *Statistic) StandardError() float64 {
	if s.totalIterations == 0 {
		return 0
	}
	return math.Sqrt(s.Variance() / float64(s.totalIterations))
}

func (s *Statistic) Iterations() int {
	return s.totalIterations
}

// ZVal returns the two-tailed Z-value for confidenceInterval (0-100).
func ZVal(confidenceInterval float64) float64 {
	dist := distuv.Normal{Mu: 0, Sigma: 1}
	area := (1 + (confidenceInterval / 100)) / 2
	return dist.Quantile(area)
}

// Scenario is one fixed (table, hand, quality, budget) search to run
// repeatedly.
type Scenario struct {
	Table       []meld.Meld
	Hand        *hand.Hand
	Quality     meldsearch.Quality
	TimeLimit   time.Duration
	MemoFraction float64
}

// Report summarizes N runs of the same scenario: wall-clock statistics
// plus a confidence interval around the mean.
type Report struct {
	Runs               int
	MeanMillis         float64
	StdevMillis        float64
	ConfidenceInterval float64
	MarginMillis       float64
	AllCompleted       bool
}

// Run executes scenario n times, each with a fresh memo cache (so no
// run benefits from a previous run's memoized subproblems), and reports
// timing statistics at the given confidence interval.
func Run(scenario Scenario, n int, confidenceInterval float64) Report {
	var stat Statistic
	allCompleted := true

	for i := 0; i < n; i++ {
		memo := meldsearch.NewMemo(scenario.MemoFraction)
		h := scenario.Hand.Clone()
		deadline := time.Now().Add(scenario.TimeLimit)

		start := time.Now()
		result := movesearch.FindBest(context.Background(), scenario.Table, h, scenario.Quality, deadline, memo)
		elapsed := time.Since(start)

		stat.push(float64(elapsed.Milliseconds()))
		if !result.SearchCompleted {
			allCompleted = false
		}
	}

	z := ZVal(confidenceInterval)
	margin := z * stat.StandardError()

	return Report{
		Runs:               stat.Iterations(),
		MeanMillis:         stat.Mean(),
		StdevMillis:        stat.Stdev(),
		ConfidenceInterval: confidenceInterval,
		MarginMillis:       margin,
		AllCompleted:       allCompleted,
	}
}
