// Package stats aggregates results of completed memory games.
package stats

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// GameResult is the outcome of one completed game
type GameResult struct {
	SessionID string
	Seed      int64
	Pairs     int
	Moves     int
	Score     int
	Duration  time.Duration
}

// Perfect reports whether every attempt was a match
func (r GameResult) Perfect() bool {
	return r.Pairs > 0 && r.Moves == r.Pairs
}

// Efficiency is the fraction of attempts that were matches
func (r GameResult) Efficiency() float64 {
	if r.Moves == 0 {
		return 0
	}
	return float64(r.Pairs) / float64(r.Moves)
}

// Statistics tracks move counts across many games
type Statistics struct {
	Games  int
	Sum    float64
	Sum2   float64   // Sum of squares for variance calculation
	Values []float64 // Moves per game, kept for median/percentiles

	// Window caps Values to the most recent games. Zero keeps every game.
	Window int

	MinMoves      int
	MaxMoves      int
	TotalScore    int
	TotalPairs    int
	PerfectGames  int
	TotalDuration time.Duration
}

// Add incorporates a new game result into the statistics
func (s *Statistics) Add(result GameResult) {
	moves := float64(result.Moves)
	if s.Games == 0 || result.Moves < s.MinMoves {
		s.MinMoves = result.Moves
	}
	if result.Moves > s.MaxMoves {
		s.MaxMoves = result.Moves
	}

	s.Games++
	s.Sum += moves
	s.Sum2 += moves * moves
	if s.Window > 0 && len(s.Values) >= s.Window {
		s.Values = append(s.Values[len(s.Values)-s.Window+1:], moves)
	} else {
		s.Values = append(s.Values, moves)
	}
	s.TotalScore += result.Score
	s.TotalPairs += result.Pairs
	s.TotalDuration += result.Duration
	if result.Perfect() {
		s.PerfectGames++
	}
}

// Mean returns the average number of moves per game
func (s *Statistics) Mean() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.Sum / float64(s.Games)
}

// Variance returns the sample variance of moves per game
func (s *Statistics) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.Sum2 - float64(s.Games)*mean*mean) / float64(s.Games-1)
}

// StdDev returns the sample standard deviation
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(math.Max(s.Variance(), 0))
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Games))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// MeanScore returns the average final score
func (s *Statistics) MeanScore() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.TotalScore) / float64(s.Games)
}

// Efficiency returns matched pairs per attempt over all games
func (s *Statistics) Efficiency() float64 {
	if s.Sum == 0 {
		return 0
	}
	return float64(s.TotalPairs) / s.Sum
}

// Median returns the median moves per game, over the window when one is set
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the moves value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate checks the aggregate is internally consistent
func (s *Statistics) Validate() error {
	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}
	want := s.Games
	if s.Window > 0 {
		want = min(want, s.Window)
	}
	if len(s.Values) != want {
		return fmt.Errorf("values array length (%d) does not match expected count (%d)", len(s.Values), want)
	}
	if s.PerfectGames > s.Games {
		return fmt.Errorf("perfect games (%d) exceeds total games (%d)", s.PerfectGames, s.Games)
	}
	if s.Sum < float64(s.TotalPairs) {
		return fmt.Errorf("total moves (%.0f) below total pairs (%d)", s.Sum, s.TotalPairs)
	}
	return nil
}

// Summary renders a one-line human readable summary
func (s *Statistics) Summary() string {
	lo, hi := s.ConfidenceInterval95()
	return fmt.Sprintf("%d games, moves %.2f ± %.2f (95%% CI %.2f..%.2f), min %d, max %d, perfect %d, efficiency %.1f%%",
		s.Games, s.Mean(), s.StdDev(), lo, hi, s.MinMoves, s.MaxMoves, s.PerfectGames, 100*s.Efficiency())
}
