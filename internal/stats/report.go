package stats

// Report is the JSON form of Statistics written by `memorymatch simulate --output`
type Report struct {
	Strategy     string     `json:"strategy,omitempty"`
	Seed         int64      `json:"seed"`
	Games        int        `json:"games"`
	MeanMoves    float64    `json:"meanMoves"`
	MedianMoves  float64    `json:"medianMoves"`
	StdDevMoves  float64    `json:"stdDevMoves"`
	CI95         [2]float64 `json:"ci95"`
	MinMoves     int        `json:"minMoves"`
	MaxMoves     int        `json:"maxMoves"`
	MeanScore    float64    `json:"meanScore"`
	PerfectGames int        `json:"perfectGames"`
	Efficiency   float64    `json:"efficiency"`
	Moves        []float64  `json:"moves,omitempty"`
}

// Report summarises the statistics. Per-game move counts are included only
// when withMoves is set.
func (s *Statistics) Report(strategy string, seed int64, withMoves bool) Report {
	lo, hi := s.ConfidenceInterval95()
	r := Report{
		Strategy:     strategy,
		Seed:         seed,
		Games:        s.Games,
		MeanMoves:    s.Mean(),
		MedianMoves:  s.Median(),
		StdDevMoves:  s.StdDev(),
		CI95:         [2]float64{lo, hi},
		MinMoves:     s.MinMoves,
		MaxMoves:     s.MaxMoves,
		MeanScore:    s.MeanScore(),
		PerfectGames: s.PerfectGames,
		Efficiency:   s.Efficiency(),
	}
	if withMoves {
		r.Moves = append([]float64(nil), s.Values...)
	}
	return r
}
