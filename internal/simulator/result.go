package simulator

// TrialParams holds the parameters drawn once per trial, indexed by trial
type TrialParams struct {
	Growth      []float64 `json:"growth"`
	Volatility  []float64 `json:"volatility"`
	FailureProb []float64 `json:"failure_prob"`
	Dilution    []float64 `json:"dilution"`
	ExitSigma   []float64 `json:"exit_sigma"`
	ExitMu      []float64 `json:"exit_mu"`
}

func newTrialParams(n int) TrialParams {
	return TrialParams{
		Growth:      make([]float64, n),
		Volatility:  make([]float64, n),
		FailureProb: make([]float64, n),
		Dilution:    make([]float64, n),
		ExitSigma:   make([]float64, n),
		ExitMu:      make([]float64, n),
	}
}

// Result is the outcome set of one startup over all trials. It is produced
// fresh on every run and not modified afterwards.
type Result struct {
	Name         string    `json:"name"`
	HorizonYears float64   `json:"horizon_years"`
	Months       int       `json:"months"`
	Trials       int       `json:"trials"`
	Seed         int64     `json:"seed"`
	ROI          []float64 `json:"roi"`
	IRR          []float64 `json:"irr"`

	// AliveByMonth has Months+1 entries; index 0 is the entry date.
	AliveByMonth []float64 `json:"alive_by_month"`
	// BreakEvenMonth is the first month the diluted stake reached 1x, or -1.
	BreakEvenMonth []int       `json:"break_even_month"`
	Params         TrialParams `json:"params"`
}

// Failed reports whether trial i ended in total loss
func (r *Result) Failed(i int) bool {
	return r.ROI[i] == 0
}
