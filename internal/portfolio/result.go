package portfolio

import (
	"github.com/yourusername/venture-sim/internal/models"
	"github.com/yourusername/venture-sim/internal/scoring"
	"github.com/yourusername/venture-sim/internal/summary"
)

// Member is one selected startup with its allocation
type Member struct {
	Name          string          `json:"name"`
	Weight        float64         `json:"weight"`
	Ticket        float64         `json:"ticket"`
	MinTicket     float64         `json:"min_ticket"`
	SingleScore   float64         `json:"single_score"`
	SingleMetrics summary.Summary `json:"single_metrics"`
	Payoff        summary.Payoff  `json:"payoff"`
	Priors        models.Priors   `json:"priors"`
}

// ObjectiveRun is one row of the auto-mode comparison
type ObjectiveRun struct {
	Objective      scoring.Objective `json:"objective"`
	PortfolioScore float64           `json:"portfolio_score"`
	Selected       []string          `json:"selected"`
	Fallback       bool              `json:"fallback"`
}

// Debug carries search internals for inspection
type Debug struct {
	KEffective         int                `json:"k_effective"`
	Trials             int                `json:"trials"`
	WeightMethod       WeightMethod       `json:"weight_method"`
	CandidateScores    []float64          `json:"candidate_scores"`
	BestCandidateScore float64            `json:"best_candidate_score"`
	RawWeights         []float64          `json:"raw_weights"`
	FinalWeights       []float64          `json:"final_weights"`
	RejectedCandidates int                `json:"rejected_candidates"`
	Fallback           bool               `json:"fallback"`
	Skipped            []string           `json:"skipped,omitempty"`
	ObjectiveSearch    []ObjectiveRun     `json:"objective_search,omitempty"`
	SingleScores       map[string]float64 `json:"single_scores"`
}

// Result is the output of one portfolio run
type Result struct {
	ObjectiveUsed    scoring.Objective `json:"objective_used"`
	PortfolioScore   float64           `json:"portfolio_score"`
	Selected         []Member          `json:"selected"`
	RequestedK       int               `json:"requested_k"`
	Insufficient     bool              `json:"insufficient"`
	Budget           float64           `json:"budget"`
	Invested         float64           `json:"invested"`
	PortfolioMetrics summary.Summary   `json:"portfolio_metrics"`
	PortfolioPayoff  summary.Payoff    `json:"portfolio_payoff"`
	PortfolioSamples []float64         `json:"portfolio_samples,omitempty"`
	Seed             int64             `json:"seed"`
	Debug            Debug             `json:"debug"`
}

// Weights returns member weights keyed by name
func (r *Result) Weights() map[string]float64 {
	out := make(map[string]float64, len(r.Selected))
	for _, m := range r.Selected {
		out[m.Name] = m.Weight
	}
	return out
}

// Member returns the selected member with the given name
func (r *Result) Member(name string) (Member, bool) {
	for _, m := range r.Selected {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}
