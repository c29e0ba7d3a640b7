package portfolio

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"

	"github.com/yourusername/venture-sim/internal/models"
)

// ticketPlaces is the precision of emitted tickets (cents)
const ticketPlaces = 2

// Combine writes the trial-by-trial weighted sum of samples into dst, growing
// it when needed, and returns it
func Combine(samples [][]float64, weights []float64, dst []float64) []float64 {
	n := 0
	if len(samples) > 0 {
		n = len(samples[0])
	}
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	for i := range dst {
		dst[i] = 0
	}
	for j, col := range samples {
		if weights[j] == 0 {
			continue
		}
		floats.AddScaled(dst, weights[j], col)
	}
	return dst
}

// Allocation is a weight vector converted to tickets that satisfy the
// minimum-ticket and budget constraints
type Allocation struct {
	Weights []float64
	Tickets []decimal.Decimal
	// Candidate is the accepted candidate; its Order is -1 after a fallback projection.
	Candidate Candidate
	Rejected  int
	Fallback  bool
}

// TicketsFloat returns tickets as float64
func (a Allocation) TicketsFloat() []float64 {
	out := make([]float64, len(a.Tickets))
	for i, t := range a.Tickets {
		out[i] = t.InexactFloat64()
	}
	return out
}

// Allocate walks candidates best first and accepts the first whose tickets,
// weight*budget rounded down to cents, all meet their minimum. When none does,
// the best candidate is projected onto the feasible region:
// ticket_j = min_j + (budget - sum(min)) * w_j.
func Allocate(candidates []Candidate, budget float64, minTickets []float64) (Allocation, error) {
	if len(candidates) == 0 {
		return Allocation{}, fmt.Errorf("no weight candidates: %w", models.ErrNoCandidates)
	}
	budgetDec := decimal.NewFromFloat(budget)
	mins := make([]decimal.Decimal, len(minTickets))
	minTotal := decimal.Zero
	for i, m := range minTickets {
		mins[i] = decimal.NewFromFloat(m)
		minTotal = minTotal.Add(mins[i])
	}
	if minTotal.GreaterThan(budgetDec) {
		return Allocation{}, models.NewConfigurationError("budget",
			"minimum tickets total %s exceeds budget %s", minTotal.StringFixed(ticketPlaces), budgetDec.StringFixed(ticketPlaces))
	}

	for rank, c := range candidates {
		if len(c.Weights) != len(mins) {
			return Allocation{}, fmt.Errorf("candidate has %d weights for %d members", len(c.Weights), len(mins))
		}
		tickets := ticketsFor(c.Weights, budgetDec)
		if feasible(tickets, mins, budgetDec) {
			return Allocation{
				Weights:   append([]float64{}, c.Weights...),
				Tickets:   tickets,
				Candidate: c,
				Rejected:  rank,
			}, nil
		}
	}

	best := candidates[0]
	alloc := project(best.Weights, budgetDec, mins, minTotal)
	alloc.Candidate = Candidate{Weights: best.Weights, Score: best.Score, Order: -1}
	alloc.Rejected = len(candidates)
	alloc.Fallback = true
	return alloc, nil
}

func ticketsFor(weights []float64, budget decimal.Decimal) []decimal.Decimal {
	tickets := make([]decimal.Decimal, len(weights))
	for i, w := range weights {
		tickets[i] = decimal.NewFromFloat(w).Mul(budget).RoundDown(ticketPlaces)
	}
	return tickets
}

func feasible(tickets, mins []decimal.Decimal, budget decimal.Decimal) bool {
	total := decimal.Zero
	for i, t := range tickets {
		if t.LessThan(mins[i]) {
			return false
		}
		total = total.Add(t)
	}
	return total.LessThanOrEqual(budget)
}

func project(weights []float64, budget decimal.Decimal, mins []decimal.Decimal, minTotal decimal.Decimal) Allocation {
	free := budget.Sub(minTotal)
	tickets := make([]decimal.Decimal, len(weights))
	projected := make([]float64, len(weights))
	for i, w := range weights {
		tickets[i] = mins[i].Add(decimal.NewFromFloat(w).Mul(free).RoundDown(ticketPlaces))
		projected[i] = tickets[i].InexactFloat64()
	}
	normalize(projected)
	return Allocation{Weights: projected, Tickets: tickets}
}
