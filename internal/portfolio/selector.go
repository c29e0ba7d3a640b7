package portfolio

import (
	"fmt"

	"github.com/yourusername/venture-sim/internal/models"
	"github.com/yourusername/venture-sim/internal/scoring"
)

// Selection is the subset chosen by the selector
type Selection struct {
	Members    []scoring.ScoredStartup
	RequestedK int
	// Skipped lists ranked candidates passed over because their minimum
	// ticket did not fit the remaining budget.
	Skipped []string
}

// Insufficient reports whether fewer startups fit than were requested
func (s Selection) Insufficient() bool {
	return len(s.Members) < s.RequestedK
}

// Names returns the selected names in rank order
func (s Selection) Names() []string {
	names := make([]string, len(s.Members))
	for i, m := range s.Members {
		names[i] = m.Name()
	}
	return names
}

// Select ranks candidates by score and accepts them greedily until k are
// chosen. A candidate whose minimum ticket would push the committed total past
// budget is skipped; selection continues with the next one.
func Select(scored []scoring.ScoredStartup, budget, minTicket float64, k int) (Selection, error) {
	if k <= 0 {
		return Selection{}, models.NewConfigurationError("k", "must be positive, got %d", k)
	}
	if budget < minTicket {
		return Selection{}, models.NewConfigurationError("budget", "budget %.2f is smaller than min_ticket %.2f", budget, minTicket)
	}
	if len(scored) == 0 {
		return Selection{}, fmt.Errorf("nothing to select from: %w", models.ErrNoCandidates)
	}

	ranked := append([]scoring.ScoredStartup{}, scored...)
	scoring.SortByScore(ranked)

	sel := Selection{RequestedK: k}
	committed := 0.0
	for _, candidate := range ranked {
		if len(sel.Members) == k {
			break
		}
		need := candidate.Spec.EffectiveMinTicket(minTicket)
		if committed+need > budget {
			sel.Skipped = append(sel.Skipped, candidate.Name())
			continue
		}
		committed += need
		sel.Members = append(sel.Members, candidate)
	}

	// Every candidate's minimum ticket exceeds the budget: a configuration
	// error that still matches ErrNoCandidates.
	if len(sel.Members) == 0 {
		cfgErr := models.NewConfigurationError("min_ticket", "no startup fits a budget of %.2f at its minimum ticket", budget)
		return sel, fmt.Errorf("%w: %w", cfgErr, models.ErrNoCandidates)
	}
	return sel, nil
}
