// Package aggregate computes the budget-vs-actual comparison. The engine is
// a pure full recomputation: it keeps no state between runs and is safe to
// re-invoke on every snapshot of either input feed. Incremental patching is
// deliberately not implemented; it is where drift bugs come from.
package aggregate

import (
	"math"
	"sort"

	"github.com/bluepond/aqualedger/internal/domain/entity"
)

// CategoryComparison is one row of the budget-vs-actual view.
type CategoryComparison struct {
	Category string  `json:"category"`
	Planned  float64 `json:"planned"`
	Actual   float64 `json:"actual"`
}

// Compare sums planned amounts per category from budgets and actual amounts
// per category from transactions, unions the category sets, drops categories
// where both sides are exactly zero, and sorts by planned descending.
// Categories match by exact, case-sensitive string comparison; there is no
// normalization. Non-finite amounts count as zero.
func Compare(budgets []*entity.Budget, transactions []*entity.Transaction) []CategoryComparison {
	planned := make(map[string]float64, len(budgets))
	for _, b := range budgets {
		planned[b.Category] += sanitize(b.PlannedAmount)
	}

	actual := make(map[string]float64, len(transactions))
	for _, t := range transactions {
		actual[t.Category] += sanitize(t.Amount)
	}

	out := make([]CategoryComparison, 0, len(planned)+len(actual))
	for category, p := range planned {
		a := actual[category]
		if p == 0 && a == 0 {
			continue
		}
		out = append(out, CategoryComparison{Category: category, Planned: p, Actual: a})
	}
	for category, a := range actual {
		if _, seen := planned[category]; seen {
			continue
		}
		if a == 0 {
			continue
		}
		out = append(out, CategoryComparison{Category: category, Actual: a})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Planned != out[j].Planned {
			return out[i].Planned > out[j].Planned
		}
		return out[i].Category < out[j].Category
	})

	return out
}

// sanitize maps NaN and ±Inf to zero; pure inputs must never make the
// engine fail.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
