package solver

import (
	"strings"

	"quizsolver-backend/lib/tabular"
)

// DeriveNumberFromTable applies the fixed numeric heuristic to one table:
//
//  1. a column whose header equals "value" (case-insensitive) wins; its
//     coercible cells are summed and non-numeric cells are simply absent.
//  2. else the first column whose cells are all numeric is summed.
//  3. else every coercible cell in the whole table is summed.
//
// No ranking between tables: callers try tables in order and keep the
// first hit.
func DeriveNumberFromTable(t tabular.Table) (float64, bool) {
	if t.Empty() {
		return 0, false
	}

	for i, header := range t.Headers {
		if strings.EqualFold(strings.TrimSpace(header), "value") {
			return sumCoercible(t.Column(i)), true
		}
	}

	for i := 0; i < t.ColumnCount(); i++ {
		if sum, ok := sumFullyNumeric(t.Column(i)); ok {
			return sum, true
		}
	}

	total := 0.0
	coerced := false
	for i := 0; i < t.ColumnCount(); i++ {
		for _, cell := range t.Column(i) {
			if v, ok := tabular.Numeric(cell); ok {
				total += v
				coerced = true
			}
		}
	}
	if !coerced {
		return 0, false
	}
	return total, true
}

func sumCoercible(cells []string) float64 {
	total := 0.0
	for _, cell := range cells {
		if v, ok := tabular.Numeric(cell); ok {
			total += v
		}
	}
	return total
}

func sumFullyNumeric(cells []string) (float64, bool) {
	if len(cells) == 0 {
		return 0, false
	}
	total := 0.0
	for _, cell := range cells {
		v, ok := tabular.Numeric(cell)
		if !ok {
			return 0, false
		}
		total += v
	}
	return total, true
}
