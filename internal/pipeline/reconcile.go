package pipeline

import (
	"math"

	"github.com/budgetwise/budgetwise/internal/domain"
)

// Reconcile compares the extracted sum against the statement-reported
// total and appends a single balancing transaction when they diverge by
// more than ReconcileTolerance. Extraction is lossy (the model misses or
// merges line items, and window overlap can double-count); the balancing
// entry trades per-line precision for aggregate correctness so the
// persisted sum always matches the statement's own figure. Without a
// statement total the set is returned unchanged.
func Reconcile(txs []domain.Transaction, statementTotal float64, hasTotal bool, period domain.StatementPeriod) []domain.Transaction {
	if !hasTotal {
		return txs
	}

	var extractedSum float64
	for _, tx := range txs {
		extractedSum += tx.Amount
	}

	difference := statementTotal - extractedSum
	if math.Abs(difference) <= ReconcileTolerance {
		return txs
	}

	return append(txs, domain.Transaction{
		Date:        period.Reference,
		Description: BalancingDescription,
		Amount:      difference,
		Category:    majorityCategory(txs),
	})
}

// majorityCategory picks the most frequent category among the accepted
// transactions, breaking ties by first-encountered order so the output is
// deterministic. An empty set yields Other.
func majorityCategory(txs []domain.Transaction) domain.Category {
	counts := make(map[domain.Category]int)
	var order []domain.Category
	for _, tx := range txs {
		if counts[tx.Category] == 0 {
			order = append(order, tx.Category)
		}
		counts[tx.Category]++
	}

	best := domain.CategoryOther
	bestCount := 0
	for _, category := range order {
		if counts[category] > bestCount {
			best = category
			bestCount = counts[category]
		}
	}
	return best
}
