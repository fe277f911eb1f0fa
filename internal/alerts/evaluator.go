// Package alerts derives budget and anomaly alerts from expense records.
package alerts

import (
	"fmt"
	"time"

	"campushub/internal/models"

	"github.com/google/uuid"
)

// Config holds the evaluator thresholds. Zero values are not usable; start
// from DefaultConfig and override per deployment.
type Config struct {
	// BudgetLimit is the monthly spend ceiling that triggers BUDGET_EXCEEDED.
	BudgetLimit float64
	// SpikeMultiplier scales the category mean for UNUSUAL_SPENDING. The
	// comparison is strict: a total of exactly SpikeMultiplier * mean does
	// not fire.
	SpikeMultiplier float64
	// MinCategorySamples is how many prior same-category records are needed
	// before the spike rule applies.
	MinCategorySamples int
	// SuppressDuplicates drops a fresh alert when an unread alert of the
	// same type already exists. Off by default: every qualifying expense
	// re-triggers its rule.
	SuppressDuplicates bool
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		BudgetLimit:        3000,
		SpikeMultiplier:    2.5,
		MinCategorySamples: 3,
	}
}

// Evaluator computes alerts from expense collections. It performs no I/O;
// the caller persists whatever it returns.
type Evaluator struct {
	cfg Config
}

// NewEvaluator creates an evaluator with the given thresholds.
func NewEvaluator(cfg Config) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// Evaluate runs every rule against a newly added expense. allExpenses must
// already contain newExpense. Rules are independent and each fires at most
// once per call, so the result holds zero, one, or two alerts.
func (e *Evaluator) Evaluate(newExpense models.Expense, allExpenses []models.Expense) []models.Alert {
	var out []models.Alert

	if a, ok := e.checkBudget(allExpenses); ok {
		out = append(out, a)
	}
	if a, ok := e.checkUnusualSpending(newExpense, allExpenses); ok {
		out = append(out, a)
	}
	return out
}

// Filter applies the deduplication policy to freshly computed alerts, given
// the alerts already on record. With suppression off it returns fresh
// unchanged.
func (e *Evaluator) Filter(existing, fresh []models.Alert) []models.Alert {
	if !e.cfg.SuppressDuplicates {
		return fresh
	}

	unread := make(map[models.AlertType]bool)
	for _, a := range existing {
		if !a.IsRead {
			unread[a.Type] = true
		}
	}

	kept := make([]models.Alert, 0, len(fresh))
	for _, a := range fresh {
		if !unread[a.Type] {
			kept = append(kept, a)
		}
	}
	return kept
}

func (e *Evaluator) checkBudget(allExpenses []models.Expense) (models.Alert, bool) {
	var total float64
	for _, exp := range allExpenses {
		total += exp.Total
	}
	if total <= e.cfg.BudgetLimit {
		return models.Alert{}, false
	}
	return e.newAlert(models.AlertBudgetExceeded, fmt.Sprintf(
		"Budget Breach: Total spend ($%.2f) exceeded $%.0f threshold.",
		total, e.cfg.BudgetLimit,
	)), true
}

func (e *Evaluator) checkUnusualSpending(newExpense models.Expense, allExpenses []models.Expense) (models.Alert, bool) {
	var sum float64
	var count int
	for _, exp := range allExpenses {
		if exp.Category == newExpense.Category && exp.ID != newExpense.ID {
			sum += exp.Total
			count++
		}
	}
	if count < e.cfg.MinCategorySamples {
		return models.Alert{}, false
	}

	mean := sum / float64(count)
	if newExpense.Total <= mean*e.cfg.SpikeMultiplier {
		return models.Alert{}, false
	}
	return e.newAlert(models.AlertUnusualSpending, fmt.Sprintf(
		"Unusual Spending: Your $%.2f purchase at %s is %.0f%% higher than your average %s spend.",
		newExpense.Total, newExpense.Merchant, e.cfg.SpikeMultiplier*100, newExpense.Category,
	)), true
}

func (e *Evaluator) newAlert(t models.AlertType, msg string) models.Alert {
	return models.Alert{
		ID:        uuid.NewString(),
		Type:      t,
		Message:   msg,
		CreatedAt: time.Now(),
	}
}
