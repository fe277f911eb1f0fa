package models

import "time"

// Expense represents a scanned receipt record.
type Expense struct {
	ID        string    `json:"id"`
	Merchant  string    `json:"merchant"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Total     float64   `json:"total"`
	Category  string    `json:"category"`
	Currency  string    `json:"currency"`
	ImageURL  string    `json:"image_url,omitempty"`
	RawText   string    `json:"raw_text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Categories is the closed set of expense categories. The evaluator matches
// on exact category strings, so anything outside this set is rejected at
// creation time.
var Categories = []string{
	"Food & Dining",
	"Shopping",
	"Travel & Transport",
	"Utilities",
	"Health",
	"Entertainment",
	"Other",
}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// AlertType identifies the condition that produced an alert.
type AlertType string

const (
	AlertBudgetExceeded  AlertType = "BUDGET_EXCEEDED"
	AlertUnusualSpending AlertType = "UNUSUAL_SPENDING"
	// AlertCategorySpike is declared for wire compatibility; no rule
	// currently emits it.
	AlertCategorySpike AlertType = "CATEGORY_SPIKE"
)

// Alert is a generated notice of a detected budget or spending anomaly.
type Alert struct {
	ID        string    `json:"id"`
	Type      AlertType `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	IsRead    bool      `json:"is_read"`
}
