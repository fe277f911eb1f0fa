package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"
)

// SummaryCategoryItem represents a category with its spending statistics.
type SummaryCategoryItem struct {
	Category   string  `json:"category"`
	Total      float64 `json:"total"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// SummaryResponse is the monthly spending summary payload.
type SummaryResponse struct {
	Year       int                   `json:"year"`
	Month      int                   `json:"month"`
	MonthName  string                `json:"month_name"`
	Total      float64               `json:"total"`
	Categories []SummaryCategoryItem `json:"categories"`
}

// Summary returns per-category spending for a month. Year and month default
// to the current month when the query params are absent.
func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	yearStr := r.URL.Query().Get("year")
	monthStr := r.URL.Query().Get("month")

	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	if yearStr != "" {
		if y, err := strconv.Atoi(yearStr); err == nil {
			year = y
		}
	}
	if monthStr != "" {
		if m, err := strconv.Atoi(monthStr); err == nil && m >= 1 && m <= 12 {
			month = m
		}
	}

	categoryTotals, err := h.db.GetCategoryTotalsByMonth(year, month)
	if err != nil {
		log.Printf("ERROR: GetCategoryTotalsByMonth failed: %v", err)
		http.Error(w, "failed to compute summary", http.StatusInternalServerError)
		return
	}

	var total float64
	for _, ct := range categoryTotals {
		total += ct.Total
	}

	items := make([]SummaryCategoryItem, 0, len(categoryTotals))
	for _, ct := range categoryTotals {
		percentage := 0.0
		if total > 0 {
			percentage = (ct.Total / total) * 100
		}
		items = append(items, SummaryCategoryItem{
			Category:   ct.Category,
			Total:      ct.Total,
			Count:      ct.Count,
			Percentage: percentage,
		})
	}

	writeJSON(w, http.StatusOK, SummaryResponse{
		Year:       year,
		Month:      month,
		MonthName:  time.Month(month).String(),
		Total:      total,
		Categories: items,
	})
}
