package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"campushub/internal/alerts"
	"campushub/internal/models"
	"campushub/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	db        *storage.DB
	evaluator *alerts.Evaluator
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *storage.DB, evaluator *alerts.Evaluator) *Handlers {
	return &Handlers{db: db, evaluator: evaluator}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: Failed to encode response: %v", err)
	}
}

type createExpenseRequest struct {
	Merchant string  `json:"merchant"`
	Date     string  `json:"date"`
	Total    float64 `json:"total"`
	Category string  `json:"category"`
	Currency string  `json:"currency"`
	ImageURL string  `json:"image_url"`
	RawText  string  `json:"raw_text"`
}

// createExpenseResponse returns the stored expense together with any alerts
// the evaluator raised for it.
type createExpenseResponse struct {
	Expense models.Expense `json:"expense"`
	Alerts  []models.Alert `json:"alerts"`
}

// CreateExpense stores a new expense and runs the alert evaluator over the
// updated collection.
func (h *Handlers) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("ERROR: Failed to decode create expense request: %v", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Merchant) == "" {
		http.Error(w, "merchant is required", http.StatusBadRequest)
		return
	}
	if req.Total < 0 {
		http.Error(w, "total must be non-negative", http.StatusBadRequest)
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if !models.ValidCategory(req.Category) {
		http.Error(w, "unknown category", http.StatusBadRequest)
		return
	}

	expense := models.Expense{
		ID:        uuid.NewString(),
		Merchant:  req.Merchant,
		Date:      req.Date,
		Total:     req.Total,
		Category:  req.Category,
		Currency:  req.Currency,
		ImageURL:  req.ImageURL,
		RawText:   req.RawText,
		CreatedAt: time.Now(),
	}
	if expense.Currency == "" {
		expense.Currency = "USD"
	}

	if err := h.db.CreateExpense(&expense); err != nil {
		log.Printf("ERROR: Failed to create expense: %v", err)
		http.Error(w, "failed to create expense", http.StatusInternalServerError)
		return
	}

	fresh, err := h.detectAlerts(expense)
	if err != nil {
		// The expense is already stored; surface the alert failure rather
		// than pretending nothing happened.
		log.Printf("ERROR: Failed to evaluate alerts for expense %s: %v", expense.ID, err)
		http.Error(w, "failed to evaluate alerts", http.StatusInternalServerError)
		return
	}

	log.Printf("INFO: Created expense %s (%s, %.2f), %d alert(s)", expense.ID, expense.Category, expense.Total, len(fresh))
	writeJSON(w, http.StatusCreated, createExpenseResponse{Expense: expense, Alerts: fresh})
}

// detectAlerts reloads the full collection, evaluates the new expense
// against it, applies the deduplication policy, and persists survivors.
func (h *Handlers) detectAlerts(newExpense models.Expense) ([]models.Alert, error) {
	allExpenses, err := h.db.ListExpenses()
	if err != nil {
		return nil, err
	}

	fresh := h.evaluator.Evaluate(newExpense, allExpenses)
	if len(fresh) == 0 {
		return nil, nil
	}

	existing, err := h.db.ListAlerts()
	if err != nil {
		return nil, err
	}
	fresh = h.evaluator.Filter(existing, fresh)
	if len(fresh) == 0 {
		return nil, nil
	}

	if err := h.db.SaveAlerts(fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

// ListExpenses returns all expenses, newest first.
func (h *Handlers) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.db.ListExpenses()
	if err != nil {
		log.Printf("ERROR: Failed to list expenses: %v", err)
		http.Error(w, "failed to list expenses", http.StatusInternalServerError)
		return
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

// DeleteExpense removes an expense by ID.
func (h *Handlers) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.db.DeleteExpense(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "expense not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR: Failed to delete expense %s: %v", id, err)
		http.Error(w, "failed to delete expense", http.StatusInternalServerError)
		return
	}
	log.Printf("INFO: Deleted expense %s", id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "expense deleted"})
}

// ListAlerts returns all alerts, newest first.
func (h *Handlers) ListAlerts(w http.ResponseWriter, r *http.Request) {
	alertList, err := h.db.ListAlerts()
	if err != nil {
		log.Printf("ERROR: Failed to list alerts: %v", err)
		http.Error(w, "failed to list alerts", http.StatusInternalServerError)
		return
	}
	if alertList == nil {
		alertList = []models.Alert{}
	}
	writeJSON(w, http.StatusOK, alertList)
}

// MarkAlertRead flags a single alert as read.
func (h *Handlers) MarkAlertRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.db.MarkAlertRead(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "alert not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR: Failed to mark alert %s read: %v", id, err)
		http.Error(w, "failed to update alert", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "alert marked read"})
}

// ClearAlerts removes every alert. This is the "Dismiss All" action.
func (h *Handlers) ClearAlerts(w http.ResponseWriter, r *http.Request) {
	if err := h.db.ClearAlerts(); err != nil {
		log.Printf("ERROR: Failed to clear alerts: %v", err)
		http.Error(w, "failed to clear alerts", http.StatusInternalServerError)
		return
	}
	log.Printf("INFO: Cleared all alerts")
	writeJSON(w, http.StatusOK, map[string]string{"message": "alerts cleared"})
}
