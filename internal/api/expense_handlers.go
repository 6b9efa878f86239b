package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/goureshmadye/tripbuddy/internal/middleware"
	"github.com/goureshmadye/tripbuddy/internal/models"
	"github.com/goureshmadye/tripbuddy/internal/service"
)

type addExpenseRequest struct {
	PaidBy      string `json:"paid_by"`
	Description string `json:"description"`
	AmountMinor int64  `json:"amount_minor"`
	Currency    string `json:"currency"`
	Category    string `json:"category"`
	Policy      string `json:"policy"`

	Participants       []string           `json:"participants"`
	Percentages        map[string]float64 `json:"percentages,omitempty"`
	CustomAmountsMinor map[string]int64   `json:"custom_amounts_minor,omitempty"`
}

func (a *API) handleAddExpense(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req addExpenseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	expense, err := a.expenses.AddExpense(r.Context(), middleware.GetUserID(r.Context()), middleware.GetTier(r.Context()), service.AddExpenseInput{
		TripID:             ps.ByName("tripId"),
		PaidBy:             req.PaidBy,
		Description:        req.Description,
		AmountMinor:        req.AmountMinor,
		Currency:           req.Currency,
		Category:           models.ExpenseCategory(req.Category),
		Policy:             models.SplitPolicy(req.Policy),
		Participants:       req.Participants,
		Percentages:        req.Percentages,
		CustomAmountsMinor: req.CustomAmountsMinor,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toExpenseResponse(expense))
}

func (a *API) handleListExpenses(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	expenses, err := a.expenses.ListExpenses(r.Context(), middleware.GetUserID(r.Context()), ps.ByName("tripId"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resp := make([]expenseResponse, len(expenses))
	for i := range expenses {
		resp[i] = toExpenseResponse(&expenses[i])
	}
	respondJSON(w, http.StatusOK, resp)
}

func (a *API) handleDeleteExpense(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	err := a.expenses.DeleteExpense(r.Context(), middleware.GetUserID(r.Context()), ps.ByName("expenseId"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (a *API) handleTripBalances(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	members, edges, err := a.expenses.TripBalances(r.Context(), middleware.GetUserID(r.Context()), ps.ByName("tripId"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toBalancesResponse(members, edges))
}
