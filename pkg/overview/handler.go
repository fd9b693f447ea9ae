package overview

import (
	"net/http"

	"github.com/timebudget/timebudget/internal/rest"
	"github.com/timebudget/timebudget/internal/utils"
	"github.com/timebudget/timebudget/pkg/budget_change"
	"github.com/timebudget/timebudget/pkg/customer"
	"github.com/timebudget/timebudget/pkg/time_entry"
)

type OverviewDTO struct {
	Customer        customer.CustomerDTO            `json:"customer"`
	BudgetChanges   []budget_change.BudgetChangeDTO `json:"budget_changes"`
	TimeEntries     []time_entry.TimeEntryDTO       `json:"time_entries"`
	TotalBudget     float64                         `json:"total_budget"`
	TotalTimeCosts  float64                         `json:"total_time_costs"`
	RemainingBudget float64                         `json:"remaining_budget"`
	Currency        string                          `json:"currency"`
}

type Handler struct {
	service  Service
	renderer Renderer
	clock    utils.Clock
	currency string
}

func NewHandler(service Service, renderer Renderer, clock utils.Clock, currency string) *Handler {
	return &Handler{service: service, renderer: renderer, clock: clock, currency: currency}
}

// GetOverview godoc
// @Summary Budget overview of a customer
// @Description Ledger, time entries and the derived totals, read from one consistent snapshot
// @Tags Overview
// @Produce json
// @Param customerId path int true "Customer ID"
// @Success 200 {object} OverviewDTO
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/customers/{customerId}/overview [get]
func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	customerId, err := rest.IntVar(r, "customerId")
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	overview, err := h.service.GetOverview(r.Context(), customerId)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, h.toDTO(overview))
}

// ExportOverview godoc
// @Summary Budget overview as CSV
// @Tags Overview
// @Produce text/csv
// @Param customerId path int true "Customer ID"
// @Success 200 {string} string
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/customers/{customerId}/overview.csv [get]
func (h *Handler) ExportOverview(w http.ResponseWriter, r *http.Request) {
	customerId, err := rest.IntVar(r, "customerId")
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	overview, err := h.service.GetOverview(r.Context(), customerId)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	csv, err := h.renderer.Render(overview)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="overview.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(csv))
}

func (h *Handler) toDTO(o Overview) OverviewDTO {
	now := h.clock.Now()
	entries := make([]time_entry.TimeEntryDTO, 0, len(o.TimeEntries))
	for _, e := range o.TimeEntries {
		entries = append(entries, time_entry.ToDTO(e, now))
	}
	// remaining is derived from the two floats sent, so clients see
	// total_budget - total_time_costs == remaining_budget exactly.
	totalBudget := o.TotalBudget.InexactFloat64()
	totalCosts := o.TotalTimeCosts.InexactFloat64()
	return OverviewDTO{
		Customer:        customer.ToDTO(o.Customer),
		BudgetChanges:   budget_change.ToDTOs(o.BudgetChanges),
		TimeEntries:     entries,
		TotalBudget:     totalBudget,
		TotalTimeCosts:  totalCosts,
		RemainingBudget: totalBudget - totalCosts,
		Currency:        h.currency,
	}
}
