package budget_change

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/timebudget/timebudget/internal/rest"
)

type BudgetChangeDTO struct {
	Id         int     `json:"id"`
	CustomerId int     `json:"customer_id"`
	Amount     float64 `json:"amount"`
	Comment    string  `json:"comment,omitempty"`
	ChangeType string  `json:"change_type"`
	CreatedAt  string  `json:"created_at"`
}

type CreateBudgetChangeRequest struct {
	Amount     float64 `json:"amount"`
	Comment    string  `json:"comment"`
	ChangeType string  `json:"change_type"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// ListChanges godoc
// @Summary Budget ledger of a customer
// @Description Budget changes, newest first
// @Tags BudgetChange
// @Produce json
// @Param customerId path int true "Customer ID"
// @Success 200 {array} BudgetChangeDTO
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/customers/{customerId}/budget-changes [get]
func (h *Handler) ListChanges(w http.ResponseWriter, r *http.Request) {
	customerId, err := rest.IntVar(r, "customerId")
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	changes, err := h.service.ListChanges(r.Context(), customerId)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTOs(changes))
}

// AppendChange godoc
// @Summary Append a budget change
// @Tags BudgetChange
// @Accept json
// @Produce json
// @Param customerId path int true "Customer ID"
// @Param change body CreateBudgetChangeRequest true "Budget change"
// @Success 201 {object} BudgetChangeDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/customers/{customerId}/budget-changes [post]
func (h *Handler) AppendChange(w http.ResponseWriter, r *http.Request) {
	customerId, err := rest.IntVar(r, "customerId")
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	var request CreateBudgetChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		rest.WriteBadRequest(w, "Invalid request body format", err.Error())
		return
	}

	stored, err := h.service.AppendChange(r.Context(), BudgetChange{
		CustomerId: customerId,
		Amount:     request.Amount,
		Kind:       Kind(request.ChangeType),
		Comment:    request.Comment,
	})
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, ToDTO(stored))
}

func ToDTO(c BudgetChange) BudgetChangeDTO {
	return BudgetChangeDTO{
		Id:         c.Id,
		CustomerId: c.CustomerId,
		Amount:     c.Amount,
		Comment:    c.Comment,
		ChangeType: string(c.Kind),
		CreatedAt:  c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func ToDTOs(changes []BudgetChange) []BudgetChangeDTO {
	dtos := make([]BudgetChangeDTO, 0, len(changes))
	for _, c := range changes {
		dtos = append(dtos, ToDTO(c))
	}
	return dtos
}
