package customer

import (
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/timebudget/timebudget/internal/rest"
)

type CustomerDTO struct {
	Id         int     `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email,omitempty"`
	Phone      string  `json:"phone,omitempty"`
	HourlyRate float64 `json:"hourly_rate"`
	CreatedAt  string  `json:"created_at,omitempty"`
	UpdatedAt  string  `json:"updated_at,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// ListCustomers godoc
// @Summary List customers
// @Description All customers, newest first
// @Tags Customer
// @Produce json
// @Success 200 {array} CustomerDTO
// @Router /api/customers [get]
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.ListCustomers(r.Context())
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	dtos := make([]CustomerDTO, 0, len(customers))
	for _, c := range customers {
		dtos = append(dtos, ToDTO(c))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// CreateCustomer godoc
// @Summary Create a customer
// @Tags Customer
// @Accept json
// @Produce json
// @Param customer body CustomerDTO true "Customer"
// @Success 201 {object} CustomerDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/customers [post]
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new customer")
	var dto CustomerDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteBadRequest(w, "Invalid request body format", err.Error())
		return
	}

	created, err := h.service.CreateCustomer(r.Context(), FromDTO(dto))
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, ToDTO(created))
}

func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := rest.IntVar(r, "customerId")
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	c, err := h.service.GetCustomer(r.Context(), id)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(c))
}

// UpdateCustomer godoc
// @Summary Update contact data and hourly rate of a customer
// @Tags Customer
// @Accept json
// @Produce json
// @Param customerId path int true "Customer ID"
// @Param customer body CustomerDTO true "Customer"
// @Success 200 {object} CustomerDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/customers/{customerId} [put]
func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := rest.IntVar(r, "customerId")
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	var dto CustomerDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteBadRequest(w, "Invalid request body format", err.Error())
		return
	}
	if dto.Id != 0 && dto.Id != id {
		rest.WriteBadRequest(w, "Invalid customer id in request body", "")
		return
	}
	customer := FromDTO(dto)
	customer.Id = id

	updated, err := h.service.UpdateCustomer(r.Context(), customer)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(updated))
}

// DeleteCustomer godoc
// @Summary Delete a customer with its budget changes and time entries
// @Tags Customer
// @Param customerId path int true "Customer ID"
// @Success 204 "No Content"
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/customers/{customerId} [delete]
func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := rest.IntVar(r, "customerId")
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	if err := h.service.DeleteCustomer(r.Context(), id); err != nil {
		rest.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func ToDTO(c Customer) CustomerDTO {
	dto := CustomerDTO{
		Id:         c.Id,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		HourlyRate: c.HourlyRate,
	}
	if !c.CreatedAt.IsZero() {
		dto.CreatedAt = c.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !c.UpdatedAt.IsZero() {
		dto.UpdatedAt = c.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func FromDTO(dto CustomerDTO) Customer {
	return Customer{
		Id:         dto.Id,
		Name:       dto.Name,
		Email:      dto.Email,
		Phone:      dto.Phone,
		HourlyRate: dto.HourlyRate,
	}
}
