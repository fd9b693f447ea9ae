package time_entry

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/timebudget/timebudget/internal/rest"
	"github.com/timebudget/timebudget/internal/utils"
)

// TimeEntryDTO carries elapsed seconds including a running segment as of the
// response. WindowDecoupled is only reported for manual entries and edits.
type TimeEntryDTO struct {
	Id              int     `json:"id"`
	CustomerId      int     `json:"customer_id"`
	Description     string  `json:"description"`
	StartTime       string  `json:"start_time"`
	EndTime         *string `json:"end_time"`
	DurationSeconds int64   `json:"duration_seconds"`
	IsRunning       bool    `json:"is_running"`
	State           string  `json:"state"`
	ElapsedSeconds  int64   `json:"elapsed_seconds"`
	WindowDecoupled bool    `json:"window_decoupled,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

type RunningEntryDTO struct {
	TimeEntryDTO
	CustomerName string `json:"customer_name"`
}

type StartEntryRequest struct {
	Description string `json:"description"`
}

// EntryRequest carries a manual entry or an edit. Absent fields are nil.
type EntryRequest struct {
	Description     *string    `json:"description"`
	DurationHours   *int64     `json:"duration_hours"`
	DurationMinutes *int64     `json:"duration_minutes"`
	DurationSeconds *int64     `json:"duration_seconds"`
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
}

func (r EntryRequest) duration() *DurationInput {
	if r.DurationHours == nil && r.DurationMinutes == nil && r.DurationSeconds == nil {
		return nil
	}
	var d DurationInput
	if r.DurationHours != nil {
		d.Hours = *r.DurationHours
	}
	if r.DurationMinutes != nil {
		d.Minutes = *r.DurationMinutes
	}
	if r.DurationSeconds != nil {
		d.Seconds = *r.DurationSeconds
	}
	return &d
}

type Handler struct {
	service Service
	clock   utils.Clock
}

func NewHandler(service Service, clock utils.Clock) *Handler {
	return &Handler{service: service, clock: clock}
}

// ListEntries godoc
// @Summary Time entries of a customer
// @Description Entries newest first, with elapsed seconds of running entries
// @Tags TimeEntry
// @Produce json
// @Param customerId path int true "Customer ID"
// @Success 200 {array} TimeEntryDTO
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/customers/{customerId}/time-entries [get]
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	customerId, err := rest.IntVar(r, "customerId")
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	entries, err := h.service.ListEntries(r.Context(), customerId)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	now := h.clock.Now()
	dtos := make([]TimeEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, ToDTO(e, now))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// StartEntry godoc
// @Summary Start a stopwatch
// @Tags TimeEntry
// @Accept json
// @Produce json
// @Param customerId path int true "Customer ID"
// @Param entry body StartEntryRequest true "Description"
// @Success 201 {object} TimeEntryDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/customers/{customerId}/time-entries [post]
func (h *Handler) StartEntry(w http.ResponseWriter, r *http.Request) {
	customerId, err := rest.IntVar(r, "customerId")
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	var request StartEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		rest.WriteBadRequest(w, "Invalid request body format", err.Error())
		return
	}
	created, err := h.service.StartEntry(r.Context(), customerId, request.Description)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, ToDTO(created, h.clock.Now()))
}

// CreateManualEntry godoc
// @Summary Record a finished time entry
// @Description Duration is given as hours and minutes or as total seconds. Start and end default to now.
// @Tags TimeEntry
// @Accept json
// @Produce json
// @Param customerId path int true "Customer ID"
// @Param entry body EntryRequest true "Manual entry"
// @Success 201 {object} TimeEntryDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/customers/{customerId}/manual-time-entry [post]
func (h *Handler) CreateManualEntry(w http.ResponseWriter, r *http.Request) {
	customerId, err := rest.IntVar(r, "customerId")
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	var request EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		rest.WriteBadRequest(w, "Invalid request body format", err.Error())
		return
	}

	input := EntryInput{StartTime: request.StartTime, EndTime: request.EndTime}
	if request.Description != nil {
		input.Description = *request.Description
	}
	if d := request.duration(); d != nil {
		input.Duration = *d
	}
	created, err := h.service.CreateManualEntry(r.Context(), customerId, input)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	dto := ToDTO(created, h.clock.Now())
	dto.WindowDecoupled = created.WindowDecoupled()
	rest.WriteJSON(w, http.StatusCreated, dto)
}

// PauseEntry godoc
// @Summary Pause a running entry
// @Tags TimeEntry
// @Produce json
// @Param entryId path int true "Time entry ID"
// @Success 200 {object} TimeEntryDTO
// @Failure 404 {object} rest.ErrorResponse
// @Failure 409 {object} rest.ErrorResponse
// @Router /api/time-entries/{entryId}/pause [put]
func (h *Handler) PauseEntry(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.PauseEntry)
}

// ResumeEntry godoc
// @Summary Resume a paused entry
// @Tags TimeEntry
// @Produce json
// @Param entryId path int true "Time entry ID"
// @Success 200 {object} TimeEntryDTO
// @Failure 404 {object} rest.ErrorResponse
// @Failure 409 {object} rest.ErrorResponse
// @Router /api/time-entries/{entryId}/resume [put]
func (h *Handler) ResumeEntry(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.ResumeEntry)
}

// FinishEntry godoc
// @Summary Finish an entry
// @Tags TimeEntry
// @Produce json
// @Param entryId path int true "Time entry ID"
// @Success 200 {object} TimeEntryDTO
// @Failure 404 {object} rest.ErrorResponse
// @Failure 409 {object} rest.ErrorResponse
// @Router /api/time-entries/{entryId}/finish [put]
func (h *Handler) FinishEntry(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.FinishEntry)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id int) (TimeEntry, error)) {
	id, err := rest.IntVar(r, "entryId")
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	updated, err := apply(r.Context(), id)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(updated, h.clock.Now()))
}

// EditEntry godoc
// @Summary Edit a time entry
// @Description Description alone may change in any state; duration and window only on finished entries
// @Tags TimeEntry
// @Accept json
// @Produce json
// @Param entryId path int true "Time entry ID"
// @Param entry body EntryRequest true "Changed fields"
// @Success 200 {object} TimeEntryDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Failure 409 {object} rest.ErrorResponse
// @Router /api/time-entries/{entryId} [put]
func (h *Handler) EditEntry(w http.ResponseWriter, r *http.Request) {
	id, err := rest.IntVar(r, "entryId")
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	var request EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		rest.WriteBadRequest(w, "Invalid request body format", err.Error())
		return
	}

	updated, err := h.service.EditEntry(r.Context(), id, EditInput{
		Description: request.Description,
		Duration:    request.duration(),
		StartTime:   request.StartTime,
		EndTime:     request.EndTime,
	})
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	dto := ToDTO(updated, h.clock.Now())
	dto.WindowDecoupled = updated.WindowDecoupled()
	rest.WriteJSON(w, http.StatusOK, dto)
}

// DeleteEntry godoc
// @Summary Delete a time entry
// @Tags TimeEntry
// @Param entryId path int true "Time entry ID"
// @Success 204
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/time-entries/{entryId} [delete]
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := rest.IntVar(r, "entryId")
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	if err := h.service.DeleteEntry(r.Context(), id); err != nil {
		rest.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListRunning godoc
// @Summary Unfinished entries of all customers
// @Tags TimeEntry
// @Produce json
// @Success 200 {array} RunningEntryDTO
// @Router /api/running-stopwatches [get]
func (h *Handler) ListRunning(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListRunning(r.Context())
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	now := h.clock.Now()
	dtos := make([]RunningEntryDTO, 0, len(entries))
	for _, e := range entries {
		dto := RunningEntryDTO{TimeEntryDTO: ToDTO(e.TimeEntry, now), CustomerName: e.CustomerName}
		dto.ElapsedSeconds = e.ElapsedSeconds
		dtos = append(dtos, dto)
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func ToDTO(e TimeEntry, now time.Time) TimeEntryDTO {
	dto := TimeEntryDTO{
		Id:              e.Id,
		CustomerId:      e.CustomerId,
		Description:     e.Description,
		StartTime:       e.StartTime.UTC().Format(time.RFC3339),
		DurationSeconds: e.DurationSeconds,
		IsRunning:       e.IsRunning,
		State:           string(e.State()),
		ElapsedSeconds:  Elapsed(e, now),
		CreatedAt:       e.CreatedAt.UTC().Format(time.RFC3339),
	}
	if e.EndTime != nil {
		end := e.EndTime.UTC().Format(time.RFC3339)
		dto.EndTime = &end
	}
	return dto
}
