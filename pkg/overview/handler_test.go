package overview

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timebudget/timebudget/internal/utils"
	"github.com/timebudget/timebudget/pkg/budget_change"
	"github.com/timebudget/timebudget/pkg/customer"
	"github.com/timebudget/timebudget/pkg/time_entry"
)

func setupHandlerTest(t *testing.T) *mux.Router {
	repo := NewStubRepository()
	repo.Put(Snapshot{
		Customer:      acme,
		BudgetChanges: []budget_change.BudgetChange{{Id: 1, CustomerId: acme.Id, Amount: 1000, Kind: budget_change.KindInitial, CreatedAt: t0}},
		TimeEntries:   []time_entry.TimeEntry{finishedEntry(1, 3600, t0)},
	})
	handler := NewHandler(NewService(repo), NewCsvRenderer("EUR"), &utils.MockClock{FixedNow: t0}, "EUR")
	r := mux.NewRouter()
	r.HandleFunc("/api/customers/{customerId}/overview", handler.GetOverview).Methods("GET")
	r.HandleFunc("/api/customers/{customerId}/overview.csv", handler.ExportOverview).Methods("GET")
	return r
}

func TestHandler_GetOverview(t *testing.T) {
	r := setupHandlerTest(t)

	t.Run("should return totals", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/customers/4/overview", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var dto OverviewDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
		assert.Equal(t, "ACME GmbH", dto.Customer.Name)
		assert.Equal(t, 1000.0, dto.TotalBudget)
		assert.Equal(t, 50.0, dto.TotalTimeCosts)
		assert.Equal(t, 950.0, dto.RemainingBudget)
		assert.Equal(t, "EUR", dto.Currency)
		require.Len(t, dto.BudgetChanges, 1)
		require.Len(t, dto.TimeEntries, 1)
		assert.Equal(t, int64(3600), dto.TimeEntries[0].DurationSeconds)
	})

	t.Run("should return 404 for unknown customer", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/customers/5/overview", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("should return 400 for malformed id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/customers/abc/overview", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_ExportOverview(t *testing.T) {
	r := setupHandlerTest(t)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/customers/4/overview.csv", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Remaining,,,950.00", lines[4])
}

func TestHandler_GetOverviewTotalsAddUp(t *testing.T) {
	repo := NewStubRepository()
	handler := NewHandler(NewService(repo), NewCsvRenderer("EUR"), &utils.MockClock{FixedNow: t0}, "EUR")
	r := mux.NewRouter()
	r.HandleFunc("/api/customers/{customerId}/overview", handler.GetOverview).Methods("GET")
	odd := customer.Customer{Id: 8, Name: "Odd Rates Ltd", HourlyRate: 47.3}

	for seconds := int64(1); seconds <= 600; seconds++ {
		entry := finishedEntry(1, seconds, t0)
		entry.CustomerId = odd.Id
		repo.Put(Snapshot{
			Customer:      odd,
			BudgetChanges: []budget_change.BudgetChange{{CustomerId: odd.Id, Amount: 1000.1, Kind: budget_change.KindInitial}},
			TimeEntries:   []time_entry.TimeEntry{entry},
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/customers/8/overview", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var dto OverviewDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
		require.Equal(t, dto.TotalBudget-dto.TotalTimeCosts, dto.RemainingBudget, "seconds=%d", seconds)
	}
}
