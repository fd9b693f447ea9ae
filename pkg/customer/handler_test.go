package customer

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timebudget/timebudget/internal/event_bus"
	"github.com/timebudget/timebudget/internal/rest"
)

func setupHandlerTest(t *testing.T) *mux.Router {
	service := NewService(NewStubRepository(), event_bus.NewEventBus())
	handler := NewHandler(service)
	r := mux.NewRouter()
	r.HandleFunc("/api/customers", handler.ListCustomers).Methods("GET")
	r.HandleFunc("/api/customers", handler.CreateCustomer).Methods("POST")
	r.HandleFunc("/api/customers/{customerId}", handler.GetCustomer).Methods("GET")
	r.HandleFunc("/api/customers/{customerId}", handler.UpdateCustomer).Methods("PUT")
	r.HandleFunc("/api/customers/{customerId}", handler.DeleteCustomer).Methods("DELETE")
	return r
}

func doRequest(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_CustomerLifecycle(t *testing.T) {
	r := setupHandlerTest(t)

	// create
	w := doRequest(t, r, http.MethodPost, "/api/customers", map[string]any{
		"name":        "ACME GmbH",
		"email":       "info@acme.test",
		"hourly_rate": 50,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created CustomerDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Equal(t, "ACME GmbH", created.Name)
	assert.Equal(t, 50.0, created.HourlyRate)
	assert.NotEmpty(t, created.CreatedAt)

	// update
	w = doRequest(t, r, http.MethodPut, "/api/customers/1", map[string]any{
		"name":        "ACME GmbH",
		"hourly_rate": 60,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// list
	w = doRequest(t, r, http.MethodGet, "/api/customers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var customers []CustomerDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&customers))
	require.Len(t, customers, 1)
	assert.Equal(t, 60.0, customers[0].HourlyRate)

	// delete
	w = doRequest(t, r, http.MethodDelete, "/api/customers/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/customers/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_CreateCustomer_Invalid(t *testing.T) {
	r := setupHandlerTest(t)

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/customers", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var response rest.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "Invalid request body format", response.Error)
	})

	t.Run("missing name", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/api/customers", map[string]any{"hourly_rate": 10})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("mismatching id", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPut, "/api/customers/3", map[string]any{"id": 4, "name": "X"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non numeric id", func(t *testing.T) {
		w := doRequest(t, r, http.MethodGet, "/api/customers/abc", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
