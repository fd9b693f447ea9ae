package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Customers
	r.HandleFunc("/api/customers", deps.CustomerHandler.ListCustomers).Methods("GET")
	r.HandleFunc("/api/customers", deps.CustomerHandler.CreateCustomer).Methods("POST")
	r.HandleFunc("/api/customers/{customerId}", deps.CustomerHandler.GetCustomer).Methods("GET")
	r.HandleFunc("/api/customers/{customerId}", deps.CustomerHandler.UpdateCustomer).Methods("PUT")
	r.HandleFunc("/api/customers/{customerId}", deps.CustomerHandler.DeleteCustomer).Methods("DELETE")

	// Budget ledger
	r.HandleFunc("/api/customers/{customerId}/budget-changes", deps.BudgetChangeHandler.ListChanges).Methods("GET")
	r.HandleFunc("/api/customers/{customerId}/budget-changes", deps.BudgetChangeHandler.AppendChange).Methods("POST")

	// Time entries
	r.HandleFunc("/api/customers/{customerId}/time-entries", deps.TimeEntryHandler.ListEntries).Methods("GET")
	r.HandleFunc("/api/customers/{customerId}/time-entries", deps.TimeEntryHandler.StartEntry).Methods("POST")
	r.HandleFunc("/api/customers/{customerId}/manual-time-entry", deps.TimeEntryHandler.CreateManualEntry).Methods("POST")
	r.HandleFunc("/api/time-entries/{entryId}/pause", deps.TimeEntryHandler.PauseEntry).Methods("PUT")
	r.HandleFunc("/api/time-entries/{entryId}/resume", deps.TimeEntryHandler.ResumeEntry).Methods("PUT")
	r.HandleFunc("/api/time-entries/{entryId}/finish", deps.TimeEntryHandler.FinishEntry).Methods("PUT")
	r.HandleFunc("/api/time-entries/{entryId}", deps.TimeEntryHandler.EditEntry).Methods("PUT")
	r.HandleFunc("/api/time-entries/{entryId}", deps.TimeEntryHandler.DeleteEntry).Methods("DELETE")
	r.HandleFunc("/api/running-stopwatches", deps.TimeEntryHandler.ListRunning).Methods("GET")

	// Overview
	r.HandleFunc("/api/customers/{customerId}/overview", deps.OverviewHandler.GetOverview).Methods("GET")
	r.HandleFunc("/api/customers/{customerId}/overview.csv", deps.OverviewHandler.ExportOverview).Methods("GET")

	// Metrics
	r.Handle("/metrics", deps.Metrics.Handler()).Methods("GET")
}
