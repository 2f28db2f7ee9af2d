// Package api exposes the ledger to the presentation layer over JSON/HTTP.
package api

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"gitlab.com/financeio/financeio/internal/database"
	"gitlab.com/financeio/financeio/internal/ledger"
	"gitlab.com/financeio/financeio/internal/report"
	"gitlab.com/financeio/financeio/internal/repository"
)

// Server holds the handlers' dependencies.
type Server struct {
	svc        *ledger.Service
	summary    *report.Summary
	expenses   *repository.ExpenseRepository
	people     *repository.PersonRepository
	categories *repository.CategoryRepository

	now func() time.Time
}

// NewServer creates the HTTP surface over a database handle.
func NewServer(db database.DB) *Server {
	return &Server{
		svc:        ledger.NewService(db),
		summary:    report.NewSummary(db),
		expenses:   repository.NewExpenseRepository(db),
		people:     repository.NewPersonRepository(db),
		categories: repository.NewCategoryRepository(db),
		now:        time.Now,
	}
}

// Handler returns the instrumented route tree.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /people", s.handleListPeople)
	mux.HandleFunc("POST /people", s.handleCreatePerson)
	mux.HandleFunc("DELETE /people/{id}", s.handleDeletePerson)
	mux.HandleFunc("POST /people/{id}/transactions", s.handleAddTransaction)
	mux.HandleFunc("DELETE /transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /expenses", s.handleListExpenses)
	mux.HandleFunc("POST /expenses", s.handleCreateExpense)
	mux.HandleFunc("PUT /expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /expenses/{id}", s.handleDeleteExpense)

	mux.HandleFunc("GET /categories", s.handleListCategories)
	mux.HandleFunc("POST /categories", s.handleCreateCategory)
	mux.HandleFunc("PUT /categories/{id}", s.handleUpdateCategory)
	mux.HandleFunc("DELETE /categories/{id}", s.handleDeleteCategory)

	mux.HandleFunc("GET /summary", s.handleSummary)
	mux.HandleFunc("GET /export/csv", s.handleExportCSV)
	mux.HandleFunc("GET /chart/categories", s.handleCategoryChart)

	return otelhttp.NewHandler(mux, "financeio-api")
}
