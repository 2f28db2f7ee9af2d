package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"gitlab.com/financeio/financeio/internal/export"
	"gitlab.com/financeio/financeio/internal/logger"
	"gitlab.com/financeio/financeio/internal/models"
	"gitlab.com/financeio/financeio/internal/report"
)

const dateLayout = "2006-01-02"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to encode response")
	}
}

// writeError maps the domain error kinds onto HTTP statuses: validation
// failures are the client's to fix, a vanished entity is reported but
// benign, and everything else is internal.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case models.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, models.ErrFormat):
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	default:
		logger.Log.Error().Err(err).Msg("Request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return 0, false
	}
	return id, true
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}

type recordResponse struct {
	ID     int             `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
	Note   string          `json:"note,omitempty"`
}

type personResponse struct {
	ID         int              `json:"id"`
	Name       string           `json:"name"`
	NetBalance decimal.Decimal  `json:"netBalance"`
	Records    []recordResponse `json:"records"`
}

func toPersonResponse(p models.Person) personResponse {
	resp := personResponse{
		ID:         p.ID,
		Name:       p.Name,
		NetBalance: p.NetBalance,
		Records:    make([]recordResponse, 0, len(p.Records)),
	}
	for _, rec := range p.Records {
		resp.Records = append(resp.Records, recordResponse{
			ID:     rec.ID,
			Amount: rec.Amount,
			Date:   rec.Date.Format(dateLayout),
			Note:   rec.Note,
		})
	}
	return resp
}

func (s *Server) handleListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := s.people.GetAllWithRecords(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]personResponse, 0, len(people))
	for _, p := range people {
		resp = append(resp, toPersonResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	person, err := s.svc.AddPerson(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPersonResponse(*person))
}

func (s *Server) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.DeletePerson(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Direction string          `json:"direction"`
		Amount    decimal.Decimal `json:"amount"`
		Date      string          `json:"date"`
		Note      string          `json:"note"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid date, want YYYY-MM-DD"})
		return
	}

	rec, err := s.svc.AddTransaction(r.Context(), id, models.Direction(req.Direction), req.Amount, date, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, recordResponse{
		ID:     rec.ID,
		Amount: rec.Amount,
		Date:   rec.Date.Format(dateLayout),
		Note:   rec.Note,
	})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.DeleteTransaction(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type expenseResponse struct {
	ID       int             `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
	Category string          `json:"category"`
	Note     string          `json:"note,omitempty"`
	Method   string          `json:"method,omitempty"`
}

func toExpenseResponse(e models.Expense) expenseResponse {
	return expenseResponse{
		ID:       e.ID,
		Amount:   e.Amount,
		Date:     e.Date.Format(dateLayout),
		Category: e.Category,
		Note:     e.Note,
		Method:   e.Method,
	}
}

type expenseRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
	Category string          `json:"category"`
	Note     string          `json:"note"`
	Method   string          `json:"method"`
}

func (req *expenseRequest) toModel(w http.ResponseWriter) (*models.Expense, bool) {
	date, err := parseDate(req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid date, want YYYY-MM-DD"})
		return nil, false
	}
	return &models.Expense{
		Amount:   req.Amount,
		Date:     date,
		Category: req.Category,
		Note:     req.Note,
		Method:   req.Method,
	}, true
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenses.GetAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		resp = append(resp, toExpenseResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	expense, ok := req.toModel(w)
	if !ok {
		return
	}
	if err := s.svc.AddExpense(r.Context(), expense); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseResponse(*expense))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req expenseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	expense, ok := req.toModel(w)
	if !ok {
		return
	}
	expense.ID = id
	if err := s.svc.UpdateExpense(r.Context(), expense); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseResponse(*expense))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.DeleteExpense(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type categoryResponse struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Color     string `json:"color"`
	SortOrder int    `json:"sortOrder"`
	IsDefault bool   `json:"isDefault"`
}

type categoryRequest struct {
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Color     string `json:"color"`
	SortOrder int    `json:"sortOrder"`
}

func toCategoryResponse(c models.Category) categoryResponse {
	return categoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Icon:      c.Icon,
		Color:     c.Color,
		SortOrder: c.SortOrder,
		IsDefault: c.IsDefault,
	}
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories.GetAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, toCategoryResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	cat := &models.Category{Name: req.Name, Icon: req.Icon, Color: req.Color, SortOrder: req.SortOrder}
	if err := s.svc.AddCategory(r.Context(), cat); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryResponse(*cat))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req categoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	cat := &models.Category{ID: id, Name: req.Name, Icon: req.Icon, Color: req.Color, SortOrder: req.SortOrder}
	if err := s.svc.UpdateCategory(r.Context(), cat); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(*cat))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	// Deleting a default category is a silent no-op, so deletion always
	// reports success.
	w.WriteHeader(http.StatusNoContent)
}

type categoryTotalResponse struct {
	Name  string          `json:"name"`
	Icon  string          `json:"icon"`
	Color string          `json:"color"`
	Total decimal.Decimal `json:"total"`
}

type activityItemResponse struct {
	Title    string          `json:"title"`
	Subtitle string          `json:"subtitle,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
	Kind     string          `json:"kind"`
}

type summaryResponse struct {
	MonthlyTotal    decimal.Decimal         `json:"monthlyTotal"`
	CategoryTotals  []categoryTotalResponse `json:"categoryTotals"`
	NetLendingTotal decimal.Decimal         `json:"netLendingTotal"`
	RecentActivity  []activityItemResponse  `json:"recentActivity"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	monthly, err := s.summary.MonthlyTotal(ctx, s.now())
	if err != nil {
		writeError(w, err)
		return
	}
	totals, err := s.summary.CategoryTotals(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	net, err := s.summary.NetLendingTotal(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	activity, err := s.summary.RecentActivity(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := summaryResponse{
		MonthlyTotal:    monthly,
		CategoryTotals:  make([]categoryTotalResponse, 0, len(totals)),
		NetLendingTotal: net,
		RecentActivity:  make([]activityItemResponse, 0, len(activity)),
	}
	for _, t := range totals {
		resp.CategoryTotals = append(resp.CategoryTotals, categoryTotalResponse{
			Name: t.Name, Icon: t.Icon, Color: t.Color, Total: t.Total,
		})
	}
	for _, item := range activity {
		resp.RecentActivity = append(resp.RecentActivity, activityItemResponse{
			Title:    item.Title,
			Subtitle: item.Subtitle,
			Amount:   item.Amount,
			Date:     item.Date.Format(dateLayout),
			Kind:     string(item.Kind),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	expenses, err := s.expenses.GetAll(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	people, err := s.people.GetAllWithRecords(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	doc, err := export.Build(expenses, people)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(s.now())))
	if _, err := w.Write(doc); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to write CSV export")
	}
}

func (s *Server) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	totals, err := s.summary.CategoryTotals(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if len(totals) == 0 {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no expenses to chart"})
		return
	}

	title := fmt.Sprintf("Expenses by Category - %s", s.now().Format("January 2006"))
	png, err := report.Chart(totals, title)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(png); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to write chart")
	}
}
