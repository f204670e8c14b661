package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"finsight/internal/core"
)

type listResponse struct {
	Message string             `json:"message"`
	Data    []core.Transaction `json:"data"`
	Total   int64              `json:"total"`
	Page    int                `json:"page"`
	Limit   int                `json:"limit"`
}

// overviewResponse is the aggregate payload the browser client renders from:
// one page of transactions plus every figure the summary cards and charts
// need, computed server-side in a single request.
type overviewResponse struct {
	listResponse
	Totals        core.TypeTotals    `json:"totals"`
	Categories    []core.CategorySum `json:"categories"`
	ExpenseSeries []core.DailySum    `json:"expenseSeries"`
	IncomeSeries  []core.DailySum    `json:"incomeSeries"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var t core.Transaction
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	t.ID = 0 // server-assigned

	if err := t.ValidateForCreate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.Create(r.Context(), t)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "success",
		"data":    created,
	})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, limit := parsePagination(query)
	start, end := normalizeRange(query.Get("startDate"), query.Get("endDate"))
	offset := (page - 1) * limit

	data, err := s.store.List(r.Context(), start, end, limit, offset)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	total, err := s.store.Count(r.Context(), start, end)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if data == nil {
		data = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, listResponse{
		Message: "success",
		Data:    data,
		Total:   total,
		Page:    page,
		Limit:   limit,
	})
}

// handleSummary returns per-category expense sums over every stored record.
// The query is deliberately unbounded: dates are free text and a record may
// carry a future date.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sums, err := s.store.AllCategoryExpenseSums(r.Context())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if sums == nil {
		sums = []core.CategorySum{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "success",
		"data":    sums,
	})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	changes, err := s.store.Delete(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Transaction deleted successfully.",
		"changes": changes,
	})
}

// handleOverview serves the aggregate endpoint. The page, count, totals,
// category sums and both time series are independent queries, so they fan out
// concurrently.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, limit := parsePagination(query)
	start, end := normalizeRange(query.Get("startDate"), query.Get("endDate"))
	offset := (page - 1) * limit

	var resp overviewResponse
	resp.Message = "success"
	resp.Page = page
	resp.Limit = limit

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		resp.Data, err = s.store.List(ctx, start, end, limit, offset)
		return err
	})
	g.Go(func() (err error) {
		resp.Total, err = s.store.Count(ctx, start, end)
		return err
	})
	g.Go(func() (err error) {
		resp.Totals, err = s.store.TypeTotals(ctx, start, end)
		return err
	})
	g.Go(func() (err error) {
		resp.Categories, err = s.store.CategoryExpenseSums(ctx, start, end)
		return err
	})
	g.Go(func() (err error) {
		resp.ExpenseSeries, err = s.store.DailySums(ctx, core.TypeExpense, start, end)
		return err
	})
	g.Go(func() (err error) {
		resp.IncomeSeries, err = s.store.DailySums(ctx, core.TypeIncome, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		slog.ErrorContext(r.Context(), "Overview query failed", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if resp.Data == nil {
		resp.Data = []core.Transaction{}
	}
	if resp.Categories == nil {
		resp.Categories = []core.CategorySum{}
	}
	if resp.ExpenseSeries == nil {
		resp.ExpenseSeries = []core.DailySum{}
	}
	if resp.IncomeSeries == nil {
		resp.IncomeSeries = []core.DailySum{}
	}
	writeJSON(w, http.StatusOK, resp)
}
