package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/ndewijer/portfolio-ledger/internal/api/request"
	"github.com/ndewijer/portfolio-ledger/internal/api/response"
	"github.com/ndewijer/portfolio-ledger/internal/ledger"
	"github.com/ndewijer/portfolio-ledger/internal/model"
	"github.com/ndewijer/portfolio-ledger/internal/report"
	"github.com/ndewijer/portfolio-ledger/internal/service"
)

// MaxUploadBytes bounds a ledger uploaded to the reload endpoint.
const MaxUploadBytes = 10 << 20

// PortfolioHandler serves the views of the current snapshot. Every view
// accepts the owner, broker and account_type query parameters.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
	source           ledger.RowSource
}

// NewPortfolioHandler creates a new PortfolioHandler. source is reloaded by
// the reload endpoint when the request has no CSV body.
func NewPortfolioHandler(portfolioService *service.PortfolioService, source ledger.RowSource) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
		source:           source,
	}
}

// view serves a filtered view of the current snapshot as JSON.
func (h *PortfolioHandler) view(compute func(*model.Snapshot, model.Filter) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := request.ParseFilter(r.URL.Query())
		if err != nil {
			response.RespondErr(w, r, "invalid filter", err)
			return
		}
		snap, ok := h.currentSnapshot(w, r)
		if !ok {
			return
		}
		response.RespondJSON(w, r, http.StatusOK, compute(snap, f))
	}
}

// Summary handles GET /api/portfolio/summary.
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	h.view(func(s *model.Snapshot, f model.Filter) any { return service.Summarize(s, f) })(w, r)
}

// Performance handles GET /api/portfolio/performance.
func (h *PortfolioHandler) Performance(w http.ResponseWriter, r *http.Request) {
	h.view(func(s *model.Snapshot, f model.Filter) any { return service.Performance(s, f) })(w, r)
}

// Risk handles GET /api/portfolio/risk.
func (h *PortfolioHandler) Risk(w http.ResponseWriter, r *http.Request) {
	h.view(func(s *model.Snapshot, f model.Filter) any { return service.Risk(s, f) })(w, r)
}

// Accounts handles GET /api/portfolio/accounts.
func (h *PortfolioHandler) Accounts(w http.ResponseWriter, r *http.Request) {
	h.view(func(s *model.Snapshot, f model.Filter) any { return service.AccountsDetailed(s, f) })(w, r)
}

// Yearly handles GET /api/portfolio/yearly.
func (h *PortfolioHandler) Yearly(w http.ResponseWriter, r *http.Request) {
	h.view(func(s *model.Snapshot, f model.Filter) any { return service.YearlyReturns(s, f) })(w, r)
}

// Dashboard computes summary, performance, risk and yearly returns in one response.
//
// Endpoint: GET /api/portfolio/dashboard
// Response: 200 OK with model.Dashboard
// Error: 400 Bad Request for an invalid filter
// Error: 503 Service Unavailable if no ledger is loaded
func (h *PortfolioHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	f, err := request.ParseFilter(r.URL.Query())
	if err != nil {
		response.RespondErr(w, r, "invalid filter", err)
		return
	}
	snap, ok := h.currentSnapshot(w, r)
	if !ok {
		return
	}
	d, err := h.portfolioService.Dashboard(r.Context(), snap, f)
	if err != nil {
		response.RespondErr(w, r, "failed to compute dashboard", err)
		return
	}
	response.RespondJSON(w, r, http.StatusOK, d)
}

// Filters lists the owners, brokers and account types present in the ledger.
//
// Endpoint: GET /api/portfolio/filters
func (h *PortfolioHandler) Filters(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.currentSnapshot(w, r)
	if !ok {
		return
	}
	response.RespondJSON(w, r, http.StatusOK, service.FilterOptions(snap))
}

// Diagnostics lists the load and valuation warnings of the current snapshot.
//
// Endpoint: GET /api/portfolio/diagnostics
func (h *PortfolioHandler) Diagnostics(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.currentSnapshot(w, r)
	if !ok {
		return
	}
	response.RespondJSON(w, r, http.StatusOK, snap.Diagnostics())
}

// Transactions lists ledger rows, newest first.
//
// Endpoint: GET /api/portfolio/transactions
// Query: owner, broker, account_type, security, year, type
// Error: 400 Bad Request if year or type is invalid
func (h *PortfolioHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	tf, err := request.ParseTransactionFilter(r.URL.Query())
	if err != nil {
		response.RespondErr(w, r, "invalid filter", err)
		return
	}
	snap, ok := h.currentSnapshot(w, r)
	if !ok {
		return
	}
	response.RespondJSON(w, r, http.StatusOK, service.Transactions(snap, tf))
}

// TransactionsCSV exports the same listing as Transactions as a CSV download.
//
// Endpoint: GET /api/portfolio/transactions.csv
func (h *PortfolioHandler) TransactionsCSV(w http.ResponseWriter, r *http.Request) {
	tf, err := request.ParseTransactionFilter(r.URL.Query())
	if err != nil {
		response.RespondErr(w, r, "invalid filter", err)
		return
	}
	snap, ok := h.currentSnapshot(w, r)
	if !ok {
		return
	}

	rows := service.Transactions(snap, tf)
	var buf bytes.Buffer
	if err := gocsv.Marshal(&rows, &buf); err != nil {
		response.RespondErr(w, r, "failed to export transactions", err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	response.RespondContent(w, r, http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Report renders the portfolio report.
//
// Endpoint: GET /api/portfolio/report
// Query: format=markdown|html|text plus the account filter
func (h *PortfolioHandler) Report(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f, err := request.ParseFilter(q)
	if err != nil {
		response.RespondErr(w, r, "invalid filter", err)
		return
	}
	format, err := request.ParseReportFormat(q)
	if err != nil {
		response.RespondErr(w, r, "invalid format", err)
		return
	}
	snap, ok := h.currentSnapshot(w, r)
	if !ok {
		return
	}

	md, err := report.New(snap, f).Markdown()
	if err != nil {
		response.RespondErr(w, r, "failed to render report", err)
		return
	}
	switch format {
	case "html":
		html, err := report.HTML(md)
		if err != nil {
			response.RespondErr(w, r, "failed to render report", err)
			return
		}
		response.RespondContent(w, r, http.StatusOK, "text/html; charset=utf-8", []byte(html))
	case "text":
		out, err := report.Terminal(md, "notty", 100)
		if err != nil {
			response.RespondErr(w, r, "failed to render report", err)
			return
		}
		response.RespondContent(w, r, http.StatusOK, "text/plain; charset=utf-8", []byte(out))
	default:
		response.RespondContent(w, r, http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
	}
}

// ReloadResponse describes a freshly loaded snapshot.
type ReloadResponse struct {
	Snapshot     string             `json:"snapshot"`
	Source       string             `json:"source"`
	Transactions int                `json:"transactions"`
	SkippedRows  int                `json:"skippedRows"`
	Diagnostics  []model.Diagnostic `json:"diagnostics"`
}

// Reload loads the ledger again and replaces the current snapshot. A request
// with a text/csv body loads that body instead of the configured ledger file.
// On failure the current snapshot is kept.
//
// Endpoint: POST /api/portfolio/reload
// Response: 200 OK with ReloadResponse
// Error: 422 Unprocessable Entity if the ledger cannot be recognized
func (h *PortfolioHandler) Reload(w http.ResponseWriter, r *http.Request) {
	src := h.source
	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/csv") {
		src = ledger.NewCSVSource("upload", http.MaxBytesReader(w, r.Body, MaxUploadBytes))
	}
	if src == nil {
		response.RespondError(w, r, http.StatusBadRequest, "no ledger source configured", "send the ledger as a text/csv body")
		return
	}

	snap, err := h.portfolioService.Reload(r.Context(), src)
	if err != nil {
		response.RespondErr(w, r, "failed to reload ledger", err)
		return
	}
	w.Header().Set(SnapshotHeader, snap.ID.String())
	response.RespondJSON(w, r, http.StatusOK, ReloadResponse{
		Snapshot:     snap.ID.String(),
		Source:       fmt.Sprint(src),
		Transactions: len(snap.Transactions),
		SkippedRows:  snap.SkippedRows,
		Diagnostics:  snap.Diagnostics(),
	})
}

// RevalueResponse describes a revalued snapshot.
type RevalueResponse struct {
	Snapshot    string             `json:"snapshot"`
	ValuedAt    time.Time          `json:"valuedAt"`
	Diagnostics []model.Diagnostic `json:"diagnostics"`
}

// Revalue refreshes prices and exchange rates of the current snapshot.
//
// Endpoint: POST /api/portfolio/revalue
func (h *PortfolioHandler) Revalue(w http.ResponseWriter, r *http.Request) {
	snap, err := h.portfolioService.RevalueCurrent(r.Context())
	if err != nil {
		response.RespondErr(w, r, "failed to revalue", err)
		return
	}
	w.Header().Set(SnapshotHeader, snap.ID.String())
	diags := snap.ValuationDiagnostics
	if diags == nil {
		diags = []model.Diagnostic{}
	}
	response.RespondJSON(w, r, http.StatusOK, RevalueResponse{
		Snapshot:    snap.ID.String(),
		ValuedAt:    snap.ValuedAt,
		Diagnostics: diags,
	})
}
