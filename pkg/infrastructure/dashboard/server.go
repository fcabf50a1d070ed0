// Package dashboard provides the web rendition of the deal review dashboard.
package dashboard

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/felixgeelhaar/doccompare/pkg/application"
	"github.com/felixgeelhaar/doccompare/pkg/domain"
	"github.com/felixgeelhaar/doccompare/pkg/domain/deal"
	"github.com/felixgeelhaar/doccompare/pkg/domain/portfolio"
	"github.com/felixgeelhaar/doccompare/pkg/sdk"
)

//go:embed templates/*
var templatesFS embed.FS

// Server is the dashboard HTTP server. It keeps no per-user state: every
// request builds its own view services over the shared backend.
type Server struct {
	addr     string
	backend  domain.Backend
	baseDeal string
	logger   *slog.Logger
	server   *http.Server
	tmpl     *template.Template
}

// NewServer creates a new dashboard server. baseDeal is the family the
// amendment page opens with.
func NewServer(addr string, backend domain.Backend, baseDeal string, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Server{
		addr:     addr,
		backend:  backend,
		baseDeal: baseDeal,
		logger:   logger,
		tmpl:     tmpl,
	}, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /portfolio/add", s.handleAddToPortfolio)
	mux.HandleFunc("GET /portfolio", s.handlePortfolio)
	mux.HandleFunc("GET /amendments", s.handleAmendments)
	mux.HandleFunc("GET /report/{deal}", s.handleReport)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/portfolio/summary", s.handleAPIPortfolioSummary)
	mux.HandleFunc("GET /api/amendments/diff", s.handleAPIDiff)

	return mux
}

// Start starts the dashboard server and blocks until it stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      2 * time.Minute,
	}

	s.logger.Info("dashboard server starting", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// PageData holds data for template rendering.
type PageData struct {
	Title      string
	Active     string
	Error      string
	Notice     string
	Single     *SingleDealPage
	Portfolio  *PortfolioPage
	Amendments *AmendmentPage
}

// SingleDealPage is the single deal comparison view.
type SingleDealPage struct {
	Samples     []string
	Sample      string
	CanAnalyze  bool
	Result      *deal.AnalysisResult
	Detail      *deal.Deviation
	DetailIndex int
	ReportURL   string
}

// PortfolioPage is the portfolio risk view.
type PortfolioPage struct {
	View    application.PortfolioView
	Options []deal.Jurisdiction
}

// AmendmentPage is the amendment diff view.
type AmendmentPage struct {
	View application.AmendmentView
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.renderSingleDeal(w, r, q.Get("sample"), q.Get("action") == "analyze", q.Get("detail"))
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	s.renderSingleDeal(w, r, r.PostFormValue("sample"), true, r.PostFormValue("detail"))
}

func (s *Server) renderSingleDeal(w http.ResponseWriter, r *http.Request, sample string, analyze bool, detail string) {
	data := PageData{Title: "Single Deal", Active: "single"}

	svc, err := application.NewSingleDealService(s.backend, s.logger)
	if err != nil {
		s.logger.Error("failed to create session", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	if err := svc.LoadSamples(ctx); err != nil {
		data.Error = err.Error()
	} else if sample != "" {
		if err := svc.Select(sample); err != nil {
			data.Error = err.Error()
		} else if analyze {
			if _, err := svc.Analyze(ctx); err != nil {
				data.Error = err.Error()
			} else if i, err := strconv.Atoi(detail); err == nil {
				if err := svc.SelectDeviation(i); err != nil {
					s.logger.Debug("ignoring deviation selection", "index", detail, "error", err)
				}
			}
		}
	}

	v := svc.View()
	if v.Warning != nil {
		data.Notice = "Warning: " + v.Warning.Error()
	}
	data.Single = &SingleDealPage{
		Samples:     v.Samples,
		Sample:      v.Sample,
		CanAnalyze:  v.CanAnalyze,
		Result:      v.Result,
		Detail:      v.Detail,
		DetailIndex: v.DetailIndex,
		ReportURL:   v.ReportURL,
	}
	s.render(w, "index.html", data)
}

func (s *Server) handleAddToPortfolio(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sample := r.PostFormValue("sample")
	data := PageData{Title: "Single Deal", Active: "single", Single: &SingleDealPage{Sample: sample, DetailIndex: -1}}

	ctx := r.Context()
	if samples, err := s.backend.ListSamples(ctx); err == nil {
		data.Single.Samples = samples
	}

	if sample == "" {
		data.Error = "select a sample deal first"
		s.render(w, "index.html", data)
		return
	}

	reg, err := s.backend.AddToPortfolio(ctx, sample)
	if err != nil {
		s.logger.Error("add to portfolio failed", "sample", sample, "error", err)
		data.Error = err.Error()
		s.render(w, "index.html", data)
		return
	}

	if reg == nil {
		s.logger.Error("add to portfolio returned no registration", "sample", sample)
		data.Error = "backend returned no registration"
		s.render(w, "index.html", data)
		return
	}

	data.Notice = "Added to portfolio"
	if reg.PortfolioStatus.Message != "" {
		data.Notice = reg.PortfolioStatus.Message
	}
	if reg.Analysis != nil {
		data.Single.Result = reg.Analysis
		data.Single.ReportURL = s.backend.ReportURL(reg.Analysis.DealName)
	}
	s.render(w, "index.html", data)
}

func (s *Server) loadPortfolio(ctx context.Context, filter string) (application.PortfolioView, error) {
	svc := application.NewPortfolioService(s.backend, s.logger)
	err := svc.Load(ctx)
	svc.SetFilter(deal.ParseJurisdictionFilter(filter))
	return svc.View(), err
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	data := PageData{Title: "Portfolio", Active: "portfolio"}

	view, err := s.loadPortfolio(r.Context(), r.URL.Query().Get("jurisdiction"))
	if err != nil {
		data.Error = err.Error()
	}
	data.Portfolio = &PortfolioPage{View: view, Options: portfolio.FilterOptions()}
	s.render(w, "portfolio.html", data)
}

func (s *Server) loadAmendments(ctx context.Context, base, v1, v2 string) (application.AmendmentView, error) {
	svc := application.NewAmendmentService(s.backend, base, s.logger)
	req, ok, err := svc.LoadVersions(ctx, base)
	if err != nil {
		return svc.View(), err
	}
	if v1 != "" {
		req, ok = svc.SelectV1(v1)
	}
	if v2 != "" {
		req, ok = svc.SelectV2(v2)
	}
	if ok {
		_, err = svc.FetchDiff(ctx, req)
	}
	return svc.View(), err
}

func (s *Server) handleAmendments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	base := q.Get("base")
	if base == "" {
		base = s.baseDeal
	}
	data := PageData{Title: "Amendments", Active: "amendments"}

	view, err := s.loadAmendments(r.Context(), base, q.Get("v1"), q.Get("v2"))
	if err != nil {
		data.Error = err.Error()
	}
	data.Amendments = &AmendmentPage{View: view}
	s.render(w, "amendments.html", data)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("deal")
	if name == "" {
		http.Error(w, "missing deal name", http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, s.backend.ReportURL(name), http.StatusFound)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type summaryResponse struct {
	Filter             deal.Jurisdiction    `json:"filter"`
	TotalDeals         int                  `json:"total_deals"`
	HighRiskDeals      int                  `json:"high_risk_deals"`
	RedFlags           int                  `json:"red_flags"`
	LegacyDocuments    int                  `json:"legacy_documents"`
	AverageScore       string               `json:"average_score"`
	HighRiskPercentage float64              `json:"high_risk_percentage"`
	Deals              []deal.PortfolioItem `json:"deals"`
}

func (s *Server) handleAPIPortfolioSummary(w http.ResponseWriter, r *http.Request) {
	view, err := s.loadPortfolio(r.Context(), r.URL.Query().Get("jurisdiction"))
	if err != nil {
		writeError(w, err)
		return
	}
	sum := view.Summary
	deals := view.Items
	if deals == nil {
		deals = []deal.PortfolioItem{}
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		Filter:             view.Filter,
		TotalDeals:         sum.TotalDeals,
		HighRiskDeals:      sum.HighRiskDeals,
		RedFlags:           sum.RedFlags,
		LegacyDocuments:    sum.LegacyDocuments,
		AverageScore:       sum.AverageLabel(),
		HighRiskPercentage: sum.HighRiskPercentage,
		Deals:              deals,
	})
}

type diffLineResponse struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

type diffResponse struct {
	V1      string             `json:"v1"`
	V2      string             `json:"v2"`
	State   string             `json:"state"`
	Added   int                `json:"added"`
	Removed int                `json:"removed"`
	Lines   []diffLineResponse `json:"lines"`
}

func (s *Server) handleAPIDiff(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v1, v2 := q.Get("v1"), q.Get("v2")
	if v1 == "" || v2 == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "v1 and v2 are required"})
		return
	}

	svc := application.NewAmendmentService(s.backend, q.Get("base"), s.logger)
	if err := svc.Compare(r.Context(), v1, v2); err != nil {
		writeError(w, err)
		return
	}

	v := svc.View()
	resp := diffResponse{
		V1:      v.V1,
		V2:      v.V2,
		State:   v.State.String(),
		Added:   v.Added,
		Removed: v.Removed,
		Lines:   make([]diffLineResponse, 0, len(v.Lines)),
	}
	for _, l := range v.Lines {
		resp.Lines = append(resp.Lines, diffLineResponse{Kind: l.Kind.String(), Text: l.Text})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) render(w http.ResponseWriter, name string, data PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("template error", "template", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError relays the backend status when there is one.
func writeError(w http.ResponseWriter, err error) {
	status := sdk.StatusCode(err)
	if status < 400 {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
