package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/stockdeck/stockdeck/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// dashboardStock bundles everything the dashboard list row needs for one
// symbol.
type dashboardStock struct {
	Symbol  string                 `json:"symbol"`
	Quote   *models.Quote          `json:"quote"`
	Profile *models.Profile        `json:"profile,omitempty"`
	Changes *models.PriceChangeSet `json:"changes,omitempty"`
	Curated *models.CuratedStock   `json:"curated,omitempty"`
}

type dashboardResponse struct {
	Stocks   []dashboardStock      `json:"stocks"`
	Treasury *models.TreasuryRates `json:"treasury,omitempty"`
}

// handleDashboard serves the main dashboard bundle. Symbols come from the
// symbols query parameter; without one, the curated list drives the page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var symbols []string
	curatedBySymbol := make(map[string]*models.CuratedStock)

	if raw := r.URL.Query().Get("symbols"); raw != "" {
		for _, symbol := range strings.Split(raw, ",") {
			if symbol = strings.ToUpper(strings.TrimSpace(symbol)); symbol != "" {
				symbols = append(symbols, symbol)
			}
		}
	} else {
		for _, stock := range s.curated.ListStocks(ctx) {
			symbols = append(symbols, stock.Ticker)
			curatedBySymbol[stock.Ticker] = stock
		}
	}

	quotes := s.market.BatchQuotes(ctx, symbols)
	profiles := s.market.BatchProfiles(ctx, symbols)
	changes := s.market.BatchPriceChanges(ctx, symbols)

	resp := dashboardResponse{
		Stocks:   make([]dashboardStock, 0, len(symbols)),
		Treasury: s.market.TreasuryRates(ctx),
	}
	seen := make(map[string]bool, len(symbols))
	for _, symbol := range symbols {
		if seen[symbol] {
			continue
		}
		seen[symbol] = true
		resp.Stocks = append(resp.Stocks, dashboardStock{
			Symbol:  symbol,
			Quote:   mergePE(quotes[symbol], profiles[symbol]),
			Profile: profiles[symbol],
			Changes: changes[symbol],
			Curated: curatedBySymbol[symbol],
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// mergePE fills a quote's missing P/E from the profile. The quote's own
// value wins when both are present. The input quote may be shared with
// concurrent requests, so filling works on a copy.
func mergePE(quote *models.Quote, profile *models.Profile) *models.Quote {
	if quote == nil || quote.PE != nil || profile == nil || profile.PERatio == nil {
		return quote
	}
	merged := *quote
	merged.PE = profile.PERatio
	return &merged
}

type stockDetailResponse struct {
	Quote   *models.Quote          `json:"quote"`
	Profile *models.Profile        `json:"profile,omitempty"`
	Changes *models.PriceChangeSet `json:"changes,omitempty"`
	History []models.HistoryPoint  `json:"history,omitempty"`
	News    []models.NewsItem      `json:"news,omitempty"`
}

func (s *Server) handleStockDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := chi.URLParam(r, "symbol")

	profile := s.market.Profile(ctx, symbol)
	writeJSON(w, http.StatusOK, stockDetailResponse{
		Quote:   mergePE(s.market.Quote(ctx, symbol), profile),
		Profile: profile,
		Changes: s.market.PriceChange(ctx, symbol),
		History: s.market.DailyHistory(ctx, symbol),
		News:    s.market.News(ctx, symbol),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.market.DailyHistory(r.Context(), chi.URLParam(r, "symbol")))
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.market.News(r.Context(), chi.URLParam(r, "symbol")))
}

type financialsResponse struct {
	Income     []models.IncomeStatement   `json:"income,omitempty"`
	Balance    []models.BalanceSheet      `json:"balance,omitempty"`
	CashFlow   []models.CashFlowStatement `json:"cashFlow,omitempty"`
	KeyMetrics *models.KeyMetrics         `json:"keyMetrics,omitempty"`
	Ratios     *models.Ratios             `json:"ratios,omitempty"`
}

func (s *Server) handleFinancials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := chi.URLParam(r, "symbol")

	writeJSON(w, http.StatusOK, financialsResponse{
		Income:     s.market.IncomeStatements(ctx, symbol),
		Balance:    s.market.BalanceSheets(ctx, symbol),
		CashFlow:   s.market.CashFlowStatements(ctx, symbol),
		KeyMetrics: s.market.KeyMetrics(ctx, symbol),
		Ratios:     s.market.Ratios(ctx, symbol),
	})
}

type technicalsResponse struct {
	RSI []models.TechnicalPoint `json:"rsi,omitempty"`
	SMA []models.TechnicalPoint `json:"sma,omitempty"`
}

func (s *Server) handleTechnicals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := chi.URLParam(r, "symbol")

	period := 50
	if raw := r.URL.Query().Get("period"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p <= 0 {
			writeError(w, http.StatusBadRequest, "invalid period")
			return
		}
		period = p
	}

	writeJSON(w, http.StatusOK, technicalsResponse{
		RSI: s.market.RSI(ctx, symbol),
		SMA: s.market.SMA(ctx, symbol, period),
	})
}

type ownershipResponse struct {
	Float   *models.SharesFloat          `json:"float,omitempty"`
	Holders []models.InstitutionalHolder `json:"holders,omitempty"`
}

func (s *Server) handleOwnership(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := chi.URLParam(r, "symbol")

	writeJSON(w, http.StatusOK, ownershipResponse{
		Float:   s.market.SharesFloat(ctx, symbol),
		Holders: s.market.InstitutionalHolders(ctx, symbol),
	})
}

func (s *Server) handlePriceTarget(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.market.PriceTarget(r.Context(), chi.URLParam(r, "symbol")))
}

func (s *Server) handleDebtMaturity(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.market.DebtMaturity(r.Context(), chi.URLParam(r, "symbol")))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing query")
		return
	}
	writeJSON(w, http.StatusOK, s.market.Search(r.Context(), query))
}

func (s *Server) handleTreasury(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.market.TreasuryRates(r.Context()))
}

func (s *Server) handleSectors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.market.SectorPerformance(r.Context()))
}

func (s *Server) handleListCurated(w http.ResponseWriter, r *http.Request) {
	stocks := s.curated.ListStocks(r.Context())
	if stocks == nil {
		stocks = []*models.CuratedStock{}
	}
	writeJSON(w, http.StatusOK, stocks)
}

type addStockRequest struct {
	Ticker string `json:"ticker"`
	Notes  string `json:"notes"`
}

func (s *Server) handleAddCurated(w http.ResponseWriter, r *http.Request) {
	var req addStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Ticker) == "" {
		writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	stock, err := s.curated.AddStock(r.Context(), req.Ticker, req.Notes)
	if err != nil {
		writeError(w, http.StatusBadGateway, "backend unavailable")
		return
	}
	writeJSON(w, http.StatusCreated, stock)
}

type updateNotesRequest struct {
	Notes string `json:"notes"`
}

func (s *Server) handleUpdateCuratedNotes(w http.ResponseWriter, r *http.Request) {
	var req updateNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stock, err := s.curated.UpdateNotes(r.Context(), chi.URLParam(r, "id"), req.Notes)
	if err != nil {
		writeError(w, http.StatusBadGateway, "backend unavailable")
		return
	}
	writeJSON(w, http.StatusOK, stock)
}

func (s *Server) handleRemoveCurated(w http.ResponseWriter, r *http.Request) {
	if err := s.curated.RemoveStock(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusBadGateway, "backend unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

// handleReorderCurated rewrites display positions to match the posted id
// order. Unknown ids are rejected before any write happens.
func (s *Server) handleReorderCurated(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	current := s.curated.ListStocks(r.Context())
	byID := make(map[string]*models.CuratedStock, len(current))
	for _, stock := range current {
		byID[stock.ID] = stock
	}

	ordered := make([]*models.CuratedStock, 0, len(req.IDs))
	for _, id := range req.IDs {
		stock, ok := byID[id]
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown stock id: %s", id))
			return
		}
		ordered = append(ordered, stock)
	}

	if err := s.curated.Reorder(r.Context(), ordered); err != nil {
		writeError(w, http.StatusBadGateway, "backend unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListThesis(w http.ResponseWriter, r *http.Request) {
	entries := s.curated.ThesisEntries(r.Context(), chi.URLParam(r, "id"))
	if entries == nil {
		entries = []*models.ThesisEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleAllThesis(w http.ResponseWriter, r *http.Request) {
	entries := s.curated.AllThesisEntries(r.Context())
	if entries == nil {
		entries = []*models.ThesisEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

type addThesisRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleAddThesis(w http.ResponseWriter, r *http.Request) {
	var req addThesisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	entry, err := s.curated.AddThesisEntry(r.Context(), chi.URLParam(r, "id"), req.Content)
	if err != nil {
		writeError(w, http.StatusBadGateway, "backend unavailable")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleDeleteThesis(w http.ResponseWriter, r *http.Request) {
	if err := s.curated.DeleteThesisEntry(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusBadGateway, "backend unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleEvents streams curated-list refresh signals as server-sent events,
// so the frontend can re-pull the dashboard when the backend changes.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	refresh := s.subscribe()
	defer s.unsubscribe(refresh)

	for {
		select {
		case <-r.Context().Done():
			return
		case <-refresh:
			fmt.Fprint(w, "event: refresh\ndata: {}\n\n")
			flusher.Flush()
		}
	}
}
