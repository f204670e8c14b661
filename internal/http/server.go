package http

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"

	"finsight/internal/core"
	"finsight/web"
)

// TransactionStore is what the handlers need from the persistence side.
// Implemented by services.TransactionService.
type TransactionStore interface {
	Create(ctx context.Context, t core.Transaction) (core.Transaction, error)
	List(ctx context.Context, start, end string, limit, offset int) ([]core.Transaction, error)
	Count(ctx context.Context, start, end string) (int64, error)
	CategoryExpenseSums(ctx context.Context, start, end string) ([]core.CategorySum, error)
	AllCategoryExpenseSums(ctx context.Context) ([]core.CategorySum, error)
	TypeTotals(ctx context.Context, start, end string) (core.TypeTotals, error)
	DailySums(ctx context.Context, typ, start, end string) ([]core.DailySum, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// TextExtractor extracts plain text from an uploaded PDF buffer.
// Implemented by receipt.PDFExtractor.
type TextExtractor interface {
	ExtractText(data []byte) (string, error)
}

type Server struct {
	http.Server
	store        TransactionStore
	extractor    TextExtractor
	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// NewServer configures routes and static assets, returning a ready-to-run
// http.Server.
func NewServer(addr string, store TransactionStore, extractor TextExtractor) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:       store,
		extractor:   extractor,
		rateLimiter: newRateLimiter(),
	}

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(web.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Tiny cache for static assets
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withTrace(s.handleIndex))
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/transactions", s.withTrace(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/transactions", s.withTrace(s.handleListTransactions))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withTrace(s.handleDeleteTransaction))
	mux.HandleFunc("GET /api/summary", s.withTrace(s.handleSummary))
	mux.HandleFunc("GET /api/overview", s.withTrace(s.handleOverview))
	mux.HandleFunc("POST /api/receipts/upload", s.withTrace(s.handleReceiptUpload))
	mux.HandleFunc("POST /api/receipts/extract-pdf", s.withTrace(s.handleReceiptExtractPDF))

	return s
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.store.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleIndex serves the embedded single-page client at the root path.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	index, err := web.StaticFS.ReadFile("static/index.html")
	if err != nil {
		slog.ErrorContext(r.Context(), "Index asset missing", "error", err)
		http.Error(w, "index not available", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(index)
}
