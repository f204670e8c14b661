package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"finsight/internal/receipt"
)

// maxReceiptBytes bounds uploaded receipt size (8 MiB).
const maxReceiptBytes = 8 << 20

// handleReceiptUpload handles image receipts. Extraction here is simulated:
// the file content is never inspected and the response says so.
func (s *Server) handleReceiptUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxReceiptBytes)

	file, header, err := r.FormFile("receipt")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded.")
		return
	}
	defer file.Close()

	extracted := receipt.Simulate(header.Filename)
	slog.InfoContext(r.Context(), "Simulated receipt extraction",
		"filename", header.Filename,
		"amount", extracted.Amount,
		"simulated", true)

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "File uploaded and processed successfully.",
		"data":    extracted,
	})
}

// handleReceiptExtractPDF extracts the total amount from an uploaded PDF by
// scanning its text for the "Total Amount" pattern.
func (s *Server) handleReceiptExtractPDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxReceiptBytes)

	file, header, err := r.FormFile("pdf")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No PDF file uploaded.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed reading uploaded PDF", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, "Failed to process PDF file.")
		return
	}

	text, err := s.extractor.ExtractText(data)
	if err != nil {
		slog.ErrorContext(r.Context(), "PDF parsing failed", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, "Failed to process PDF file.")
		return
	}

	amount, err := receipt.ScanTotal(text)
	if err != nil {
		if errors.Is(err, receipt.ErrAmountNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{
				"error": "Could not find a 'Total Amount' in the PDF. Please enter manually.",
				"data":  nil,
			})
			return
		}
		slog.ErrorContext(r.Context(), "PDF amount scan failed", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, "Failed to process PDF file.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Amount extracted successfully.",
		"data": receipt.Extracted{
			Amount:      amount,
			Category:    receipt.CategoryPDF,
			Description: fmt.Sprintf("Extracted from %s", header.Filename),
		},
	})
}
