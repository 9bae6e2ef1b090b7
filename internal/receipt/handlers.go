package receipt

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
)

const (
	maxReceiptBody = 1 << 20  // 1MB
	maxUploadSize  = 50 << 20 // 50MB, high-resolution phone photos
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// writeError writes a JSON error body
func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}

// writeStoreError maps receipt errors to HTTP status codes
func writeStoreError(w http.ResponseWriter, err error, validationStatus int) {
	var (
		validation *ValidationError
		notFound   *NotFoundError
	)
	switch {
	case errors.As(err, &validation):
		writeError(w, validationStatus, validation.Error())
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, "No receipt found for that ID.")
	default:
		slog.Error("Error handling receipt request", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// handleProcessReceipt scores a JSON receipt and returns its ID
func (s *Server) handleProcessReceipt(w http.ResponseWriter, r *http.Request) {
	var receipt Receipt
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxReceiptBody)).Decode(&receipt); err != nil {
		slog.Warn("Invalid receipt body", "error", err)
		writeError(w, http.StatusBadRequest, "The receipt is invalid.")
		return
	}

	id, err := s.store.Submit(receipt)
	if err != nil {
		writeStoreError(w, err, http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, SubmitResponse{ID: id})
}

// handleGetPoints returns the score of a previously processed receipt
func (s *Server) handleGetPoints(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Receipt ID required")
		return
	}

	score, err := s.store.GetScore(id)
	if err != nil {
		writeStoreError(w, err, http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, score)
}

// handleScanReceipt reads a receipt image, scans it and submits the result
func (s *Server) handleScanReceipt(w http.ResponseWriter, r *http.Request) {
	if s.intake == nil {
		writeError(w, http.StatusServiceUnavailable, "Receipt scanning is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File is too large. Maximum size is 50MB.")
			return
		}
		writeError(w, http.StatusBadRequest, "Error parsing form")
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		writeError(w, http.StatusBadRequest, "No file was provided")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, "Error reading file")
		return
	}

	id, err := s.intake.Process(header.Filename, data, uploadContentType(header.Header.Get("Content-Type"), header.Filename))
	if err != nil {
		var validation *ValidationError
		if !errors.As(err, &validation) && !isStoreError(err) {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeStoreError(w, err, http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, http.StatusOK, SubmitResponse{ID: id})
}

// handleHealth reports that the process is serving requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok")
}

func isStoreError(err error) bool {
	var internal *InternalError
	return errors.As(err, &internal)
}

// uploadContentType falls back to the file extension when the part has no Content-Type
func uploadContentType(declared, filename string) string {
	contentType := strings.ToLower(strings.TrimSpace(declared))
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}
