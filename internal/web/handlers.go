package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stocksync/stocksync/internal/core"
	"github.com/stocksync/stocksync/internal/logging"
)

// uploadResponse is the envelope returned by the upload endpoint.
type uploadResponse struct {
	Success        bool                `json:"success"`
	UploadID       string              `json:"uploadId"`
	ProcessedCount int                 `json:"processedCount"`
	SkippedCount   int                 `json:"skippedCount"`
	DetectedFormat core.DetectedFormat `json:"detectedFormat"`
	Message        string              `json:"message,omitempty"`
}

// handleUpload accepts one CSV file as multipart form data under the "file"
// field and runs the full ingest pipeline.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	// One extra MB of headroom for the multipart envelope.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize+1<<20)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, &core.ParseError{Reason: "no file provided", Err: err})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.Upload.MaxFileSize+1))
	if err != nil {
		s.respondError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	logging.WithFields(r.Context(), "tenant_id", tenantID, "file", header.Filename).
		Info("upload received", "bytes", len(data))

	result, err := s.service.ProcessUpload(r.Context(), tenantID, header.Filename, data)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, uploadResponse{
		Success:        true,
		UploadID:       result.UploadID,
		ProcessedCount: result.Processed,
		SkippedCount:   result.Skipped,
		DetectedFormat: result.Format,
		Message:        result.Message,
	})
}

// handleExport streams the canonical stock CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="stock-export.csv"`)

	if err := s.service.ExportCSV(r.Context(), tenantID, w); err != nil {
		// Headers may already be written; log and give up on the body.
		logging.FromContext(r.Context()).Error("export failed", "tenant_id", tenantID, "error", err)
	}
}

func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	changed, err := s.service.ReconcileTenant(r.Context(), tenantID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"productsChanged": changed,
	})
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.service.Products(r.Context(), chi.URLParam(r, "tenantID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (s *Server) handleSetQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Channel  core.Channel `json:"channel"`
		Quantity int          `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, &core.ParseError{Reason: "invalid JSON body", Err: err})
		return
	}

	p, err := s.service.SetChannelQuantity(r.Context(),
		chi.URLParam(r, "tenantID"), chi.URLParam(r, "productID"), req.Channel, req.Quantity)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleAssignSupplier(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SupplierID string `json:"supplierId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, &core.ParseError{Reason: "invalid JSON body", Err: err})
		return
	}

	p, err := s.service.AssignSupplier(r.Context(),
		chi.URLParam(r, "tenantID"), chi.URLParam(r, "productID"), req.SupplierID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleSetThreshold(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Threshold int `json:"threshold"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, &core.ParseError{Reason: "invalid JSON body", Err: err})
		return
	}

	p, err := s.service.SetLowStockThreshold(r.Context(),
		chi.URLParam(r, "tenantID"), chi.URLParam(r, "productID"), req.Threshold)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.service.Settings(r.Context(), chi.URLParam(r, "tenantID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings core.TenantSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		s.respondError(w, r, &core.ParseError{Reason: "invalid JSON body", Err: err})
		return
	}

	tenantID := chi.URLParam(r, "tenantID")
	if err := s.service.UpdateSettings(r.Context(), tenantID, settings); err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

func (s *Server) handleListUploads(w http.ResponseWriter, r *http.Request) {
	uploads, err := s.service.Uploads(r.Context(), chi.URLParam(r, "tenantID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, uploads)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := s.service.Notifications(r.Context(), chi.URLParam(r, "tenantID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, notifications)
}
