package api

import (
	"net/http"

	"github.com/gorilla/mux"

	apperrors "github.com/flipperzap/internal/errors"
	"github.com/flipperzap/internal/types"
)

// maxMultipartMemory bounds the in-memory portion of multipart parsing;
// larger files spill to disk.
const maxMultipartMemory = 10 << 20

// handleAnalyzeScan accepts a toy image and starts its analysis. The
// response carries the scan id immediately; analysis runs in the background
// and the result arrives over WebSocket and on the scan resource.
func (s *Server) handleAnalyzeScan(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, r, apperrors.NewMissingImageError())
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, r, apperrors.NewMissingImageError())
		return
	}
	defer file.Close()

	imageURL, err := s.uploads.Save(file, header)
	if err != nil {
		writeError(w, r, apperrors.NewInvalidUploadError(err.Error()))
		return
	}

	scan, err := s.scanService.StartScan(r.Context(), userIDFrom(r), imageURL, types.ScanStatusProcessing)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"scanId": scan.ID,
		"status": string(scan.Status),
	})
}

// handleAnalyzeItem is the generalized analysis alias. The image is optional;
// the scan starts as pending and follows the same pipeline.
func (s *Server) handleAnalyzeItem(w http.ResponseWriter, r *http.Request) {
	imageURL := ""
	if err := r.ParseMultipartForm(maxMultipartMemory); err == nil {
		if file, header, err := r.FormFile("image"); err == nil {
			defer file.Close()
			url, err := s.uploads.Save(file, header)
			if err != nil {
				writeError(w, r, apperrors.NewInvalidUploadError(err.Error()))
				return
			}
			imageURL = url
		}
	}

	scan, err := s.scanService.StartScan(r.Context(), userIDFrom(r), imageURL, types.ScanStatusPending)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"analysisId": scan.ID,
		"status":     string(scan.Status),
		"message":    "Item analysis started",
	})
}

// handleListScans returns the caller's scans, newest first
func (s *Server) handleListScans(w http.ResponseWriter, r *http.Request) {
	scans := s.scanService.ListScans(r.Context(), userIDFrom(r))
	respondJSON(w, http.StatusOK, scans)
}

// handleGetScan returns one scan by id
func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	scanID := mux.Vars(r)["id"]

	scan, err := s.scanService.GetScan(r.Context(), scanID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, scan)
}
