package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tajreba/doc-translator/internal/document"
	"github.com/tajreba/doc-translator/internal/jobs"
	"github.com/tajreba/doc-translator/pkg/file"
)

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "upload too large or malformed")
		return
	}
	src, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer src.Close()

	name := file.SafeName(header.Filename)
	if name == "" {
		writeError(w, http.StatusBadRequest, "invalid file name")
		return
	}
	if !document.Supported(name) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported file type, expected one of %v", document.SupportedExtensions))
		return
	}

	if err := os.MkdirAll(s.scanner.Dir(), 0o755); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	dstPath := filepath.Join(s.scanner.Dir(), name)
	dst, err := os.Create(dstPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dstPath)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"file_name": name,
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.scanner.Scan()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.translator.ListModels(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"models": models,
	})
}

type startJobRequest struct {
	FileName       string `json:"file_name"`
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	PromptMode     string `json:"prompt_mode"`
	Think          bool   `json:"think"`
	Concise        bool   `json:"concise"`
	RTL            *bool  `json:"rtl"`
	Alignment      string `json:"alignment"`
	FilterThoughts *bool  `json:"filter_thoughts"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.FileName == "" {
		writeError(w, http.StatusBadRequest, "file_name is required")
		return
	}
	path, ok := s.scanner.Resolve(req.FileName)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("document %q not found", req.FileName))
		return
	}

	rtl := s.defaultRTL
	if req.RTL != nil {
		rtl = *req.RTL
	}
	filterThoughts := s.defaultFilterThought
	if req.FilterThoughts != nil {
		filterThoughts = *req.FilterThoughts
	}

	// The job must outlive this request, so it does not inherit r.Context().
	cfg, err := s.controller.Start(context.Background(), jobs.StartRequest{
		FilePath:       path,
		Model:          req.Model,
		RTL:            rtl,
		Alignment:      req.Alignment,
		PromptTemplate: req.Prompt,
		PromptMode:     req.PromptMode,
		Think:          req.Think,
		Concise:        req.Concise,
		FilterThoughts: filterThoughts,
	})
	if err != nil {
		if errors.Is(err, jobs.ErrJobActive) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, cfg)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	paused := s.controller.TogglePause()
	writeJSON(w, http.StatusOK, map[string]any{
		"paused": paused,
	})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	stopped := s.controller.Stop()
	writeJSON(w, http.StatusOK, map[string]any{
		"stopping": stopped,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.Status())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	path, err := s.controller.Export()
	if err != nil {
		if errors.Is(err, jobs.ErrNothingToExport) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	http.ServeFile(w, r, path)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotImplemented, "history store is not configured")
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	records, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}
