package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/xhad/aibench/internal/models"
)

type dataResponse struct {
	Success bool                        `json:"success"`
	Data    map[string][]models.UseCase `json:"data"`
}

type chunksResponse struct {
	Success bool           `json:"success"`
	Data    []models.Chunk `json:"data"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// handleUseCases returns every stored record grouped by industry.
func (s *Server) handleUseCases(w http.ResponseWriter, r *http.Request) {
	grouped, err := s.reader.GroupByIndustry(r.Context())
	if err != nil {
		slog.Error("failed to load use cases", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if grouped == nil {
		grouped = map[string][]models.UseCase{}
	}
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: grouped})
}

const maxSimilarLimit = 50

// handleSimilar returns the indexed chunks closest to the q parameter.
func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	if s.config.Chunks == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "chunk index is not enabled"})
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing query parameter q"})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxSimilarLimit {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be between 1 and 50"})
			return
		}
		limit = n
	}

	chunks, err := s.config.Chunks.SimilarText(r.Context(), query, limit)
	if err != nil {
		slog.Error("similarity search failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if chunks == nil {
		chunks = []models.Chunk{}
	}
	writeJSON(w, http.StatusOK, chunksResponse{Success: true, Data: chunks})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "err", err)
	}
}
