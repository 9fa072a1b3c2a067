package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/hairmatch/internal/keyword"
	"github.com/hyperjump/hairmatch/internal/models"
	"github.com/hyperjump/hairmatch/internal/questionnaire"
	"github.com/hyperjump/hairmatch/internal/session"
)

const (
	maxBodyBytes       = 1 << 20
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"message": "Smart Hair Diagnosis API",
		"version": s.version,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"strategy": s.engine.Strategy(),
		"products": s.engine.Catalog().Len(),
	})
}

func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	strategy := r.URL.Query().Get("strategy")
	if strategy == "" {
		strategy = s.engine.Strategy()
	}
	s.respondJSON(w, http.StatusOK, questionnaire.ForStrategy(strategy))
}

func (s *Server) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	var req models.DiagnosisRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateRequest(&req); msg != "" {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	answers := models.ParseAnswers(req.Answers)
	s.logger.Debug("diagnose request", zap.String("session_id", req.SessionID), zap.Int("top_n", req.TopN))
	res := s.engine.Recommend(r.Context(), answers, req.TopN)

	resp := models.DiagnosisResponse{
		SessionID:       req.SessionID,
		Strategy:        res.Strategy,
		Recommendations: res.Recommendations(),
		Timestamp:       time.Now().UTC(),
	}
	if s.sessions != nil {
		sess := &session.Session{
			ID:              req.SessionID,
			Strategy:        res.Strategy,
			Answers:         answers,
			Recommendations: resp.Recommendations,
		}
		if err := s.sessions.Save(r.Context(), sess); err != nil {
			s.logger.Warn("failed to save session", zap.String("session_id", req.SessionID), zap.Error(err))
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	cat := s.engine.Catalog()
	q := r.URL.Query().Get("q")
	if q == "" {
		products := cat.Products()
		s.respondJSON(w, http.StatusOK, map[string]interface{}{"products": products, "count": len(products)})
		return
	}
	if s.search == nil {
		s.respondError(w, http.StatusNotImplemented, "product search not enabled")
		return
	}
	limit := defaultSearchLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxSearchLimit)
	}

	hits, err := s.search.Search(r.Context(), q, limit, s.searchOptions(r))
	if err != nil {
		s.logger.Error("product search failed", zap.String("query", q), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "search failed")
		return
	}
	products := make([]models.Product, 0, len(hits))
	for _, hit := range hits {
		if p, ok := cat.Get(hit.ID); ok {
			products = append(products, p)
		}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"query": q, "products": products, "count": len(products)})
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	p, ok := s.engine.Catalog().Get(id)
	if !ok {
		s.respondError(w, http.StatusNotFound, "product not found")
		return
	}
	s.respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		s.respondError(w, http.StatusNotImplemented, "sessions not enabled")
		return
	}
	id := chi.URLParam(r, "id")
	sess, err := s.sessions.Get(r.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		s.logger.Error("get session failed", zap.String("session_id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to read session")
		return
	}
	s.respondJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		s.respondError(w, http.StatusNotImplemented, "sessions not enabled")
		return
	}
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete session request", zap.String("session_id", id))
	err := s.sessions.Delete(r.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		s.logger.Error("delete session failed", zap.String("session_id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to delete session")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// searchOptions boosts name matches and enables typo tolerance with ?fuzzy=true.
func (s *Server) searchOptions(r *http.Request) *keyword.SearchOptions {
	fuzzy, _ := strconv.ParseBool(r.URL.Query().Get("fuzzy"))
	return &keyword.SearchOptions{NameBoost: 3, FuzzyEnabled: fuzzy}
}
