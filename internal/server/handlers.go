package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/upwardia/upwardia/internal/api"
	"github.com/upwardia/upwardia/internal/backup"
	"github.com/upwardia/upwardia/internal/cache"
	"github.com/upwardia/upwardia/internal/milestone"
	"github.com/upwardia/upwardia/internal/model"
	"github.com/upwardia/upwardia/internal/optimistic"
)

// --- Auth ---

type authRequest struct {
	Email string `json:"email"`
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email is required"})
		return
	}

	user, err := s.session.Login(r.Context(), req.Email)
	if err != nil {
		s.logger.Error("login failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "login failed"})
		return
	}
	s.cache.Set(cache.KeyUser, user)
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) Signup(w http.ResponseWriter, r *http.Request) {
	// Mock backend: signup and login converge on the seeded profile.
	s.Login(w, r)
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	s.session.Logout()
	w.WriteHeader(http.StatusNoContent)
}

// --- Reads (through the cache) ---

func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	s.serveCached(w, r, cache.KeyUser)
}

func (s *Server) GetMissions(w http.ResponseWriter, r *http.Request) {
	s.serveCached(w, r, cache.KeyMissions)
}

func (s *Server) GetTransactions(w http.ResponseWriter, r *http.Request) {
	s.serveCached(w, r, cache.KeyTransactions)
}

func (s *Server) GetRewards(w http.ResponseWriter, r *http.Request) {
	s.serveCached(w, r, cache.KeyRewards)
}

// GetMilestones serves stored milestones with progress re-derived from the
// current (possibly speculative) profile.
func (s *Server) GetMilestones(w http.ResponseWriter, r *http.Request) {
	stored, err := s.cache.Get(r.Context(), cache.KeyMilestones)
	if err != nil {
		s.logger.Error("load milestones", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load milestones"})
		return
	}
	ms, _ := stored.([]model.Milestone)

	current, err := s.cache.Get(r.Context(), cache.KeyUser)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load user"})
		return
	}
	if user, ok := current.(*model.User); ok {
		ms = milestone.Evaluate(ms, *user)
	}
	writeJSON(w, http.StatusOK, ms)
}

func (s *Server) serveCached(w http.ResponseWriter, r *http.Request, key cache.Key) {
	value, err := s.cache.Get(r.Context(), key)
	if err != nil {
		s.logger.Error("cache get", "key", string(key), "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load " + string(key)})
		return
	}
	writeJSON(w, http.StatusOK, value)
}

// --- Mutations (through the coordinator) ---

func (s *Server) CompleteMission(w http.ResponseWriter, r *http.Request) {
	s.runMutation(w, r, optimistic.CompleteMission(s.client, r.PathValue("id")))
}

func (s *Server) UncompleteMission(w http.ResponseWriter, r *http.Request) {
	s.runMutation(w, r, optimistic.UncompleteMission(s.client, r.PathValue("id")))
}

func (s *Server) RedeemReward(w http.ResponseWriter, r *http.Request) {
	s.runMutation(w, r, optimistic.RedeemReward(s.client, r.PathValue("id")))
}

func (s *Server) runMutation(w http.ResponseWriter, r *http.Request, m optimistic.Mutation) {
	user, err := s.coordinator.Run(r.Context(), m)
	if errors.Is(err, api.ErrInsufficientPoints) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		s.logger.Error("mutation failed", "mutation", m.Name, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "operation failed"})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// --- Backup ---

type backupRequest struct {
	Path       string `json:"path"`
	Passphrase string `json:"passphrase"`
}

func (s *Server) ExportBackup(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBackupRequest(w, r)
	if !ok {
		return
	}
	if err := backup.ExportFile(r.Context(), s.store, req.Path, req.Passphrase); err != nil {
		s.logger.Error("backup export", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "export failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": req.Path})
}

func (s *Server) ImportBackup(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBackupRequest(w, r)
	if !ok {
		return
	}
	if err := backup.ImportFile(r.Context(), s.store, req.Path, req.Passphrase); err != nil {
		s.logger.Error("backup import", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "import failed"})
		return
	}
	// Imported blobs supersede everything cached.
	for _, key := range allKeys {
		s.cache.Invalidate(key)
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeBackupRequest(w http.ResponseWriter, r *http.Request) (backupRequest, bool) {
	var req backupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return req, false
	}
	if req.Path == "" || req.Passphrase == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "path and passphrase are required"})
		return req, false
	}
	return req, true
}

var allKeys = []cache.Key{
	cache.KeyUser,
	cache.KeyMissions,
	cache.KeyTransactions,
	cache.KeyRewards,
	cache.KeyMilestones,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
