// Package httpapi exposes the tracker pipeline over a small JSON HTTP
// API for the dashboard frontend. Handlers are thin: all pipeline work
// happens in the tracker service.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/cory-johannsen/trainerlog/internal/roster"
	"github.com/cory-johannsen/trainerlog/internal/storage/postgres"
	"github.com/cory-johannsen/trainerlog/internal/tracker"
)

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	Health(ctx context.Context, timeout time.Duration) error
}

// Handler carries the dependencies shared by all API handlers.
type Handler struct {
	svc    *tracker.Service
	health HealthChecker
	logger *zap.Logger
}

// NewHandler creates a Handler.
//
// Precondition: svc, health, and logger must be non-nil.
func NewHandler(svc *tracker.Service, health HealthChecker, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, health: health, logger: logger}
}

// Healthz reports service liveness and database reachability.
// GET /healthz
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.health.Health(r.Context(), 2*time.Second); err != nil {
		h.respondError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Games returns the closed game catalog for the entry form.
// GET /api/games
func (h *Handler) Games(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string][]string{"games": h.svc.Games()})
}

// Pokemon returns the known-creature catalog for the entry form. A
// reference-API failure yields an empty list, not an error.
// GET /api/pokemon
func (h *Handler) Pokemon(w http.ResponseWriter, r *http.Request) {
	names := h.svc.KnownNames(r.Context())
	if names == nil {
		names = []string{}
	}
	h.respondJSON(w, http.StatusOK, map[string][]string{"pokemon": names})
}

// Roster returns the enriched roster with its notice.
// GET /api/roster
func (h *Handler) Roster(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("snapshot failed", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "loading roster failed")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"roster": snap.Roster,
		"notice": snap.Notice,
	})
}

// Stats returns the aggregation output.
// GET /api/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("snapshot failed", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "loading roster failed")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"aggregates": snap.Aggregates,
		"notice":     snap.Notice,
	})
}

// Insights returns the generated insight sentences.
// GET /api/insights
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("snapshot failed", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "loading roster failed")
		return
	}
	insights := snap.Insights
	if insights == nil {
		insights = []string{}
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"insights": insights,
		"notice":   snap.Notice,
	})
}

// saveTeamRequest is the POST /api/teams payload.
type saveTeamRequest struct {
	Game        string              `json:"game"`
	Playthrough int                 `json:"playthrough"`
	Slots       []tracker.SlotInput `json:"slots"`
}

// SaveTeam appends one playthrough's team to the roster.
// POST /api/teams
func (h *Handler) SaveTeam(w http.ResponseWriter, r *http.Request) {
	var req saveTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.svc.SaveTeam(r.Context(), req.Game, req.Playthrough, req.Slots); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// DeleteTeam removes one playthrough's team.
// DELETE /api/teams/{game}/{playthrough}
func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	playthrough, err := strconv.Atoi(chi.URLParam(r, "playthrough"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "playthrough must be an integer")
		return
	}
	key := roster.TeamKey{Game: chi.URLParam(r, "game"), Playthrough: playthrough}
	if err := h.svc.DeleteTeam(r.Context(), key); err != nil {
		if errors.Is(err, postgres.ErrTeamNotFound) {
			h.respondError(w, http.StatusNotFound, "team not found")
			return
		}
		h.logger.Error("deleting team failed", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "deleting team failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteEntry removes a single entry by positional identity.
// DELETE /api/roster/{position}
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	position, err := strconv.Atoi(chi.URLParam(r, "position"))
	if err != nil || position < 0 {
		h.respondError(w, http.StatusBadRequest, "position must be a non-negative integer")
		return
	}
	if err := h.svc.DeleteEntry(r.Context(), position); err != nil {
		if errors.Is(err, postgres.ErrEntryNotFound) {
			h.respondError(w, http.StatusNotFound, "entry not found")
			return
		}
		h.logger.Error("deleting entry failed", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "deleting entry failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear removes the whole roster.
// DELETE /api/roster
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Clear(r.Context()); err != nil {
		h.logger.Error("clearing roster failed", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "clearing roster failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("encoding response failed", zap.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
