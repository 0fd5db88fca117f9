package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mdevers/yachtroom/internal/models"
	"github.com/mdevers/yachtroom/internal/session"
)

// IdentityApp defines what the HTTP surface needs from the identity layer.
type IdentityApp interface {
	CreateIdentity(ctx context.Context, handle, displayName string) (*models.Identity, error)
	GetIdentityByHandle(ctx context.Context, handle string) (*models.Identity, error)
}

// Handlers is the synchronous request/response surface layered in front of
// the session coordinator: identity bootstrap, room creation, lookup by
// code, and join. Responses carry the same snapshot shape as the websocket
// pushes.
type Handlers struct {
	coordinator Coordinator
	identities  IdentityApp
	ws          *Service
}

func NewHandlers(coordinator Coordinator, identities IdentityApp, ws *Service) *Handlers {
	return &Handlers{coordinator: coordinator, identities: identities, ws: ws}
}

// Routes registers every gateway route on the router.
func (h *Handlers) Routes(r chi.Router) {
	r.Post("/identities", h.createIdentity)
	r.Get("/identities/{handle}", h.getIdentity)
	r.Post("/rooms", h.createRoom)
	r.Get("/rooms/{code}", h.lookupRoom)
	r.Post("/rooms/join", h.joinRoom)
	r.Get("/ws", h.ws.HandleWS)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (h *Handlers) createIdentity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Handle      string `json:"handle"`
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, session.KindMalformedAction, "invalid request body")
		return
	}

	ident, err := h.identities.CreateIdentity(r.Context(), req.Handle, req.DisplayName)
	if err != nil {
		writeError(w, http.StatusConflict, session.KindInternalFailure, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, ident)
}

func (h *Handlers) getIdentity(w http.ResponseWriter, r *http.Request) {
	ident, err := h.identities.GetIdentityByHandle(r.Context(), chi.URLParam(r, "handle"))
	if err != nil {
		writeError(w, http.StatusNotFound, session.KindIdentityNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ident)
}

func (h *Handlers) createRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IdentityID uuid.UUID `json:"identity_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, session.KindMalformedAction, "invalid request body")
		return
	}

	snap, err := h.coordinator.CreateRoom(r.Context(), req.IdentityID)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (h *Handlers) lookupRoom(w http.ResponseWriter, r *http.Request) {
	snap, err := h.coordinator.LookupRoom(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handlers) joinRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code       string    `json:"code"`
		IdentityID uuid.UUID `json:"identity_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, session.KindMalformedAction, "invalid request body")
		return
	}

	snap, err := h.coordinator.JoinRoom(r.Context(), req.Code, req.IdentityID)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func writeGameError(w http.ResponseWriter, err error) {
	kind := session.KindOf(err)
	status := http.StatusBadRequest
	switch kind {
	case session.KindRoomNotFound, session.KindIdentityNotFound:
		status = http.StatusNotFound
	case session.KindRoomNotJoinable, session.KindRoomFull, session.KindNotHost:
		status = http.StatusForbidden
	case session.KindInternalFailure:
		status = http.StatusInternalServerError
	}
	writeError(w, status, kind, err.Error())
}

func writeError(w http.ResponseWriter, status int, kind session.ErrorKind, detail string) {
	writeJSON(w, status, errorMessage{Type: msgTypeError, Kind: kind, Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}
