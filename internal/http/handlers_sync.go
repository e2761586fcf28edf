package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"financas/internal/core"
)

func (s *Server) handleSyncSetup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token      string `json:"token"`
		DeviceName string `json:"deviceName"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Token == "" {
		writeError(w, http.StatusUnprocessableEntity, "token is required")
		return
	}

	status, err := s.syncEngine.Setup(r.Context(), req.Token, req.DeviceName)
	if err != nil {
		s.respondSyncError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if err := s.syncEngine.Sync(r.Context()); err != nil {
		s.respondSyncError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.syncEngine.Status(r.Context()))
}

func (s *Server) handleSyncPush(w http.ResponseWriter, r *http.Request) {
	if err := s.syncEngine.Push(r.Context()); err != nil {
		s.respondSyncError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.syncEngine.Status(r.Context()))
}

func (s *Server) handleSyncPull(w http.ResponseWriter, r *http.Request) {
	if err := s.syncEngine.Pull(r.Context()); err != nil {
		s.respondSyncError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.syncEngine.Status(r.Context()))
}

func (s *Server) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.syncEngine.Status(r.Context()))
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := s.syncEngine.Disconnect(r.Context()); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.syncEngine.Devices(r.Context())
	if err != nil {
		s.respondSyncError(w, r, err)
		return
	}
	if devices == nil {
		devices = []core.Device{}
	}
	writeJSON(w, http.StatusOK, devices)
}

func (s *Server) handleRemoveDevice(w http.ResponseWriter, r *http.Request) {
	if err := s.syncEngine.RemoveDevice(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondSyncError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleBlockDevice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Blocked bool `json:"blocked"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.syncEngine.SetDeviceBlocked(r.Context(), chi.URLParam(r, "id"), req.Blocked); err != nil {
		s.respondSyncError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
