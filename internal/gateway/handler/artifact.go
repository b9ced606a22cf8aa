package handler

import (
	"encoding/json"
	"net/http"
)

type stepRequest struct {
	Response string `json:"response"`
}

func (s *Service) handleSubmitStep(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.authed(w, r)
	if !ok {
		return
	}
	var req stepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid request body"})
		return
	}
	res, err := s.flow.SubmitStep(r.Context(), uid, r.PathValue("name"), req.Response)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Service) handleArtifactState(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.authed(w, r)
	if !ok {
		return
	}
	st, err := s.flow.View(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
