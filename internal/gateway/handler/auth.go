package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"stride/internal/gateway/entity"
	"stride/internal/gateway/repository/user"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.users == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"detail": "auth is not configured"})
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid request body"})
		return
	}
	token, uid, err := s.users.Login(strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "invalid email or password"})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, UserID: string(uid)})
}

// currentUserID resolves the caller from the Authorization header. When no
// users store is configured every request runs as the demo user, matching the
// single-user local setup.
func (s *Service) currentUserID(r *http.Request) (entity.UserID, error) {
	if s.users == nil {
		return entity.DemoUserID, nil
	}
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	token, ok := strings.CutPrefix(raw, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", user.ErrUnknownToken
	}
	return s.users.ByToken(strings.TrimSpace(token))
}

// authed looks up the caller and writes a 401 on failure. The bool reports
// whether the handler should continue.
func (s *Service) authed(w http.ResponseWriter, r *http.Request) (entity.UserID, bool) {
	uid, err := s.currentUserID(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "not authenticated"})
		return "", false
	}
	return uid, true
}
