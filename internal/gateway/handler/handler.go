package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"stride/internal/engine"
	"stride/internal/gateway/repository/user"
	"stride/internal/schema"
	"stride/internal/workflow"
)

// Service wires the HTTP surface to the completion engine and the step
// workflow machine.
type Service struct {
	engine *engine.Engine
	flow   *workflow.Machine
	users  *user.Store
}

func NewService(eng *engine.Engine, flow *workflow.Machine, users *user.Store) *Service {
	return &Service{
		engine: eng,
		flow:   flow,
		users:  users,
	}
}

// BuildMux registers all HTTP handlers on a new ServeMux.
func BuildMux(s *Service) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", s.handleLogin)

	mux.HandleFunc("GET /chat/start", s.handleChatStart)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /chat/set_name", s.handleSetName)
	mux.HandleFunc("POST /chat/update_profile", s.handleUpdateProfile)
	mux.HandleFunc("GET /chat/ws", s.handleChatWS)

	mux.HandleFunc("GET /profile", s.handleProfile)
	mux.HandleFunc("GET /debug/profile_status", s.handleProfileStatus)

	mux.HandleFunc("POST /artifact/step/{name}", s.handleSubmitStep)
	mux.HandleFunc("GET /artifact/state", s.handleArtifactState)

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto HTTP statuses: validation → 400,
// unknown field/step → 404, everything else → 500.
func writeError(w http.ResponseWriter, err error) {
	var (
		validation *engine.ValidationError
		badValue   *schema.ErrBadValue
		emptyResp  *workflow.EmptyResponseError
		unknown    *schema.ErrUnknownField
		noStep     *workflow.StepNotFoundError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &badValue), errors.As(err, &emptyResp):
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
	case errors.As(err, &unknown), errors.As(err, &noStep):
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal server error"})
	}
}
