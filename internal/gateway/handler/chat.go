package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"stride/internal/engine"
	"stride/internal/schema"
)

type chatRequest struct {
	Message string `json:"message"`
}

type setNameRequest struct {
	Name string `json:"name"`
}

type updateProfileRequest struct {
	FieldName string          `json:"field_name"`
	Value     json.RawMessage `json:"value"`
}

func (s *Service) handleChatStart(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.authed(w, r)
	if !ok {
		return
	}
	start, err := s.engine.StartSession(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, start)
}

func (s *Service) handleChat(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.authed(w, r)
	if !ok {
		return
	}
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid request body"})
		return
	}
	res, err := s.engine.SubmitTurn(r.Context(), uid, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Service) handleSetName(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.authed(w, r)
	if !ok {
		return
	}
	var req setNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid request body"})
		return
	}
	res, err := s.engine.SetName(r.Context(), uid, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Service) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.authed(w, r)
	if !ok {
		return
	}
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid request body"})
		return
	}
	value, err := decodeValue(req.Value)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
		return
	}
	res, err := s.engine.SetField(r.Context(), uid, engine.FieldUpdate{
		FieldName: req.FieldName,
		Value:     value,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Service) handleProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.authed(w, r)
	if !ok {
		return
	}
	p, err := s.engine.Profile(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Service) handleProfileStatus(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.authed(w, r)
	if !ok {
		return
	}
	st, err := s.engine.Status(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// decodeValue maps a raw JSON value onto the schema value union. The field's
// own kind check rejects mismatches, so this only needs to sort JSON types.
func decodeValue(raw json.RawMessage) (schema.Value, error) {
	if len(raw) == 0 {
		return schema.Value{}, fmt.Errorf("value is required")
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return schema.IntValue(n), nil
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return schema.StringValue(str), nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return schema.ListValue(list), nil
	}
	return schema.Value{}, fmt.Errorf("value must be a string, integer or list of strings")
}
