package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"stride/internal/composer"
	"stride/internal/engine"
	"stride/internal/gateway/repository/artifactstate"
	"stride/internal/gateway/repository/history"
	"stride/internal/gateway/repository/profile"
	"stride/internal/llm"
	"stride/internal/workflow"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	dir := t.TempDir()
	profiles := profile.NewFileStore(filepath.Join(dir, "profiles.json"))
	hist := history.NewFileStore(filepath.Join(dir, "histories"))
	states := artifactstate.NewFileStore(filepath.Join(dir, "states.json"))
	comp := composer.New(llm.NewFakeClient("Keep your easy days easy."), nil, composer.DefaultPersona())

	eng := engine.New(profiles, hist, comp, nil)
	flow := workflow.New(workflow.DefaultSchema(), states, hist, comp)
	// No users store: every request runs as the demo user.
	return BuildMux(NewService(eng, flow, nil))
}

func do(t *testing.T, mux *http.ServeMux, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var payload map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("%s %s: invalid JSON body %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec, payload
}

func TestChatStartGreetsFreshUser(t *testing.T) {
	mux := newTestMux(t)

	rec, payload := do(t, mux, http.MethodGet, "/chat/start", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	msg, _ := payload["message"].(string)
	if !strings.Contains(msg, "What's your name?") {
		t.Fatalf("message = %q, want name prompt", msg)
	}
	if payload["next_field"] != "name" {
		t.Fatalf("next_field = %v, want name", payload["next_field"])
	}
}

func TestChatEmptyMessageIsBadRequest(t *testing.T) {
	mux := newTestMux(t)

	rec, payload := do(t, mux, http.MethodPost, "/chat", `{"message": "   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if _, ok := payload["detail"]; !ok {
		t.Fatalf("error body missing detail: %v", payload)
	}
}

func TestChatFirstTurnSetsName(t *testing.T) {
	mux := newTestMux(t)

	rec, payload := do(t, mux, http.MethodPost, "/chat", `{"message": "Alex"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp, _ := payload["response"].(string)
	if !strings.Contains(resp, "Nice to meet you, Alex!") {
		t.Fatalf("response = %q", resp)
	}

	rec, payload = do(t, mux, http.MethodGet, "/profile", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("profile status = %d, want 200", rec.Code)
	}
	if payload["name"] != "Alex" {
		t.Fatalf("profile name = %v, want Alex", payload["name"])
	}
}

func TestSetNameValidation(t *testing.T) {
	mux := newTestMux(t)

	rec, _ := do(t, mux, http.MethodPost, "/chat/set_name", `{"name": "  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	rec, payload := do(t, mux, http.MethodPost, "/chat/set_name", `{"name": "Alex"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if payload["next_field"] != "age" {
		t.Fatalf("next_field = %v, want age", payload["next_field"])
	}
}

func TestUpdateProfileFieldTypes(t *testing.T) {
	mux := newTestMux(t)

	rec, _ := do(t, mux, http.MethodPost, "/chat/update_profile", `{"field_name": "age", "value": 30}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("int field status = %d, want 200", rec.Code)
	}

	rec, _ = do(t, mux, http.MethodPost, "/chat/update_profile", `{"field_name": "age", "value": "thirty"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("kind mismatch status = %d, want 400", rec.Code)
	}

	rec, _ = do(t, mux, http.MethodPost, "/chat/update_profile", `{"field_name": "injury_history", "value": ["shin splints"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("list field status = %d, want 200", rec.Code)
	}

	rec, _ = do(t, mux, http.MethodPost, "/chat/update_profile", `{"field_name": "shoe_size", "value": 42}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown field status = %d, want 404", rec.Code)
	}
}

func TestProfileStatusReportsNextField(t *testing.T) {
	mux := newTestMux(t)

	if rec, _ := do(t, mux, http.MethodPost, "/chat/set_name", `{"name": "Alex"}`); rec.Code != http.StatusOK {
		t.Fatalf("set name status = %d", rec.Code)
	}

	rec, payload := do(t, mux, http.MethodGet, "/debug/profile_status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if payload["is_complete"] != false {
		t.Fatalf("is_complete = %v, want false", payload["is_complete"])
	}
	if payload["next_empty_field"] != "age" {
		t.Fatalf("next_empty_field = %v, want age", payload["next_empty_field"])
	}
}

func TestArtifactStepFlow(t *testing.T) {
	mux := newTestMux(t)

	rec, payload := do(t, mux, http.MethodGet, "/artifact/state", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("state status = %d, want 200", rec.Code)
	}
	if payload["current_step"] != "Define Business Problem" {
		t.Fatalf("current_step = %v", payload["current_step"])
	}

	rec, _ = do(t, mux, http.MethodPost, "/artifact/step/Define%20Business%20Problem", `{"response": "slow onboarding"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("propose status = %d, want 200", rec.Code)
	}

	rec, payload = do(t, mux, http.MethodPost, "/artifact/step/Define%20Business%20Problem", `{"response": "yes that works"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm status = %d, want 200", rec.Code)
	}
	if payload["next_step"] != "Set Project Direction" {
		t.Fatalf("next_step = %v, want Set Project Direction", payload["next_step"])
	}
}

func TestArtifactStepErrors(t *testing.T) {
	mux := newTestMux(t)

	rec, _ := do(t, mux, http.MethodPost, "/artifact/step/Pick%20Team%20Mascot", `{"response": "a goose"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown step status = %d, want 404", rec.Code)
	}

	rec, _ = do(t, mux, http.MethodPost, "/artifact/step/Define%20Business%20Problem", `{"response": "  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty response status = %d, want 400", rec.Code)
	}
}

func TestLoginWithoutUsersStore(t *testing.T) {
	mux := newTestMux(t)

	rec, _ := do(t, mux, http.MethodPost, "/auth/login", `{"email": "demo@stride.local", "password": "demo"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
