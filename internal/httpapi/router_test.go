package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/cmontoya/eduassist/internal/config"
	"github.com/cmontoya/eduassist/internal/model"
	"github.com/cmontoya/eduassist/internal/store"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&store.Record{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	cfg := config.Config{JWTSecret: "test-secret"}
	return NewRouter(cfg, store.New(db))
}

func do(t *testing.T, r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v\n%s", err, w.Body.String())
	}
	return env
}

func login(t *testing.T, r *gin.Engine) (model.User, string) {
	t.Helper()
	w := do(t, r, http.MethodPost, "/login", "",
		`{"name":"Ana","role":"student","grade":"8º"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login status %d: %s", w.Code, w.Body.String())
	}
	var data struct {
		User    model.User `json:"user"`
		Token   string     `json:"token"`
		Welcome string     `json:"welcome"`
	}
	env := decode(t, w)
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode login data: %v", err)
	}
	if data.Token == "" || data.Welcome == "" {
		t.Fatalf("login response missing token or welcome: %s", env.Data)
	}
	return data.User, data.Token
}

func TestPing(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodGet, "/ping", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
}

func TestLoginValidationFailure(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodPost, "/login", "", `{"name":"A","role":"student"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	env := decode(t, w)
	if env.Code != 10002 {
		t.Fatalf("expected code 10002, got %d", env.Code)
	}
	var v struct {
		IsValid bool     `json:"isValid"`
		Errors  []string `json:"errors"`
	}
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode validation: %v", err)
	}
	if v.IsValid || len(v.Errors) != 2 {
		t.Fatalf("expected two validation errors, got %+v", v)
	}
}

func TestAuthRequired(t *testing.T) {
	r := newTestRouter(t)
	if w := do(t, r, http.MethodGet, "/me", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
	if w := do(t, r, http.MethodGet, "/me", "garbage-token", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", w.Code)
	}
}

func TestConversationFlow(t *testing.T) {
	r := newTestRouter(t)
	_, token := login(t, r)

	w := do(t, r, http.MethodPost, "/conversations", token, `{"subject":"matematicas"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("create status %d: %s", w.Code, w.Body.String())
	}
	var conv model.Conversation
	if err := json.Unmarshal(decode(t, w).Data, &conv); err != nil {
		t.Fatalf("decode conversation: %v", err)
	}
	if len(conv.Messages) != 1 || !strings.Contains(conv.Messages[0].Content, "Ana") {
		t.Fatalf("unexpected welcome: %+v", conv.Messages)
	}

	w = do(t, r, http.MethodPost, "/conversations/"+conv.ID+"/messages", token,
		`{"message":"¿Cómo resuelvo ecuaciones cuadráticas?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("send status %d: %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(decode(t, w).Data, &conv); err != nil {
		t.Fatalf("decode conversation: %v", err)
	}
	if len(conv.Messages) != 3 || !strings.Contains(conv.Messages[2].Content, "discriminante") {
		t.Fatalf("unexpected reply: %+v", conv.Messages)
	}

	w = do(t, r, http.MethodGet, "/stats/usage", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("stats status %d", w.Code)
	}
	var stats model.UsageStats
	if err := json.Unmarshal(decode(t, w).Data, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalQuestions != 1 {
		t.Fatalf("expected one recorded question, got %+v", stats)
	}

	w = do(t, r, http.MethodGet, "/conversations/"+conv.ID+"/export", token, "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Usuario: ¿Cómo resuelvo") {
		t.Fatalf("unexpected export: %d %s", w.Code, w.Body.String())
	}

	if w = do(t, r, http.MethodDelete, "/conversations/"+conv.ID, token, ""); w.Code != http.StatusOK {
		t.Fatalf("delete status %d", w.Code)
	}
	w = do(t, r, http.MethodGet, "/conversations/"+conv.ID, token, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
	if env := decode(t, w); env.Code != 40410 {
		t.Fatalf("expected code 40410, got %d", env.Code)
	}
}

func TestSendToUnknownConversation(t *testing.T) {
	r := newTestRouter(t)
	_, token := login(t, r)
	w := do(t, r, http.MethodPost, "/conversations/missing/messages", token, `{"message":"hola"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	r := newTestRouter(t)
	_, token := login(t, r)

	w := do(t, r, http.MethodGet, "/settings", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get settings status %d", w.Code)
	}
	var set map[string]any
	if err := json.Unmarshal(decode(t, w).Data, &set); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if set["theme"] != "light" {
		t.Fatalf("unexpected defaults: %+v", set)
	}

	if w = do(t, r, http.MethodPut, "/settings", token, `{"theme":"dark"}`); w.Code != http.StatusOK {
		t.Fatalf("put settings status %d: %s", w.Code, w.Body.String())
	}
	w = do(t, r, http.MethodGet, "/settings", token, "")
	if err := json.Unmarshal(decode(t, w).Data, &set); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if set["theme"] != "dark" {
		t.Fatalf("settings not persisted: %+v", set)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	r := newTestRouter(t)
	_, token := login(t, r)

	if w := do(t, r, http.MethodPost, "/logout", token, ""); w.Code != http.StatusOK {
		t.Fatalf("logout status %d", w.Code)
	}
	// Token still verifies but the session is gone.
	if w := do(t, r, http.MethodGet, "/me", token, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", w.Code)
	}
}
