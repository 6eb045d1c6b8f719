package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRouter_GenerateRequiresServiceToken(t *testing.T) {
	handler, _ := newTestHandler()
	hash, err := HashServiceToken("secret-token")
	if err != nil {
		t.Fatalf("HashServiceToken: %v", err)
	}

	router := NewRouter(RouterConfig{
		Agendas:            handler,
		GenerateMiddleware: []func(http.Handler) http.Handler{RequireServiceToken(hash, nil)},
	})

	body, _ := json.Marshal(generateRequest{
		RoleID: "role-1", Weeks: []int{1}, Year: 2024, OptimizationStrategy: "maximize_coverage",
	})

	t.Run("missing token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/agendas/generate", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("valid token accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/agendas/generate", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer secret-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestRouter_GetAndListDoNotRequireToken(t *testing.T) {
	handler, _ := newTestHandler()
	router := NewRouter(RouterConfig{Agendas: handler})

	req := httptest.NewRequest(http.MethodGet, "/agendas?role_id=role-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_UnknownAgendaIDNotFound(t *testing.T) {
	handler, _ := newTestHandler()
	router := NewRouter(RouterConfig{Agendas: handler})

	req := httptest.NewRequest(http.MethodGet, "/agendas/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
