package apikey

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/subtrackhq/subtrack-go/pkg/apiclient"
	"github.com/subtrackhq/subtrack-go/pkg/config"
	"github.com/subtrackhq/subtrack-go/pkg/errors"
	"github.com/subtrackhq/subtrack-go/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{
		ServiceName: "test",
		Level:       zerolog.Disabled,
		Output:      io.Discard,
	})
}

func testClient(t *testing.T, baseURL string) *apiclient.Client {
	t.Helper()
	client, err := apiclient.New(config.APIConfig{BaseURL: baseURL}, testLogger())
	if err != nil {
		t.Fatalf("apiclient.New: %v", err)
	}
	return client
}

func keyWire(id string) map[string]any {
	return map[string]any{
		"id":         id,
		"title":      "CI deploys",
		"created_at": "2026-01-02T03:04:05Z",
		"updated_at": "2026-01-02T03:04:05Z",
	}
}

func TestGatewayCreateReturnsSecretOnce(t *testing.T) {
	id := "3d9c1a30-7e2f-4b6a-9d1e-5a6b7c8d9e0f"
	router := chi.NewRouter()
	router.Post("/apikey", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]any{keyWire(id), "sk_live_abc123"})
	})
	server := httptest.NewServer(router)
	defer server.Close()

	gw := NewGateway(testClient(t, server.URL), testLogger())
	key, secret, err := gw.Create(context.Background(), Create{Title: "CI deploys"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if key.ID != uuid.MustParse(id) || key.Title != "CI deploys" {
		t.Fatalf("key = %+v", key)
	}
	if secret != "sk_live_abc123" {
		t.Fatalf("secret = %q", secret)
	}
}

func TestGatewayCreateRejectsShortTitle(t *testing.T) {
	gw := NewGateway(testClient(t, "http://127.0.0.1:1"), testLogger())
	_, _, err := gw.Create(context.Background(), Create{Title: "x"})
	if !errors.HasCode(err, errors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGatewayCreateRejectsMissingSecret(t *testing.T) {
	id := "3d9c1a30-7e2f-4b6a-9d1e-5a6b7c8d9e0f"
	tests := []struct {
		name string
		body any
	}{
		{"entity only", []any{keyWire(id)}},
		{"empty secret", []any{keyWire(id), ""}},
		{"not a list", keyWire(id)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := chi.NewRouter()
			router.Post("/apikey", func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(tc.body)
			})
			server := httptest.NewServer(router)
			defer server.Close()

			gw := NewGateway(testClient(t, server.URL), testLogger())
			_, _, err := gw.Create(context.Background(), Create{Title: "CI deploys"})
			if !errors.HasCode(err, errors.CodeContract) {
				t.Fatalf("expected contract error, got %v", err)
			}
		})
	}
}

func TestGatewayGetAll(t *testing.T) {
	id := "3d9c1a30-7e2f-4b6a-9d1e-5a6b7c8d9e0f"
	router := chi.NewRouter()
	router.Get("/apikey", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]any{keyWire(id)})
	})
	server := httptest.NewServer(router)
	defer server.Close()

	gw := NewGateway(testClient(t, server.URL), testLogger())
	keys, err := gw.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(keys) != 1 || keys[0].Title != "CI deploys" {
		t.Fatalf("keys = %+v", keys)
	}
}

func TestGatewayDeleteByID(t *testing.T) {
	var gotPath string
	router := chi.NewRouter()
	router.Delete("/apikey/{id}", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})
	server := httptest.NewServer(router)
	defer server.Close()

	id := uuid.MustParse("3d9c1a30-7e2f-4b6a-9d1e-5a6b7c8d9e0f")
	gw := NewGateway(testClient(t, server.URL), testLogger())
	if err := gw.DeleteByID(context.Background(), id); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if gotPath != "/apikey/"+id.String() {
		t.Fatalf("path = %s", gotPath)
	}
}
