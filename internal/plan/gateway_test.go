package plan

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
	"github.com/shopspring/decimal"

	"github.com/subtrackhq/subtrack-go/pkg/apiclient"
	"github.com/subtrackhq/subtrack-go/pkg/config"
	"github.com/subtrackhq/subtrack-go/pkg/errors"
	"github.com/subtrackhq/subtrack-go/pkg/logger"
)

func mustID(t *testing.T, raw string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(raw)
	if err != nil {
		t.Fatalf("parse uuid %q: %v", raw, err)
	}
	return id
}

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

func planWire(id string) map[string]any {
	return map[string]any{
		"id":            id,
		"title":         "Growth plan",
		"price":         49,
		"currency":      "EUR",
		"billing_cycle": "annual",
		"level":         3,
		"features":      "everything",
		"usage_rates": []map[string]any{{
			"title":           "Seats",
			"code":            "seats",
			"unit":            "seat",
			"available_units": 5,
			"renew_cycle":     "monthly",
		}},
		"discounts":  []map[string]any{},
		"fields":     map[string]any{"tier": "growth"},
		"created_at": "2026-01-02T03:04:05Z",
		"updated_at": "2026-01-02T03:04:05Z",
	}
}

func TestGatewayCreateRefetchesByID(t *testing.T) {
	id := "5cb724b8-8f3a-4a3e-9e3c-0c8a523fa3a2"
	var createdBody map[string]any

	router := chi.NewRouter()
	router.Post("/plan", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&createdBody); err != nil {
			t.Errorf("decode create body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(id)
	})
	router.Get("/plan/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") != id {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(planWire(id))
	})
	server := httptest.NewServer(router)
	defer server.Close()

	gw := NewGateway(testClient(t, server.URL), testLogger())
	created, err := gw.Create(context.Background(), Create{
		Title:        "Growth plan",
		Price:        decimal.NewFromInt(49),
		Currency:     "EUR",
		BillingCycle: "annual",
		Level:        3,
		Features:     "everything",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != mustID(t, id) {
		t.Fatalf("created id = %s", created.ID)
	}
	if created.BillingCycle != "annual" {
		t.Fatalf("billing cycle = %s", created.BillingCycle)
	}
	if _, ok := createdBody["billing_cycle"]; !ok {
		t.Fatalf("create body should use snake_case keys, got %v", createdBody)
	}
}

func TestGatewayCreateRejectsInvalidProjection(t *testing.T) {
	gw := NewGateway(testClient(t, "http://127.0.0.1:1"), testLogger())
	_, err := gw.Create(context.Background(), Create{Title: "abc"})
	if !errors.HasCode(err, errors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGatewayGetSelectedDecodesWireList(t *testing.T) {
	id := "5cb724b8-8f3a-4a3e-9e3c-0c8a523fa3a2"
	var gotQuery string

	router := chi.NewRouter()
	router.Get("/plan", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode([]map[string]any{planWire(id)})
	})
	server := httptest.NewServer(router)
	defer server.Close()

	gw := NewGateway(testClient(t, server.URL), testLogger())
	plans, err := gw.GetSelected(context.Background(), Sby{Skip: 10, Limit: 5})
	if err != nil {
		t.Fatalf("GetSelected: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("got %d plans", len(plans))
	}
	if plans[0].UsageRates[0].RenewCycle != "monthly" {
		t.Fatalf("renew cycle = %s", plans[0].UsageRates[0].RenewCycle)
	}
	if gotQuery != "limit=5&skip=10" {
		t.Fatalf("query = %s", gotQuery)
	}
}

func TestGatewayDeleteSelectedRepeatsIDs(t *testing.T) {
	first := "11111111-1111-4111-8111-111111111111"
	second := "22222222-2222-4222-8222-222222222222"
	var gotQuery string

	router := chi.NewRouter()
	router.Delete("/plan", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	})
	server := httptest.NewServer(router)
	defer server.Close()

	gw := NewGateway(testClient(t, server.URL), testLogger())
	err := gw.DeleteSelected(context.Background(), []uuid.UUID{
		mustID(t, first),
		mustID(t, second),
	})
	if err != nil {
		t.Fatalf("DeleteSelected: %v", err)
	}
	want := "ids=" + first + "&ids=" + second
	if gotQuery != want {
		t.Fatalf("query = %s, want %s", gotQuery, want)
	}
}

func TestGatewayGetByIDMapsNotFound(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/plan/{id}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	server := httptest.NewServer(router)
	defer server.Close()

	gw := NewGateway(testClient(t, server.URL), testLogger())
	_, err := gw.GetByID(context.Background(), uuid.New())
	if !errors.HasCode(err, errors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFakeGatewayLifecycle(t *testing.T) {
	ctx := context.Background()
	fake := NewFakeGateway()

	created, err := fake.Create(ctx, Create{
		Title:        "Starter plan",
		Price:        decimal.NewFromInt(10),
		Currency:     "USD",
		BillingCycle: "monthly",
		Level:        1,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	update := CU(*created)
	update.Title = "Starter plan v2"
	updated, err := fake.Update(ctx, update)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Starter plan v2" {
		t.Fatalf("title = %s", updated.Title)
	}

	if err := fake.DeleteByID(ctx, created.ID); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if _, err := fake.GetByID(ctx, created.ID); !errors.HasCode(err, errors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
