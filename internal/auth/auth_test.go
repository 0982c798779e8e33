package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
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

func meWire() map[string]any {
	return map[string]any{
		"id":    "user-1",
		"email": "dev@example.com",
	}
}

func TestLoginSendsFormGrantAndLoadsUser(t *testing.T) {
	var grant map[string]string
	router := chi.NewRouter()
	router.Post("/auth/jwt/login", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		grant = map[string]string{
			"grant_type": r.PostFormValue("grant_type"),
			"username":   r.PostFormValue("username"),
			"password":   r.PostFormValue("password"),
		}
		w.WriteHeader(http.StatusNoContent)
	})
	router.Get("/users/me", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(meWire())
	})
	server := httptest.NewServer(router)
	defer server.Close()

	session := NewSession()
	gw := NewJWTGateway(testClient(t, server.URL), session, testLogger())
	user, err := gw.Login(context.Background(), "dev@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Email != "dev@example.com" {
		t.Fatalf("user = %+v", user)
	}
	if grant["grant_type"] != "password" || grant["username"] != "dev@example.com" || grant["password"] != "hunter22" {
		t.Fatalf("grant = %v", grant)
	}
	if current, ok := session.Current(); !ok || current.ID != "user-1" {
		t.Fatalf("session = %+v ok=%v", current, ok)
	}
}

func TestLoginBearerTokenIsReused(t *testing.T) {
	var authHeader string
	router := chi.NewRouter()
	router.Post("/auth/jwt/login", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-123",
			"token_type":   "bearer",
		})
	})
	router.Get("/users/me", func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(meWire())
	})
	server := httptest.NewServer(router)
	defer server.Close()

	gw := NewJWTGateway(testClient(t, server.URL), NewSession(), testLogger())
	if _, err := gw.Login(context.Background(), "dev@example.com", "hunter22"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if authHeader != "Bearer tok-123" {
		t.Fatalf("authorization = %q", authHeader)
	}
}

func TestLoginRejectedCredentials(t *testing.T) {
	router := chi.NewRouter()
	router.Post("/auth/jwt/login", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	})
	server := httptest.NewServer(router)
	defer server.Close()

	session := NewSession()
	gw := NewJWTGateway(testClient(t, server.URL), session, testLogger())
	_, err := gw.Login(context.Background(), "dev@example.com", "wrong")
	if !errors.HasCode(err, errors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, ok := session.Current(); ok {
		t.Fatal("session must stay empty after a rejected login")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	router := chi.NewRouter()
	router.Post("/auth/jwt/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	server := httptest.NewServer(router)
	defer server.Close()

	session := NewSession()
	session.Set(AuthUser{ID: "user-1", Email: "dev@example.com"})
	gw := NewJWTGateway(testClient(t, server.URL), session, testLogger())
	if err := gw.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, ok := session.Current(); ok {
		t.Fatal("session must be empty after logout")
	}
}

func TestAuthFailureHookClearsSession(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/users/me", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "expired", http.StatusUnauthorized)
	})
	server := httptest.NewServer(router)
	defer server.Close()

	client := testClient(t, server.URL)
	service, err := NewService(context.Background(), &config.Config{
		Auth: config.AuthConfig{Mode: config.AuthModeJWT},
	}, client, testLogger())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	service.Session.Set(AuthUser{ID: "user-1", Email: "dev@example.com"})

	if _, err := service.JWT.LoadMe(context.Background()); !errors.HasCode(err, errors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, ok := service.Session.Current(); ok {
		t.Fatal("session must be cleared when the API rejects it")
	}
}

func TestUpdatePassword(t *testing.T) {
	gw := NewJWTGateway(testClient(t, "http://127.0.0.1:1"), NewSession(), testLogger())

	err := gw.UpdatePassword(context.Background(), PasswordUpdate{
		CurrentPassword: "old-password",
		NewPassword:     "new-password",
		RepeatPassword:  "different",
	})
	if !errors.HasCode(err, errors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	err = gw.UpdatePassword(context.Background(), PasswordUpdate{
		CurrentPassword: "old-password",
		NewPassword:     "new-password",
		RepeatPassword:  "new-password",
	})
	if !errors.HasCode(err, errors.CodeNotImplemented) {
		t.Fatalf("expected not implemented, got %v", err)
	}
}

func TestPasswordMismatchAttachesToRepeatField(t *testing.T) {
	errs := CollectPasswordUpdate(PasswordUpdate{
		CurrentPassword: "old-password",
		NewPassword:     "new-password",
		RepeatPassword:  "different",
	})
	if len(errs["repeatPassword"]) == 0 {
		t.Fatalf("expected repeatPassword error, got %v", errs)
	}
	if len(errs["newPassword"]) != 0 {
		t.Fatalf("newPassword must stay clean, got %v", errs)
	}
}

func TestUpdateEmailNotImplemented(t *testing.T) {
	gw := NewJWTGateway(testClient(t, "http://127.0.0.1:1"), NewSession(), testLogger())
	err := gw.UpdateEmail(context.Background(), EmailUpdate{Email: "dev@example.com"})
	if !errors.HasCode(err, errors.CodeNotImplemented) {
		t.Fatalf("expected not implemented, got %v", err)
	}
}

func unsignedToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	encode := func(v any) string {
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return base64.RawURLEncoding.EncodeToString(data)
	}
	header := encode(map[string]string{"alg": "none", "typ": "JWT"})
	return strings.Join([]string{header, encode(claims), ""}, ".")
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := unsignedToken(t, map[string]any{"sub": "user-1", "exp": exp.Unix()})

	got, err := TokenExpiry(token)
	if err != nil {
		t.Fatalf("TokenExpiry: %v", err)
	}
	if !got.Equal(exp) {
		t.Fatalf("expiry = %v, want %v", got, exp)
	}

	noExp := unsignedToken(t, map[string]any{"sub": "user-1"})
	if _, err := TokenExpiry(noExp); !errors.HasCode(err, errors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := TokenExpiry("garbage"); !errors.HasCode(err, errors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
