package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/crucial707/stockroom/cmd/cli/config"
	"github.com/crucial707/stockroom/cmd/cli/root"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := root.New()
	Register(cmd)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLogin_SavesToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/signin" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "alice@example.com" || body["password"] != "pw" {
			t.Errorf("unexpected body: %v", body)
		}
		_, _ = w.Write([]byte(`{"token":"abc","user":{"id":1,"username":"alice","role":"admin"}}`))
	}))
	defer srv.Close()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("STOCKROOM_API_URL", srv.URL)

	out, err := run(t, "pw\n", "login", "--email", "alice@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Logged in as alice (admin)") {
		t.Fatalf("unexpected output: %s", out)
	}
	token, err := config.LoadToken()
	if err != nil || token != "abc" {
		t.Fatalf("LoadToken: got %q, %v", token, err)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid credentials"}`))
	}))
	defer srv.Close()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("STOCKROOM_API_URL", srv.URL)

	_, err := run(t, "", "login", "--email", "a@b.c", "--password", "nope")
	if err == nil || !strings.Contains(err.Error(), "invalid credentials") {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := config.LoadToken(); !errors.Is(err, config.ErrNotLoggedIn) {
		t.Fatalf("token should not be saved, got %v", err)
	}
}

func TestLogout_RemovesToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"Logged out successfully"}`))
	}))
	defer srv.Close()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("STOCKROOM_API_URL", srv.URL)
	if err := config.SaveToken("abc"); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "", "logout")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Logged out.") {
		t.Fatalf("unexpected output: %s", out)
	}

	out, _ = run(t, "", "logout")
	if !strings.Contains(out, "No user logged in.") {
		t.Fatalf("second logout: %s", out)
	}
}
