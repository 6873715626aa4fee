package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/crucial707/stockroom/internal/auth"
	"github.com/crucial707/stockroom/internal/middleware"
	"github.com/crucial707/stockroom/internal/models"
	"github.com/crucial707/stockroom/internal/repo"
	"github.com/crucial707/stockroom/internal/service"
)

var (
	userCols    = []string{"id", "username", "email", "password_hash", "role", "created_at"}
	itemCols    = []string{"id", "section_id", "name", "available_count", "created_at", "updated_at"}
	sectionCols = []string{"id", "name", "description", "created_at", "count"}
	logCols     = []string{"id", "created_at", "updated_at"}
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newAuthService(db *sql.DB) *service.AuthService {
	return service.NewAuthService(repo.NewUserRepo(db), auth.NewTokenService("test-secret"), nil, bcrypt.MinCost)
}

func requestWithChiURLParams(method, path string, body []byte, params map[string]string) *http.Request {
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func asUser(r *http.Request, username, role string) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), &models.User{ID: 1, Username: username, Role: role}))
}
