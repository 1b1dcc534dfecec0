package auth

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"leadpilot-backend/internal/store"
)

var adminColumns = []string{"id", "username", "password_hash", "created_at"}

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(store.New(sqlx.NewDb(db, "pgx"))), mock
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestRegister(t *testing.T) {
	s, mock := newTestService(t)
	mock.ExpectExec("INSERT INTO admins").
		WithArgs("bob", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	r := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{"username":"bob","password":"hunter2"}`))
	w := httptest.NewRecorder()
	require.NoError(t, HandleRegister(s, w, r))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Admin account created successfully!")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicateUsername(t *testing.T) {
	s, mock := newTestService(t)
	mock.ExpectExec("INSERT INTO admins").
		WithArgs("bob", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	r := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{"username":"bob","password":"hunter2"}`))
	w := httptest.NewRecorder()
	require.NoError(t, HandleRegister(s, w, r))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Username already taken")
}

func TestRegisterMissingFields(t *testing.T) {
	s, mock := newTestService(t)

	r := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{"username":"bob"}`))
	w := httptest.NewRecorder()
	require.NoError(t, HandleRegister(s, w, r))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet(), "nothing should reach the store")
}

func TestLogin(t *testing.T) {
	s, mock := newTestService(t)
	mock.ExpectQuery("FROM admins WHERE username=").
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows(adminColumns).AddRow(int64(7), "bob", hashOf(t, "hunter2"), time.Now()))

	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"bob","password":"hunter2"}`))
	w := httptest.NewRecorder()
	j := NewJWT("test-secret")
	require.NoError(t, HandleLogin(s, j, w, r))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token    string `json:"token"`
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "bob", resp.Username)

	claims, err := j.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.AdminID)
}

func TestLoginWrongPassword(t *testing.T) {
	s, mock := newTestService(t)
	mock.ExpectQuery("FROM admins WHERE username=").
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows(adminColumns).AddRow(int64(7), "bob", hashOf(t, "hunter2"), time.Now()))

	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"bob","password":"wrong"}`))
	w := httptest.NewRecorder()
	require.NoError(t, HandleLogin(s, NewJWT("test-secret"), w, r))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Wrong password")
	assert.NotContains(t, w.Body.String(), "token")
}

func TestLoginUnknownUser(t *testing.T) {
	s, mock := newTestService(t)
	mock.ExpectQuery("FROM admins WHERE username=").
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"nobody","password":"x"}`))
	w := httptest.NewRecorder()
	require.NoError(t, HandleLogin(s, NewJWT("test-secret"), w, r))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "User not found")
}
