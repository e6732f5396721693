package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Matuku45/shuttle-booking-system/internal/config"
)

func setupRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	prev := config.DB
	config.DB = db
	t.Cleanup(func() {
		config.DB = prev
		db.Close()
	})

	return NewRouter(config.Env{}), mock
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func signToken(t *testing.T, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(config.JWTSecret())
	require.NoError(t, err)
	return signed
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/health", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
}

func TestUnknownRouteEnvelope(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/nope", nil, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Not Found", body["message"])
}

func TestDBCheckRoleGate(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/db-check", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/db-check", nil, map[string]string{
		"Authorization": "Bearer " + signToken(t, "user"),
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/db-check", nil, map[string]string{
		"Authorization": "Bearer " + signToken(t, "admin"),
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestShuttleUpdateIgnoresZeroPrice(t *testing.T) {
	r, mock := setupRouter(t)

	route := "Sandton Express"
	mock.ExpectExec("UPDATE shuttles SET route").
		WithArgs(route, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM shuttles").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "route", "date", "time", "duration", "pickup",
			"seats", "capacity", "price", "updated_at",
		}).AddRow(1, route, "2025-10-01", "08:00", "12 hours", "Sandton", 50, 50, 1500.0, time.Now()))

	w := doJSON(t, r, http.MethodPut, "/api/shuttles/1", gin.H{
		"route": route,
		"price": 0,
	}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	shuttle := body["shuttle"].(map[string]any)
	assert.Equal(t, 1500.0, shuttle["price"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingInsufficientSeatsEnvelope(t *testing.T) {
	r, mock := setupRouter(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE shuttles").
		WithArgs(5, int64(3), 5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT seats FROM shuttles").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"seats"}).AddRow(2))
	mock.ExpectRollback()

	w := doJSON(t, r, http.MethodPost, "/api/bookings/create", gin.H{
		"passenger_name": "Thabo M",
		"shuttle_id":     3,
		"seats":          5,
	}, nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "insufficient seats")
	assert.NotEmpty(t, body["request_id"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginWrongPassword(t *testing.T) {
	r, mock := setupRouter(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	require.NoError(t, err)
	mock.ExpectQuery("FROM users").
		WithArgs("thabo@example.com").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "password_hash", "role", "created_at",
		}).AddRow(1, "Thabo M", "thabo@example.com", string(hash), "user", time.Now()))

	w := doJSON(t, r, http.MethodPost, "/users/login", gin.H{
		"username": "thabo@example.com",
		"password": "wrong",
		"role":     "user",
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Invalid password", body["message"])
}

func TestLoginSuccessReturnsToken(t *testing.T) {
	r, mock := setupRouter(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	require.NoError(t, err)
	mock.ExpectQuery("FROM users").
		WithArgs("thabo@example.com").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "password_hash", "role", "created_at",
		}).AddRow(1, "Thabo M", "thabo@example.com", string(hash), "user", time.Now()))

	w := doJSON(t, r, http.MethodPost, "/users/login", gin.H{
		"email":    "thabo@example.com",
		"password": "correct",
		"role":     "user",
	}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.NotContains(t, user, "password_hash")
}
