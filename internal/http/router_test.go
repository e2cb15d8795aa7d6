package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	intconfig "opsboard/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func testRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		intconfig.DB = nil
	})
	intconfig.DB = db

	r := NewRouter(intconfig.Env{JWTSecret: "test-secret"})
	return r, mock
}

func bearerToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": int64(1),
		"role":    "admin",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + signed
}

func TestHealthRoute(t *testing.T) {
	r, _ := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	r, _ := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestKPIsEndpoint(t *testing.T) {
	r, mock := testRouter(t)

	date := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM deliveries WHERE").
		WithArgs("Lagos").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "delivery_id", "vehicle_id", "date", "city",
			"planned_minutes", "actual_minutes", "on_time", "distance_km", "fuel_cost", "other_cost",
		}).AddRow(1, "DL-001", "V1", date, "Lagos", 60.0, 75.0, false, 10.0, 30.0, 10.0))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/kpis?city=Lagos", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		KPIs []struct {
			Name  string  `json:"name"`
			Value float64 `json:"value"`
		} `json:"kpis"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if len(resp.KPIs) != 5 {
		t.Fatalf("got %d KPIs, want 5", len(resp.KPIs))
	}
	if resp.KPIs[0].Name != "Average Delay" || resp.KPIs[0].Value != 15 {
		t.Fatalf("first KPI = %+v", resp.KPIs[0])
	}
}

func TestKPIsEndpointRejectsBadMonth(t *testing.T) {
	r, _ := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/kpis?month=bogus", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestFiltersEndpoint(t *testing.T) {
	r, mock := testRouter(t)

	mock.ExpectQuery("SELECT DISTINCT city").
		WillReturnRows(sqlmock.NewRows([]string{"city"}).AddRow("Abuja").AddRow("Lagos"))
	mock.ExpectQuery("SELECT DISTINCT DATE_FORMAT").
		WillReturnRows(sqlmock.NewRows([]string{"month"}).AddRow("2025-01"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/filters", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Cities []string `json:"cities"`
		Months []struct {
			Key   string `json:"key"`
			Label string `json:"label"`
		} `json:"months"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if len(resp.Cities) != 2 || len(resp.Months) != 1 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Months[0].Label != "Jan 2025" {
		t.Fatalf("month label = %q", resp.Months[0].Label)
	}
}

func TestGetDeliveryNotFound(t *testing.T) {
	r, mock := testRouter(t)

	mock.ExpectQuery("FROM deliveries WHERE id").
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/deliveries/42", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestMutationsRequireAuth(t *testing.T) {
	r, _ := testRouter(t)

	body := bytes.NewBufferString(`{}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/deliveries", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestCreateVehicleWithToken(t *testing.T) {
	r, mock := testRouter(t)

	mock.ExpectExec("INSERT INTO vehicles").
		WillReturnResult(sqlmock.NewResult(7, 1))

	payload := map[string]any{
		"vehicle_id": "V9",
		"home_city":  "PHC",
	}
	raw, _ := json.Marshal(payload)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/vehicles", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	r, _ := testRouter(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": int64(1),
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/vehicles/1", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
