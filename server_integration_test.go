package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	setupTestDB(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	setupRoutes(r)
	return r
}

func performRequest(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func login(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	w := performRequest(r, http.MethodPost, "/login", "", gin.H{"username": username, "password": password})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: %d %s", username, w.Code, w.Body.String())
	}
	token, _ := decode(t, w)["token"].(string)
	if token == "" {
		t.Fatalf("login %s: no token in response", username)
	}
	return token
}

func TestServerFullFlow(t *testing.T) {
	r := newTestRouter(t)

	// self-registration lands unapproved
	w := performRequest(r, http.MethodPost, "/register", "", gin.H{"username": "ravi", "password": "secret123"})
	if w.Code != http.StatusOK {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}
	raviToken := login(t, r, "ravi", "secret123")
	w = performRequest(r, http.MethodGet, "/properties", raviToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("unapproved account reached ledger endpoint: %d", w.Code)
	}

	// the seeded admin approves the account
	adminToken := login(t, r, "admin", "admin123")
	w = performRequest(r, http.MethodGet, "/users/pending", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("pending users: %d %s", w.Code, w.Body.String())
	}
	var pending []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &pending); err != nil || len(pending) != 1 {
		t.Fatalf("want one pending user, got %s", w.Body.String())
	}
	uid := int(pending[0]["id"].(float64))
	w = performRequest(r, http.MethodPost, fmt.Sprintf("/users/%d/approve", uid), adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("approve: %d %s", w.Code, w.Body.String())
	}

	// property -> unit -> tenant
	w = performRequest(r, http.MethodPost, "/properties", raviToken, gin.H{"name": "Lakeview", "address": "12 Lake Rd", "total_units": 2})
	if w.Code != http.StatusOK {
		t.Fatalf("create property: %d %s", w.Code, w.Body.String())
	}
	propertyID := decode(t, w)["ID"].(string)

	w = performRequest(r, http.MethodPost, "/properties/"+propertyID+"/units", raviToken, gin.H{"unit_number": "G-1", "monthly_rent": 10000})
	if w.Code != http.StatusOK {
		t.Fatalf("create unit: %d %s", w.Code, w.Body.String())
	}
	unitID := decode(t, w)["ID"].(string)

	w = performRequest(r, http.MethodPost, "/units/"+unitID+"/tenant", raviToken, gin.H{
		"name": "Asha", "advance_balance": 3000, "monthly_water_bill": 500,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create tenant: %d %s", w.Code, w.Body.String())
	}
	tenantID := decode(t, w)["ID"].(string)

	// occupying the same unit twice is rejected
	w = performRequest(r, http.MethodPost, "/units/"+unitID+"/tenant", raviToken, gin.H{"name": "Binu"})
	if w.Code != http.StatusConflict {
		t.Fatalf("double occupancy: want 409, got %d", w.Code)
	}

	// month lifecycle
	w = performRequest(r, http.MethodPost, "/months/2024-03/start", raviToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("start month: %d %s", w.Code, w.Body.String())
	}
	w = performRequest(r, http.MethodPost, "/months/2024-03/close", raviToken, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("close with open dues: want 409, got %d", w.Code)
	}

	// settle rent 10000 + water 500 with 7500 cash and 3000 from the advance
	w = performRequest(r, http.MethodPost, "/tenants/"+tenantID+"/payments", raviToken, gin.H{
		"amount": 7500, "method": "upi", "use_advance": true, "advance_amount": 3000,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("record payment: %d %s", w.Code, w.Body.String())
	}

	// overpaying a settled ledger is rejected, not clamped
	w = performRequest(r, http.MethodPost, "/tenants/"+tenantID+"/payments", raviToken, gin.H{"amount": 1, "method": "cash"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("overpayment: want 422, got %d %s", w.Code, w.Body.String())
	}

	w = performRequest(r, http.MethodGet, "/months/2024-03", raviToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get month: %d %s", w.Code, w.Body.String())
	}
	rollup := decode(t, w)
	if rollup["collected"].(float64) != 10500 || rollup["outstanding"].(float64) != 0 {
		t.Fatalf("bad rollup: %v", rollup)
	}

	w = performRequest(r, http.MethodPost, "/months/2024-03/close", raviToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("close month: %d %s", w.Code, w.Body.String())
	}

	// expenses feed the summary
	w = performRequest(r, http.MethodPost, "/expenses", raviToken, gin.H{
		"month": "2024-03", "payee": "plumber", "amount": 800, "purpose": "repairs", "property_id": propertyID,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create expense: %d %s", w.Code, w.Body.String())
	}

	w = performRequest(r, http.MethodGet, "/summary?month=2024-03", raviToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("summary: %d %s", w.Code, w.Body.String())
	}
	var summary []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil || len(summary) != 1 {
		t.Fatalf("want one summary row, got %s", w.Body.String())
	}
	row := summary[0]
	if row["collected"].(float64) != 10500 || row["expenses"].(float64) != 800 {
		t.Fatalf("bad summary row: %v", row)
	}
}

func TestServerRejectsAnonymous(t *testing.T) {
	r := newTestRouter(t)
	for _, path := range []string{"/me", "/properties", "/payments", "/summary"} {
		w := performRequest(r, http.MethodGet, path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s without token: want 401, got %d", path, w.Code)
		}
	}
}

func TestServerPartitionIsolation(t *testing.T) {
	r := newTestRouter(t)
	setupOwnerWithProperty := func(username string) (string, string) {
		owner := createTestOwner(t, username)
		property, _, _ := createTestLetting(t, owner.ID, 1000, 0, 0)
		return login(t, r, username, "secret123"), property.ID
	}
	aToken, _ := setupOwnerWithProperty("owner-a")
	_, bProperty := setupOwnerWithProperty("owner-b")

	// one owner cannot read the other's property
	w := performRequest(r, http.MethodGet, "/properties/"+bProperty, aToken, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("cross-account read: want 404, got %d", w.Code)
	}

	// but the admin partition spans everything
	adminToken := login(t, r, "admin", "admin123")
	w = performRequest(r, http.MethodGet, "/properties", adminToken, nil)
	var props []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &props); err != nil || len(props) != 2 {
		t.Fatalf("admin must see both properties, got %s", w.Body.String())
	}
}

func TestRefreshTokenRotation(t *testing.T) {
	r := newTestRouter(t)

	w := performRequest(r, http.MethodPost, "/login", "", gin.H{"username": "admin", "password": "admin123"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	refresh, _ := decode(t, w)["refresh_token"].(string)
	if refresh == "" {
		t.Fatal("no refresh token issued")
	}

	w = performRequest(r, http.MethodPost, "/refresh", "", gin.H{"refresh_token": refresh})
	if w.Code != http.StatusOK {
		t.Fatalf("refresh: %d %s", w.Code, w.Body.String())
	}
	rotated, _ := decode(t, w)["refresh_token"].(string)
	if rotated == "" || rotated == refresh {
		t.Fatalf("refresh token not rotated")
	}

	// the old token is revoked by rotation
	w = performRequest(r, http.MethodPost, "/refresh", "", gin.H{"refresh_token": refresh})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token accepted: %d", w.Code)
	}
}
