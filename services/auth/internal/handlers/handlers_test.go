package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/diagnosis/dalmatia-stays/internal/http/response"
	"github.com/diagnosis/dalmatia-stays/pkg/config"
	"github.com/diagnosis/dalmatia-stays/pkg/events"
	"github.com/diagnosis/dalmatia-stays/services/auth/internal/domain"
	"github.com/diagnosis/dalmatia-stays/services/auth/internal/handlers"
	"github.com/diagnosis/dalmatia-stays/services/auth/internal/service"
	"github.com/google/uuid"
)

const jwtSecret = "auth-handler-secret"

// Mock user repository
type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func (m *mockUserRepo) Create(_ context.Context, email, fullName, role, hash string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &domain.User{ID: uuid.New(), Email: email, FullName: fullName, Role: role, PasswordHash: hash, CreatedAt: time.Now()}
	m.users[email] = u
	return u, nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[email], nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	repo := &mockUserRepo{users: map[string]*domain.User{}}
	svc := service.NewAuthService(repo, events.NopPublisher{}, config.AuthConfig{
		JWTSecret:       jwtSecret,
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	})
	srv := httptest.NewServer(handlers.New(svc).Routes(jwtSecret))
	t.Cleanup(srv.Close)
	return srv
}

// Helper function for making POST requests
func postJSON(t *testing.T, url string, data interface{}, expectedStatus int) *http.Response {
	t.Helper()

	body, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if resp.StatusCode != expectedStatus {
		var errResp response.ErrorResponse
		json.NewDecoder(resp.Body).Decode(&errResp)
		resp.Body.Close()
		t.Fatalf("Expected status %d, got %d: %+v", expectedStatus, resp.StatusCode, errResp)
	}

	return resp
}

func decodeTokens(t *testing.T, resp *http.Response) domain.TokenResponse {
	t.Helper()
	defer resp.Body.Close()
	var out domain.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode tokens: %v", err)
	}
	return out
}

func TestSignupLoginMe(t *testing.T) {
	srv := setupTestServer(t)

	signup := decodeTokens(t, postJSON(t, srv.URL+"/signup", map[string]string{
		"email": "marija@example.com", "password": "longenough", "fullName": "Marija Horvat", "role": "host",
	}, http.StatusCreated))
	if signup.User == nil || signup.User.Role != "host" || signup.TokenType != "Bearer" {
		t.Fatalf("Unexpected signup response: %+v", signup)
	}

	login := decodeTokens(t, postJSON(t, srv.URL+"/login", map[string]string{
		"email": "MARIJA@example.com", "password": "longenough",
	}, http.StatusOK))

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 from /me, got %d", resp.StatusCode)
	}
	var me struct {
		User domain.UserInfo `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		t.Fatalf("Failed to decode /me: %v", err)
	}
	if me.User.FullName != "Marija Horvat" || me.User.Email != "marija@example.com" {
		t.Fatalf("Unexpected profile: %+v", me.User)
	}
}

func TestSignup_Conflict(t *testing.T) {
	srv := setupTestServer(t)
	body := map[string]string{"email": "ana@example.com", "password": "longenough"}

	postJSON(t, srv.URL+"/signup", body, http.StatusCreated).Body.Close()

	resp := postJSON(t, srv.URL+"/signup", body, http.StatusConflict)
	defer resp.Body.Close()
	var errResp response.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	if errResp.Code != response.CodeEmailExists {
		t.Fatalf("Expected %s, got %s", response.CodeEmailExists, errResp.Code)
	}
}

func TestSignup_Validation(t *testing.T) {
	srv := setupTestServer(t)

	resp := postJSON(t, srv.URL+"/signup", map[string]string{"email": "ana@example.com", "password": "short"}, http.StatusBadRequest)
	defer resp.Body.Close()
	var errResp response.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	if errResp.Field != "password" || errResp.Code != response.CodeInvalidInput {
		t.Fatalf("Unexpected error: %+v", errResp)
	}

	postJSON(t, srv.URL+"/signup", map[string]string{"password": "longenough"}, http.StatusBadRequest).Body.Close()

	bad, err := http.Post(srv.URL+"/signup", "application/json", bytes.NewBufferString("{not json"))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400 for malformed JSON, got %d", bad.StatusCode)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	srv := setupTestServer(t)
	postJSON(t, srv.URL+"/signup", map[string]string{"email": "ana@example.com", "password": "longenough"}, http.StatusCreated).Body.Close()

	postJSON(t, srv.URL+"/login", map[string]string{"email": "ana@example.com", "password": "not-the-one"}, http.StatusUnauthorized).Body.Close()
}

func TestRefresh(t *testing.T) {
	srv := setupTestServer(t)
	signup := decodeTokens(t, postJSON(t, srv.URL+"/signup", map[string]string{
		"email": "ana@example.com", "password": "longenough",
	}, http.StatusCreated))

	refreshed := decodeTokens(t, postJSON(t, srv.URL+"/refresh", map[string]string{
		"refreshToken": signup.RefreshToken,
	}, http.StatusOK))
	if refreshed.AccessToken == "" {
		t.Fatal("Expected a new access token")
	}

	postJSON(t, srv.URL+"/refresh", map[string]string{"refreshToken": signup.AccessToken}, http.StatusUnauthorized).Body.Close()
}

func TestMe_RequiresSession(t *testing.T) {
	srv := setupTestServer(t)

	resp, err := http.Get(srv.URL + "/me")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", resp.StatusCode)
	}
}
