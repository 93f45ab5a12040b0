package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/devhaven/account-api/internal/util"
)

func TestRequireAuthRejectsBadCredentials(t *testing.T) {
	user := mustUser("asha@example.com", "StrongPass23")
	env := newTestEnv(newMemUserRepo(user))

	expiredTokens := util.NewTokenManager("test-secret", time.Millisecond)
	expiredToken, _, err := expiredTokens.Generate(user.ID)
	if err != nil {
		t.Fatalf("generate expired token: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	foreignTokens := util.NewTokenManager("some-other-secret", time.Hour)
	foreignToken, _, err := foreignTokens.Generate(user.ID)
	if err != nil {
		t.Fatalf("generate foreign token: %v", err)
	}

	deleted := mustUser("ghost@example.com", "StrongPass23")
	deletedToken, _, err := util.NewTokenManager("test-secret", time.Hour).Generate(deleted.ID)
	if err != nil {
		t.Fatalf("generate token for deleted user: %v", err)
	}

	cases := []struct {
		name    string
		prepare func(req *http.Request)
	}{
		{name: "no token at all", prepare: func(req *http.Request) {}},
		{name: "empty cookie value", prepare: func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "token", Value: ""})
		}},
		{name: "garbage cookie", prepare: func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "token", Value: "not-a-jwt"})
		}},
		{name: "expired token", prepare: func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "token", Value: expiredToken})
		}},
		{name: "token signed with wrong secret", prepare: func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "token", Value: foreignToken})
		}},
		{name: "valid token for deleted user", prepare: func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "token", Value: deletedToken})
		}},
		{name: "malformed authorization header", prepare: func(req *http.Request) {
			req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users/getuser", nil)
			tc.prepare(req)
			rec := httptest.NewRecorder()
			env.e.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["error"] != "not authorized, please login" {
				t.Fatalf("error = %q, want the generic message", body["error"])
			}
		})
	}
}

func TestRequireAuthAcceptsCookie(t *testing.T) {
	user := mustUser("asha@example.com", "StrongPass23")
	env := newTestEnv(newMemUserRepo(user))

	token, _, err := util.NewTokenManager("test-secret", time.Hour).Generate(user.ID)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users/getuser", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var body AuthUserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.User.Email != user.Email {
		t.Fatalf("email = %q, want %q", body.User.Email, user.Email)
	}
	if body.User.ID != user.ID.String() {
		t.Fatalf("id = %q, want %q", body.User.ID, user.ID)
	}
}

func TestRequireAuthBearerFallback(t *testing.T) {
	user := mustUser("asha@example.com", "StrongPass23")
	env := newTestEnv(newMemUserRepo(user))

	token, _, err := util.NewTokenManager("test-secret", time.Hour).Generate(user.ID)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users/getuser", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func TestRequireAuthCookieWinsOverHeader(t *testing.T) {
	user := mustUser("asha@example.com", "StrongPass23")
	env := newTestEnv(newMemUserRepo(user))

	token, _, err := util.NewTokenManager("test-secret", time.Hour).Generate(user.ID)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	// A broken cookie must not fall through to the valid header credential.
	req := httptest.NewRequest(http.MethodGet, "/api/users/getuser", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "stale-garbage"})
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
