package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/himo-im/himo-server/internal/auth"
	"github.com/himo-im/himo-server/internal/models"
	"github.com/himo-im/himo-server/internal/store/sqlstore"
)

var testSecret = []byte("test-secret")

func TestSessionMiddleware(t *testing.T) {
	// Mock next handler
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserID(r) != 123 {
			t.Errorf("Expected userID 123, got %v", UserID(r))
		}
		w.WriteHeader(http.StatusOK)
	})

	validToken, err := auth.Sign(testSecret, &models.User{ID: 123}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	wrongKeyToken, _ := auth.Sign([]byte("other-secret"), &models.User{ID: 123}, time.Hour)
	expiredToken, _ := auth.Sign(testSecret, &models.User{ID: 123}, -time.Hour)

	tests := []struct {
		name           string
		cookieValue    string
		expectedStatus int
	}{
		{
			name:           "Valid Token",
			cookieValue:    validToken,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Wrong Signing Key",
			cookieValue:    wrongKeyToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Expired Token",
			cookieValue:    expiredToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Garbage Token",
			cookieValue:    "not-a-jwt",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: tt.cookieValue})
			rr := httptest.NewRecorder()

			Session(testSecret)(nextHandler).ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v",
					rr.Code, tt.expectedStatus)
			}
		})
	}

	t.Run("Missing Cookie", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		rr := httptest.NewRecorder()

		Session(testSecret)(nextHandler).ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("handler returned wrong status code: got %v want %v",
				rr.Code, http.StatusUnauthorized)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	st, err := sqlstore.New("sqlite3", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Seed("Himo", "hash"); err != nil {
		t.Fatal(err)
	}
	regular := &models.User{Username: "regular", PasswordHash: "hash", HimID: "HIM100001"}
	if err := st.CreateUser(regular); err != nil {
		t.Fatal(err)
	}

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	run := func(userID int) int {
		token, _ := auth.Sign(testSecret, &models.User{ID: userID}, time.Hour)
		req := httptest.NewRequest("GET", "/admin/users", nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
		rr := httptest.NewRecorder()
		Session(testSecret)(RequireAdmin(st)(nextHandler)).ServeHTTP(rr, req)
		return rr.Code
	}

	if code := run(1); code != http.StatusOK {
		t.Errorf("root admin: got %v want %v", code, http.StatusOK)
	}
	if code := run(regular.ID); code != http.StatusForbidden {
		t.Errorf("regular user: got %v want %v", code, http.StatusForbidden)
	}
	if code := run(9999); code != http.StatusForbidden {
		t.Errorf("unknown user: got %v want %v", code, http.StatusForbidden)
	}
}

func TestLoggingMiddleware(t *testing.T) {
	// Mock next handler that returns 404
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()

	Logging(zap.NewNop().Sugar())(nextHandler).ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("handler returned wrong status code: got %v want %v",
			rr.Code, http.StatusNotFound)
	}
	if rr.Header().Get("X-Request-Id") == "" {
		t.Error("Expected X-Request-Id header to be set")
	}
}
