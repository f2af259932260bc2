package handlers

import (
	"net/http"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/himo-im/himo-server/internal/auth"
	"github.com/himo-im/himo-server/internal/models"
	"github.com/himo-im/himo-server/internal/store/sqlstore"
)

var testSecret = []byte("test-secret")

func newTestStore(t *testing.T) *sqlstore.SQLStore {
	t.Helper()
	st, err := sqlstore.New("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	rootHash, _ := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.MinCost)
	if err := st.Seed("Himo", string(rootHash)); err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}
	return st
}

func createTestUser(t *testing.T, st *sqlstore.SQLStore, username, himID, password string) *models.User {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &models.User{Username: username, PasswordHash: string(hash), HimID: himID}
	if err := st.CreateUser(user); err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

func sessionCookie(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()
	token, err := auth.Sign(testSecret, user, time.Hour)
	if err != nil {
		t.Fatalf("Failed to sign session token: %v", err)
	}
	return &http.Cookie{Name: auth.CookieName, Value: token}
}
