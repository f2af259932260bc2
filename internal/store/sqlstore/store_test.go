package sqlstore

import (
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/himo-im/himo-server/internal/models"
	"github.com/himo-im/himo-server/internal/store"
)

var testStore *SQLStore

func SetupTestDB(t *testing.T) {
	var err error
	testStore, err = New("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// Seed the root admin (id 1) and the general chat, as in production.
	if err := testStore.Seed("Himo", "root-hash"); err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}
}

func TeardownTestDB() {
	testStore.db.Close()
}

func createTestUser(t *testing.T, username, himID string) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "hash", HimID: himID}
	if err := testStore.CreateUser(user); err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

func TestSeed(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()

	root, err := testStore.GetUserByID(1)
	if err != nil {
		t.Fatalf("Failed to get root admin: %v", err)
	}
	if root.Username != "Himo" || !root.IsAdmin || root.HimID != "HIM000" {
		t.Errorf("Unexpected root admin row: %+v", root)
	}

	isMember, err := testStore.IsMember(store.GeneralChatID, root.ID)
	if err != nil {
		t.Fatalf("IsMember failed: %v", err)
	}
	if !isMember {
		t.Error("Expected root admin to be a member of the general chat")
	}

	chats, err := testStore.ListChats(root.ID)
	if err != nil {
		t.Fatalf("ListChats failed: %v", err)
	}
	if len(chats) != 1 || chats[0].ID != store.GeneralChatID || chats[0].Name != "General" {
		t.Errorf("Unexpected seeded chat: %+v", chats)
	}

	// Seeding again must be a no-op.
	if err := testStore.Seed("Himo", "root-hash"); err != nil {
		t.Errorf("Re-seeding failed: %v", err)
	}
	users, _ := testStore.ListUsers()
	if len(users) != 1 {
		t.Errorf("Expected 1 user after re-seed, got %d", len(users))
	}
}
