package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/himo-im/himo-server/internal/middleware"
	"github.com/himo-im/himo-server/internal/models"
)

func TestAddFriend(t *testing.T) {
	st := newTestStore(t)
	user := createTestUser(t, st, "user1", "HIM100001", "pass123")
	other := createTestUser(t, st, "user2", "HIM100002", "pass123")

	handler := &FriendHandler{Store: st}

	addFriend := func(himID string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(AddFriendRequest{HimID: himID})
		req, _ := http.NewRequest("POST", "/friends", bytes.NewBuffer(body))
		req.AddCookie(sessionCookie(t, user))
		rr := httptest.NewRecorder()
		middleware.Session(testSecret)(http.HandlerFunc(handler.AddFriend)).ServeHTTP(rr, req)
		return rr
	}

	rr := addFriend(other.HimID)
	if rr.Code != http.StatusCreated {
		t.Fatalf("handler returned wrong status code: got %v want %v",
			rr.Code, http.StatusCreated)
	}
	var friend models.Friend
	json.NewDecoder(rr.Body).Decode(&friend)
	if friend.Username != "user2" {
		t.Errorf("Expected friend username 'user2', got '%s'", friend.Username)
	}

	// Adding the same friend again conflicts.
	if rr := addFriend(other.HimID); rr.Code != http.StatusConflict {
		t.Errorf("duplicate friend: got %v want %v", rr.Code, http.StatusConflict)
	}

	// Unknown HIM ID.
	if rr := addFriend("HIM999999"); rr.Code != http.StatusNotFound {
		t.Errorf("unknown him_id: got %v want %v", rr.Code, http.StatusNotFound)
	}

	// Adding yourself is rejected.
	if rr := addFriend(user.HimID); rr.Code != http.StatusBadRequest {
		t.Errorf("self friend: got %v want %v", rr.Code, http.StatusBadRequest)
	}
}

func TestGetFriends(t *testing.T) {
	st := newTestStore(t)
	user := createTestUser(t, st, "user1", "HIM100001", "pass123")
	other := createTestUser(t, st, "user2", "HIM100002", "pass123")
	if _, err := st.AddFriend(user.ID, other.HimID); err != nil {
		t.Fatal(err)
	}

	handler := &FriendHandler{Store: st}

	req, _ := http.NewRequest("GET", "/friends", nil)
	req.AddCookie(sessionCookie(t, user))
	rr := httptest.NewRecorder()
	middleware.Session(testSecret)(http.HandlerFunc(handler.GetFriends)).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v",
			rr.Code, http.StatusOK)
	}
	var friends []models.Friend
	json.NewDecoder(rr.Body).Decode(&friends)
	if len(friends) != 1 {
		t.Fatalf("Expected 1 friend, got %d", len(friends))
	}
	if friends[0].IsOnline {
		t.Error("Expected friend to be offline without a hub")
	}
}
