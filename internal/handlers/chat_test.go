package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gorilla/mux"

	"github.com/himo-im/himo-server/internal/middleware"
	"github.com/himo-im/himo-server/internal/models"
	"github.com/himo-im/himo-server/internal/store"
)

func TestGetChats(t *testing.T) {
	st := newTestStore(t)
	user := createTestUser(t, st, "user1", "HIM100001", "pass123")
	st.AddMember(store.GeneralChatID, user.ID)

	handler := &ChatHandler{Store: st}

	req, _ := http.NewRequest("GET", "/chats", nil)
	req.AddCookie(sessionCookie(t, user))

	rr := httptest.NewRecorder()
	middleware.Session(testSecret)(http.HandlerFunc(handler.GetChats)).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v",
			status, http.StatusOK)
	}

	var chats []models.Chat
	json.NewDecoder(rr.Body).Decode(&chats)
	if len(chats) != 1 {
		t.Errorf("Expected 1 chat, got %d", len(chats))
	}
	if chats[0].Name != "General" {
		t.Errorf("Expected chat name 'General', got '%s'", chats[0].Name)
	}
}

func TestGetChatMessagesForbidden(t *testing.T) {
	st := newTestStore(t)
	outsider := createTestUser(t, st, "outsider", "HIM100001", "pass123")

	handler := &ChatHandler{Store: st}

	req, _ := http.NewRequest("GET", "/chats/1/messages", nil)
	req = mux.SetURLVars(req, map[string]string{"id": strconv.Itoa(store.GeneralChatID)})
	req.AddCookie(sessionCookie(t, outsider))

	rr := httptest.NewRecorder()
	middleware.Session(testSecret)(http.HandlerFunc(handler.GetChatMessages)).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusForbidden {
		t.Errorf("handler returned wrong status code: got %v want %v",
			status, http.StatusForbidden)
	}
}

func TestSendMessage(t *testing.T) {
	st := newTestStore(t)
	user := createTestUser(t, st, "user1", "HIM100001", "pass123")
	st.AddMember(store.GeneralChatID, user.ID)

	handler := &ChatHandler{Store: st}

	body, _ := json.Marshal(SendMessageRequest{Text: "hello world"})
	req, _ := http.NewRequest("POST", "/chats/1/messages", bytes.NewBuffer(body))
	req = mux.SetURLVars(req, map[string]string{"id": strconv.Itoa(store.GeneralChatID)})
	req.AddCookie(sessionCookie(t, user))

	rr := httptest.NewRecorder()
	middleware.Session(testSecret)(http.HandlerFunc(handler.SendMessage)).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusCreated {
		t.Fatalf("handler returned wrong status code: got %v want %v",
			status, http.StatusCreated)
	}

	var msg models.Message
	json.NewDecoder(rr.Body).Decode(&msg)
	if msg.Text != "hello world" || msg.Username != "user1" || msg.HimID != "HIM100001" {
		t.Errorf("Unexpected message: %+v", msg)
	}

	messages, _ := st.ListMessages(store.GeneralChatID)
	if len(messages) != 1 {
		t.Errorf("Expected 1 stored message, got %d", len(messages))
	}
}

func TestSendMessageWhitespace(t *testing.T) {
	st := newTestStore(t)
	user := createTestUser(t, st, "user1", "HIM100001", "pass123")
	st.AddMember(store.GeneralChatID, user.ID)

	handler := &ChatHandler{Store: st}

	body, _ := json.Marshal(SendMessageRequest{Text: "   "})
	req, _ := http.NewRequest("POST", "/chats/1/messages", bytes.NewBuffer(body))
	req = mux.SetURLVars(req, map[string]string{"id": strconv.Itoa(store.GeneralChatID)})
	req.AddCookie(sessionCookie(t, user))

	rr := httptest.NewRecorder()
	middleware.Session(testSecret)(http.HandlerFunc(handler.SendMessage)).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusNoContent {
		t.Errorf("handler returned wrong status code: got %v want %v",
			status, http.StatusNoContent)
	}

	messages, _ := st.ListMessages(store.GeneralChatID)
	if len(messages) != 0 {
		t.Errorf("Expected no stored messages, got %d", len(messages))
	}
}

func TestSendMessageBannedAuthor(t *testing.T) {
	st := newTestStore(t)
	user := createTestUser(t, st, "user1", "HIM100001", "pass123")
	st.AddMember(store.GeneralChatID, user.ID)
	st.SetBanned(user.ID, true)

	handler := &ChatHandler{Store: st}

	body, _ := json.Marshal(SendMessageRequest{Text: "still here"})
	req, _ := http.NewRequest("POST", "/chats/1/messages", bytes.NewBuffer(body))
	req = mux.SetURLVars(req, map[string]string{"id": strconv.Itoa(store.GeneralChatID)})
	req.AddCookie(sessionCookie(t, user))

	rr := httptest.NewRecorder()
	middleware.Session(testSecret)(http.HandlerFunc(handler.SendMessage)).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusForbidden {
		t.Errorf("handler returned wrong status code: got %v want %v",
			status, http.StatusForbidden)
	}
}
