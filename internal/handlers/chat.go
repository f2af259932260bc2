package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/himo-im/himo-server/internal/middleware"
	"github.com/himo-im/himo-server/internal/store"
	"github.com/himo-im/himo-server/internal/ws"
)

type ChatHandler struct {
	Store store.Store
	Hub   *ws.Hub
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

func (h *ChatHandler) GetChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.Store.ListChats(middleware.UserID(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(chats)
}

func (h *ChatHandler) GetChatMessages(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	chatID, _ := strconv.Atoi(vars["id"])
	userID := middleware.UserID(r)

	isMember, err := h.Store.IsMember(chatID, userID)
	if err != nil || !isMember {
		http.Error(w, "Not a member of this chat", http.StatusForbidden)
		return
	}

	messages, err := h.Store.ListMessages(chatID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(messages)
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	chatID, _ := strconv.Atoi(vars["id"])

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	author, err := h.Store.GetUserByID(middleware.UserID(r))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if author.IsBanned {
		http.Error(w, "Account is banned", http.StatusForbidden)
		return
	}

	msg, err := h.Store.SaveMessage(chatID, author, req.Text)
	if err != nil {
		if errors.Is(err, store.ErrNotMember) {
			http.Error(w, "Not a member of this chat", http.StatusForbidden)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if msg == nil {
		// Whitespace-only body is dropped without error.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if h.Hub != nil {
		h.Hub.Broadcast(msg)
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(msg)
}
