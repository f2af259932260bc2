package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/himo-im/himo-server/internal/middleware"
	"github.com/himo-im/himo-server/internal/store"
	"github.com/himo-im/himo-server/internal/ws"
)

type FriendHandler struct {
	Store store.Store
	Hub   *ws.Hub
}

type AddFriendRequest struct {
	HimID string `json:"him_id"`
}

func (h *FriendHandler) GetFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := h.Store.ListFriends(middleware.UserID(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	for i := range friends {
		friends[i].IsOnline = h.Hub != nil && h.Hub.IsOnline(friends[i].ID)
	}
	json.NewEncoder(w).Encode(friends)
}

func (h *FriendHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	var req AddFriendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	friend, err := h.Store.AddFriend(middleware.UserID(r), req.HimID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			http.Error(w, "User not found", http.StatusNotFound)
		case errors.Is(err, store.ErrSelfFriend):
			http.Error(w, "Cannot add yourself", http.StatusBadRequest)
		case errors.Is(err, store.ErrDuplicate):
			http.Error(w, "Already friends", http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	if h.Hub != nil {
		h.Hub.SendNotification(friend.ID, map[string]string{"type": "friend_added"})
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(friend)
}
