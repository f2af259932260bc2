package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/himo-im/himo-server/internal/store"
)

// AdminHandler exposes moderation over the registry. Routes are gated
// by middleware.RequireAdmin; the protected root account guard lives
// in the store so no caller can bypass it.
type AdminHandler struct {
	Store store.Store
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListUsers()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(users)
}

func (h *AdminHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.Store.ListReports()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(reports)
}

// UserMessages lists a user's recent messages for moderation review.
func (h *AdminHandler) UserMessages(w http.ResponseWriter, r *http.Request) {
	targetID, _ := strconv.Atoi(mux.Vars(r)["id"])
	messages, err := h.Store.ListUserMessages(targetID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(messages)
}

func (h *AdminHandler) Ban(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "User banned", func(id int) error { return h.Store.SetBanned(id, true) })
}

func (h *AdminHandler) Unban(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "User unbanned", func(id int) error { return h.Store.SetBanned(id, false) })
}

func (h *AdminHandler) Promote(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "User promoted to admin", func(id int) error { return h.Store.SetAdmin(id, true) })
}

func (h *AdminHandler) Demote(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "Admin rights removed", func(id int) error { return h.Store.SetAdmin(id, false) })
}

func (h *AdminHandler) Verify(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "User verified", func(id int) error { return h.Store.SetVerified(id) })
}

func (h *AdminHandler) GiveCoins(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.mutate(w, r, "Coins granted", func(id int) error { return h.Store.GrantCoins(id, req.Amount) })
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "User deleted", func(id int) error { return h.Store.DeleteUser(id) })
}

func (h *AdminHandler) mutate(w http.ResponseWriter, r *http.Request, message string, op func(id int) error) {
	targetID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Target user ID required", http.StatusBadRequest)
		return
	}

	if err := op(targetID); err != nil {
		switch {
		case errors.Is(err, store.ErrProtectedAccount):
			http.Error(w, "Cannot modify the root admin", http.StatusForbidden)
		case errors.Is(err, store.ErrNotFound):
			http.Error(w, "User not found", http.StatusNotFound)
		case errors.Is(err, store.ErrInvalidAmount):
			http.Error(w, "Invalid amount", http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "message": message})
}
