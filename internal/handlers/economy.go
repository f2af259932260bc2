package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/himo-im/himo-server/internal/middleware"
	"github.com/himo-im/himo-server/internal/store"
)

type EconomyHandler struct {
	Store store.Store
}

// CollectDaily credits the daily grant. Collecting twice in the same
// day returns the unchanged user rather than an error.
func (h *EconomyHandler) CollectDaily(w http.ResponseWriter, r *http.Request) {
	user, err := h.Store.CollectDaily(middleware.UserID(r))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(user)
}

func (h *EconomyHandler) BuyPremium(w http.ResponseWriter, r *http.Request) {
	user, err := h.Store.PurchasePremium(middleware.UserID(r))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInsufficientFunds):
			http.Error(w, "Not enough HimCoins", http.StatusPaymentRequired)
		case errors.Is(err, store.ErrNotFound):
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	json.NewEncoder(w).Encode(user)
}
