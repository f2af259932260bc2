package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/himo-im/himo-server/internal/config"
	"github.com/himo-im/himo-server/internal/handlers"
	"github.com/himo-im/himo-server/internal/logger"
	"github.com/himo-im/himo-server/internal/middleware"
	"github.com/himo-im/himo-server/internal/store/sqlstore"
	"github.com/himo-im/himo-server/internal/ws"
)

var addr = flag.String("addr", "", "http service address (overrides HIMO_ADDR)")

func main() {
	flag.Parse()
	_ = godotenv.Load()

	cfg := config.Load()
	if *addr != "" {
		cfg.Addr = *addr
	}

	lg, err := logger.Init(logger.Config{Level: cfg.LogLevel, Dev: cfg.LogDev, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()
	sugar := lg.Sugar()

	// Initialize Database
	st, err := sqlstore.New(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		sugar.Fatalf("open store: %v", err)
	}

	rootHash, err := bcrypt.GenerateFromPassword([]byte(cfg.RootPassword), bcrypt.DefaultCost)
	if err != nil {
		sugar.Fatalf("hash root password: %v", err)
	}
	if err := st.Seed(cfg.RootUsername, string(rootHash)); err != nil {
		sugar.Fatalf("seed store: %v", err)
	}

	// Initialize WebSocket Hub
	hub := ws.NewHub(st, sugar)
	go hub.Run()

	// Initialize Handlers
	secret := []byte(cfg.JWTSecret)
	authHandler := &handlers.AuthHandler{Store: st, Secret: secret, SessionTTL: cfg.SessionTTL}
	chatHandler := &handlers.ChatHandler{Store: st, Hub: hub}
	economyHandler := &handlers.EconomyHandler{Store: st}
	friendHandler := &handlers.FriendHandler{Store: st, Hub: hub}
	reportHandler := &handlers.ReportHandler{Store: st}
	adminHandler := &handlers.AdminHandler{Store: st}

	r := mux.NewRouter()
	r.Use(middleware.Logging(sugar))

	// Public endpoints
	r.HandleFunc("/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/login", authHandler.Login).Methods("POST")

	// Session endpoints
	api := r.PathPrefix("/").Subrouter()
	api.Use(middleware.Session(secret))
	api.HandleFunc("/logout", authHandler.Logout).Methods("POST")
	api.HandleFunc("/me", authHandler.Me).Methods("GET")
	api.HandleFunc("/chats", chatHandler.GetChats).Methods("GET")
	api.HandleFunc("/chats/{id}/messages", chatHandler.GetChatMessages).Methods("GET")
	api.HandleFunc("/chats/{id}/messages", chatHandler.SendMessage).Methods("POST")
	api.HandleFunc("/coins/daily", economyHandler.CollectDaily).Methods("POST")
	api.HandleFunc("/premium", economyHandler.BuyPremium).Methods("POST")
	api.HandleFunc("/friends", friendHandler.GetFriends).Methods("GET")
	api.HandleFunc("/friends", friendHandler.AddFriend).Methods("POST")
	api.HandleFunc("/reports", reportHandler.CreateReport).Methods("POST")

	// WebSocket endpoint
	api.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWs(hub, w, r, middleware.UserID(r))
	})

	// Admin endpoints
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin(st))
	admin.HandleFunc("/users", adminHandler.ListUsers).Methods("GET")
	admin.HandleFunc("/reports", adminHandler.ListReports).Methods("GET")
	admin.HandleFunc("/users/{id}/messages", adminHandler.UserMessages).Methods("GET")
	admin.HandleFunc("/users/{id}/ban", adminHandler.Ban).Methods("POST")
	admin.HandleFunc("/users/{id}/unban", adminHandler.Unban).Methods("POST")
	admin.HandleFunc("/users/{id}/promote", adminHandler.Promote).Methods("POST")
	admin.HandleFunc("/users/{id}/demote", adminHandler.Demote).Methods("POST")
	admin.HandleFunc("/users/{id}/verify", adminHandler.Verify).Methods("POST")
	admin.HandleFunc("/users/{id}/coins", adminHandler.GiveCoins).Methods("POST")
	admin.HandleFunc("/users/{id}", adminHandler.DeleteUser).Methods("DELETE")

	srv := &http.Server{Addr: cfg.Addr, Handler: r}

	go func() {
		sugar.Infow("starting himo-server", "addr", cfg.Addr, "driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("listen: %v", err)
		}
	}()

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	sugar.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Warnf("shutdown: %v", err)
	}
}
