package models

import "time"

type User struct {
	ID           int        `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	PasswordHash string     `json:"-" db:"password_hash"`
	HimID        string     `json:"him_id" db:"him_id"`
	Coins        int        `json:"him_coins" db:"him_coins"`
	IsPremium    bool       `json:"is_premium" db:"is_premium"`
	IsVerified   bool       `json:"is_verified" db:"is_verified"`
	IsAdmin      bool       `json:"is_admin" db:"is_admin"`
	IsBanned     bool       `json:"is_banned" db:"is_banned"`
	LastDailyAt  *string    `json:"-" db:"last_daily_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty" db:"last_login"`

	// DailyCollected is derived from LastDailyAt against the current UTC date.
	DailyCollected bool `json:"daily_collected" db:"-"`
}

type Chat struct {
	ID           int        `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Description  string     `json:"description" db:"description"`
	IsGroup      bool       `json:"is_group" db:"is_group"`
	LastMessage  string     `json:"last_message" db:"last_message"`
	LastActivity *time.Time `json:"last_activity,omitempty" db:"last_activity"`
	Unread       int        `json:"unread" db:"unread"`
}

// Message carries the author's display attributes as they were at send
// time. Later changes to the author's profile do not rewrite history.
type Message struct {
	ID         int       `json:"id" db:"id"`
	ChatID     int       `json:"chat_id" db:"chat_id"`
	UserID     int       `json:"user_id" db:"user_id"`
	Username   string    `json:"username" db:"username"`
	HimID      string    `json:"him_id" db:"him_id"`
	IsPremium  bool      `json:"is_premium" db:"is_premium"`
	IsVerified bool      `json:"is_verified" db:"is_verified"`
	Text       string    `json:"text" db:"text"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type Friend struct {
	ID       int    `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	HimID    string `json:"him_id" db:"him_id"`
	IsOnline bool   `json:"is_online" db:"-"`
}

type Report struct {
	ID           int       `json:"id" db:"id"`
	ReportedID   int       `json:"reported_user_id" db:"reported_user_id"`
	ReportedUser string    `json:"reported_user" db:"reported_user"`
	ReporterID   int       `json:"reported_by_user_id" db:"reported_by_user_id"`
	ReportedBy   string    `json:"reported_by" db:"reported_by"`
	Reason       string    `json:"reason" db:"reason"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
