package sqlstore

import (
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // Postgres driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/himo-im/himo-server/internal/store"
)

type SQLStore struct {
	db         *sqlx.DB
	driverName string
}

func New(driverName, dataSourceName string) (*SQLStore, error) {
	db, err := sqlx.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if driverName == "sqlite3" {
		// In-memory SQLite databases are per-connection; keep one.
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLStore{db: db, driverName: driverName}
	if err := s.createTables(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) createTables() error {
	// Simplified for brevity, ideally use migrations
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		him_id TEXT UNIQUE NOT NULL,
		him_coins INTEGER NOT NULL DEFAULT 0 CHECK (him_coins >= 0),
		is_premium BOOLEAN NOT NULL DEFAULT FALSE,
		is_verified BOOLEAN NOT NULL DEFAULT FALSE,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		is_banned BOOLEAN NOT NULL DEFAULT FALSE,
		last_daily_at TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_login DATETIME
	);

	CREATE TABLE IF NOT EXISTS chats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		is_group BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS chat_members (
		chat_id INTEGER,
		user_id INTEGER,
		PRIMARY KEY (chat_id, user_id),
		FOREIGN KEY (chat_id) REFERENCES chats(id),
		FOREIGN KEY (user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		chat_id INTEGER,
		user_id INTEGER,
		username TEXT NOT NULL,
		him_id TEXT NOT NULL,
		is_premium BOOLEAN NOT NULL DEFAULT FALSE,
		is_verified BOOLEAN NOT NULL DEFAULT FALSE,
		text TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (chat_id) REFERENCES chats(id)
	);

	CREATE TABLE IF NOT EXISTS friends (
		user_id INTEGER,
		friend_id INTEGER,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, friend_id),
		FOREIGN KEY (user_id) REFERENCES users(id),
		FOREIGN KEY (friend_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		reported_user_id INTEGER NOT NULL,
		reported_by_user_id INTEGER NOT NULL,
		reason TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'open',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (reported_user_id) REFERENCES users(id),
		FOREIGN KEY (reported_by_user_id) REFERENCES users(id)
	);
	`

	if s.driverName == "postgres" {
		// Adjust for Postgres syntax
		query = strings.ReplaceAll(query, "INTEGER PRIMARY KEY AUTOINCREMENT", "SERIAL PRIMARY KEY")
		query = strings.ReplaceAll(query, "DATETIME", "TIMESTAMP")
	}

	_, err := s.db.Exec(query)
	return err
}

// rebind converts ?-style placeholders for the active driver.
func (s *SQLStore) rebind(query string) string {
	return s.db.Rebind(query)
}

// today is the UTC calendar date the daily grant is keyed on.
func today() string {
	return time.Now().UTC().Format("2006-01-02")
}

// Seed creates the root admin account and the general chat on an empty
// database. The root admin is an ordinary registry row; login never
// special-cases its credentials.
func (s *SQLStore) Seed(rootUsername, rootPasswordHash string) error {
	var users int
	if err := s.db.Get(&users, "SELECT COUNT(*) FROM users"); err != nil {
		return err
	}
	if users == 0 {
		query := s.rebind(`INSERT INTO users (username, password_hash, him_id, him_coins, is_premium, is_verified, is_admin)
			VALUES (?, ?, 'HIM000', 999999, TRUE, TRUE, TRUE)`)
		if _, err := s.db.Exec(query, rootUsername, rootPasswordHash); err != nil {
			return err
		}
	}

	var chats int
	if err := s.db.Get(&chats, "SELECT COUNT(*) FROM chats"); err != nil {
		return err
	}
	if chats == 0 {
		chatID, err := s.CreateChat("General", "Everyone joins here on signup", true)
		if err != nil {
			return err
		}
		if err := s.AddMember(int(chatID), store.RootAdminID); err != nil {
			return err
		}
	}
	return nil
}
