package sqlstore

import (
	"database/sql"
	"errors"

	"github.com/himo-im/himo-server/internal/models"
	"github.com/himo-im/himo-server/internal/store"
)

const userColumns = `id, username, password_hash, him_id, him_coins, is_premium, is_verified, is_admin, is_banned, last_daily_at, created_at, last_login`

func deriveDaily(u *models.User) {
	u.DailyCollected = u.LastDailyAt != nil && *u.LastDailyAt == today()
}

func (s *SQLStore) getUser(where string, arg interface{}) (*models.User, error) {
	var user models.User
	query := s.rebind("SELECT " + userColumns + " FROM users WHERE " + where)
	if err := s.db.Get(&user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	deriveDaily(&user)
	return &user, nil
}

func (s *SQLStore) CreateUser(user *models.User) error {
	var exists bool
	query := s.rebind("SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)")
	if err := s.db.Get(&exists, query, user.Username); err != nil {
		return err
	}
	if exists {
		return store.ErrDuplicate
	}

	query = s.rebind("INSERT INTO users (username, password_hash, him_id) VALUES (?, ?, ?) RETURNING id")
	if err := s.db.QueryRow(query, user.Username, user.PasswordHash, user.HimID).Scan(&user.ID); err != nil {
		return err
	}

	created, err := s.GetUserByID(user.ID)
	if err != nil {
		return err
	}
	*user = *created
	return nil
}

func (s *SQLStore) GetUserByUsername(username string) (*models.User, error) {
	return s.getUser("username = ?", username)
}

func (s *SQLStore) GetUserByID(id int) (*models.User, error) {
	return s.getUser("id = ?", id)
}

func (s *SQLStore) GetUserByHimID(himID string) (*models.User, error) {
	return s.getUser("him_id = ?", himID)
}

func (s *SQLStore) HimIDExists(himID string) (bool, error) {
	var exists bool
	query := s.rebind("SELECT EXISTS(SELECT 1 FROM users WHERE him_id = ?)")
	err := s.db.Get(&exists, query, himID)
	return exists, err
}

func (s *SQLStore) TouchLastLogin(userID int) error {
	query := s.rebind("UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE id = ?")
	_, err := s.db.Exec(query, userID)
	return err
}

func (s *SQLStore) ListUsers() ([]models.User, error) {
	var users []models.User
	query := "SELECT " + userColumns + " FROM users ORDER BY created_at DESC, id DESC"
	if err := s.db.Select(&users, query); err != nil {
		return nil, err
	}
	for i := range users {
		deriveDaily(&users[i])
	}
	return users, nil
}

// CollectDaily credits the daily grant at most once per UTC calendar
// day. Collecting again on the same day is a no-op, not an error.
func (s *SQLStore) CollectDaily(userID int) (*models.User, error) {
	day := today()
	query := s.rebind(`UPDATE users SET him_coins = him_coins + ?, last_daily_at = ?
		WHERE id = ? AND (last_daily_at IS NULL OR last_daily_at < ?)`)
	if _, err := s.db.Exec(query, store.DailyGrant, day, userID, day); err != nil {
		return nil, err
	}
	return s.GetUserByID(userID)
}

// PurchasePremium is a single conditional debit: the balance guard and
// the write are one statement, so the balance can never go negative.
func (s *SQLStore) PurchasePremium(userID int) (*models.User, error) {
	query := s.rebind("UPDATE users SET him_coins = him_coins - ?, is_premium = TRUE WHERE id = ? AND him_coins >= ?")
	res, err := s.db.Exec(query, store.PremiumPrice, userID, store.PremiumPrice)
	if err != nil {
		return nil, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		if _, err := s.GetUserByID(userID); err != nil {
			return nil, err
		}
		return nil, store.ErrInsufficientFunds
	}
	return s.GetUserByID(userID)
}

func (s *SQLStore) adminUpdate(targetID int, set string, args ...interface{}) error {
	if targetID == store.RootAdminID {
		return store.ErrProtectedAccount
	}
	query := s.rebind("UPDATE users SET " + set + " WHERE id = ?")
	res, err := s.db.Exec(query, append(args, targetID)...)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *SQLStore) SetBanned(targetID int, banned bool) error {
	return s.adminUpdate(targetID, "is_banned = ?", banned)
}

func (s *SQLStore) SetAdmin(targetID int, admin bool) error {
	return s.adminUpdate(targetID, "is_admin = ?", admin)
}

func (s *SQLStore) SetVerified(targetID int) error {
	return s.adminUpdate(targetID, "is_verified = TRUE")
}

func (s *SQLStore) GrantCoins(targetID, amount int) error {
	if amount <= 0 {
		return store.ErrInvalidAmount
	}
	return s.adminUpdate(targetID, "him_coins = him_coins + ?", amount)
}

// DeleteUser is a soft delete: the row is banned and renamed so the
// username becomes available again, but messages keep their author.
func (s *SQLStore) DeleteUser(targetID int) error {
	return s.adminUpdate(targetID, "is_banned = TRUE, username = 'DELETED_' || id")
}
