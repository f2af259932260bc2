package sqlstore

import (
	"strings"

	"github.com/himo-im/himo-server/internal/models"
	"github.com/himo-im/himo-server/internal/store"
)

func (s *SQLStore) CreateChat(name, description string, isGroup bool) (int64, error) {
	var id int64
	query := s.rebind("INSERT INTO chats (name, description, is_group) VALUES (?, ?, ?) RETURNING id")
	err := s.db.QueryRow(query, name, description, isGroup).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *SQLStore) AddMember(chatID, userID int) error {
	query := s.rebind("INSERT INTO chat_members (chat_id, user_id) VALUES (?, ?)")
	_, err := s.db.Exec(query, chatID, userID)
	return err
}

func (s *SQLStore) IsMember(chatID, userID int) (bool, error) {
	var exists bool
	query := s.rebind("SELECT EXISTS(SELECT 1 FROM chat_members WHERE chat_id = ? AND user_id = ?)")
	err := s.db.Get(&exists, query, chatID, userID)
	return exists, err
}

// ListChats returns the chats the user is a member of, newest activity
// first. Unread counts messages posted after the user's last login.
func (s *SQLStore) ListChats(userID int) ([]models.Chat, error) {
	query := s.rebind(`
		SELECT c.id, c.name, c.description, c.is_group,
			COALESCE(m.text, '') AS last_message,
			m.created_at AS last_activity,
			(SELECT COUNT(*) FROM messages mm WHERE mm.chat_id = c.id
				AND mm.created_at > COALESCE((SELECT u.last_login FROM users u WHERE u.id = ?), '1970-01-01')) AS unread
		FROM chats c
		JOIN chat_members cm ON c.id = cm.chat_id
		LEFT JOIN messages m ON m.id =
			(SELECT m2.id FROM messages m2 WHERE m2.chat_id = c.id ORDER BY m2.created_at DESC, m2.id DESC LIMIT 1)
		WHERE cm.user_id = ?
		ORDER BY COALESCE(m.created_at, '1970-01-01') DESC, c.id ASC
	`)
	var chats []models.Chat
	if err := s.db.Select(&chats, query, userID, userID); err != nil {
		return nil, err
	}
	return chats, nil
}

const messageColumns = `id, chat_id, user_id, username, him_id, is_premium, is_verified, text, created_at`

func (s *SQLStore) ListMessages(chatID int) ([]models.Message, error) {
	query := s.rebind("SELECT " + messageColumns + " FROM messages WHERE chat_id = ? ORDER BY created_at ASC, id ASC LIMIT 100")
	var messages []models.Message
	if err := s.db.Select(&messages, query, chatID); err != nil {
		return nil, err
	}
	return messages, nil
}

// SaveMessage appends a message with the author's display attributes
// captured at send time. A whitespace-only body is dropped silently.
func (s *SQLStore) SaveMessage(chatID int, author *models.User, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	member, err := s.IsMember(chatID, author.ID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, store.ErrNotMember
	}

	msg := models.Message{
		ChatID:     chatID,
		UserID:     author.ID,
		Username:   author.Username,
		HimID:      author.HimID,
		IsPremium:  author.IsPremium,
		IsVerified: author.IsVerified,
		Text:       text,
	}
	query := s.rebind(`INSERT INTO messages (chat_id, user_id, username, him_id, is_premium, is_verified, text)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	err = s.db.QueryRow(query, msg.ChatID, msg.UserID, msg.Username, msg.HimID, msg.IsPremium, msg.IsVerified, msg.Text).
		Scan(&msg.ID)
	if err != nil {
		return nil, err
	}

	query = s.rebind("SELECT " + messageColumns + " FROM messages WHERE id = ?")
	if err := s.db.Get(&msg, query, msg.ID); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *SQLStore) ListUserMessages(userID int) ([]models.Message, error) {
	query := s.rebind("SELECT " + messageColumns + " FROM messages WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT 100")
	var messages []models.Message
	if err := s.db.Select(&messages, query, userID); err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *SQLStore) AddFriend(userID int, friendHimID string) (*models.Friend, error) {
	friend, err := s.GetUserByHimID(friendHimID)
	if err != nil {
		return nil, err
	}
	if friend.ID == userID {
		return nil, store.ErrSelfFriend
	}

	var exists bool
	query := s.rebind("SELECT EXISTS(SELECT 1 FROM friends WHERE user_id = ? AND friend_id = ?)")
	if err := s.db.Get(&exists, query, userID, friend.ID); err != nil {
		return nil, err
	}
	if exists {
		return nil, store.ErrDuplicate
	}

	query = s.rebind("INSERT INTO friends (user_id, friend_id) VALUES (?, ?)")
	if _, err := s.db.Exec(query, userID, friend.ID); err != nil {
		return nil, err
	}
	return &models.Friend{ID: friend.ID, Username: friend.Username, HimID: friend.HimID}, nil
}

func (s *SQLStore) ListFriends(userID int) ([]models.Friend, error) {
	query := s.rebind(`
		SELECT u.id, u.username, u.him_id
		FROM users u
		JOIN friends f ON u.id = f.friend_id
		WHERE f.user_id = ?
		ORDER BY u.username ASC
	`)
	var friends []models.Friend
	if err := s.db.Select(&friends, query, userID); err != nil {
		return nil, err
	}
	return friends, nil
}

func (s *SQLStore) CreateReport(reporter *models.User, accusedHimID, reason string) (*models.Report, error) {
	accused, err := s.GetUserByHimID(accusedHimID)
	if err != nil {
		return nil, err
	}

	report := models.Report{
		ReportedID:   accused.ID,
		ReportedUser: accused.Username,
		ReporterID:   reporter.ID,
		ReportedBy:   reporter.Username,
		Reason:       reason,
		Status:       "open",
	}
	query := s.rebind("INSERT INTO reports (reported_user_id, reported_by_user_id, reason) VALUES (?, ?, ?) RETURNING id")
	err = s.db.QueryRow(query, report.ReportedID, report.ReporterID, report.Reason).Scan(&report.ID)
	if err != nil {
		return nil, err
	}
	query = s.rebind("SELECT created_at FROM reports WHERE id = ?")
	if err := s.db.Get(&report.CreatedAt, query, report.ID); err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *SQLStore) ListReports() ([]models.Report, error) {
	query := `
		SELECT r.id, r.reported_user_id, r.reported_by_user_id, r.reason, r.status, r.created_at,
			u1.username AS reported_user, u2.username AS reported_by
		FROM reports r
		JOIN users u1 ON r.reported_user_id = u1.id
		JOIN users u2 ON r.reported_by_user_id = u2.id
		ORDER BY r.created_at DESC, r.id DESC
	`
	var reports []models.Report
	if err := s.db.Select(&reports, query); err != nil {
		return nil, err
	}
	return reports, nil
}
