package store

import (
	"errors"

	"github.com/himo-im/himo-server/internal/models"
)

// RootAdminID is the seeded root admin account. Moderation actions
// against it are always refused with ErrProtectedAccount.
const RootAdminID = 1

// GeneralChatID is the seeded public chat every new user joins.
const GeneralChatID = 1

const (
	// DailyGrant is credited once per UTC calendar day per account.
	DailyGrant = 100
	// PremiumPrice is debited when a user buys the premium badge.
	PremiumPrice = 500
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicate         = errors.New("already exists")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrProtectedAccount  = errors.New("protected account")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrNotMember         = errors.New("not a member of this chat")
	ErrSelfFriend        = errors.New("cannot add yourself")
)

type Store interface {
	// User operations
	CreateUser(user *models.User) error
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id int) (*models.User, error)
	GetUserByHimID(himID string) (*models.User, error)
	HimIDExists(himID string) (bool, error)
	TouchLastLogin(userID int) error
	ListUsers() ([]models.User, error)

	// Economy operations
	CollectDaily(userID int) (*models.User, error)
	PurchasePremium(userID int) (*models.User, error)

	// Chat operations
	CreateChat(name, description string, isGroup bool) (int64, error)
	AddMember(chatID, userID int) error
	IsMember(chatID, userID int) (bool, error)
	ListChats(userID int) ([]models.Chat, error)
	ListMessages(chatID int) ([]models.Message, error)
	SaveMessage(chatID int, author *models.User, text string) (*models.Message, error)
	ListUserMessages(userID int) ([]models.Message, error)

	// Friend operations
	AddFriend(userID int, friendHimID string) (*models.Friend, error)
	ListFriends(userID int) ([]models.Friend, error)

	// Report operations
	CreateReport(reporter *models.User, accusedHimID, reason string) (*models.Report, error)
	ListReports() ([]models.Report, error)

	// Admin operations
	SetBanned(targetID int, banned bool) error
	SetAdmin(targetID int, admin bool) error
	SetVerified(targetID int) error
	GrantCoins(targetID, amount int) error
	DeleteUser(targetID int) error
}
