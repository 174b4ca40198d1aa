// Package storage persists users, chats and messages in PostgreSQL and
// keeps the presence cache in Redis.
package storage

import (
	"context"
	"errors"
	"time"

	"chatter/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ReadReceipt names one message affected by a mark_read request and the
// user who originally sent it.
type ReadReceipt struct {
	MessageID uint
	SenderID  uint
}

type Storage interface {
	// Users
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	ListUsers(offset, limit int) ([]models.User, error)
	SearchUsers(query string, excludeID uint, limit int) ([]models.User, error)
	UpdateUser(user *models.User) error

	// Chats and participants
	CreateChat(chat *models.Chat, participantIDs []uint) error
	GetChat(id uint) (*models.Chat, error)
	ListChatsForUser(userID uint) ([]models.Chat, error)
	ChatIDsForUser(userID uint) ([]uint, error)
	UpdateChat(chat *models.Chat) error
	DeleteChat(id uint) error
	AddParticipant(chatID, userID uint) error
	RemoveParticipant(chatID, userID uint) error
	IsParticipant(chatID, userID uint) (bool, error)
	ListParticipantIDs(chatID uint) ([]uint, error)

	// Messages
	CreateMessage(chatID, senderID uint, content string) (*models.Message, error)
	GetMessage(id uint) (*models.Message, error)
	ListChatMessages(chatID uint, offset, limit int) ([]models.Message, error)
	UpdateMessage(msg *models.Message) error
	DeleteMessage(id uint) error
	MarkChatRead(chatID, readerID uint) ([]ReadReceipt, error)

	// Presence cache
	SetOnline(userID uint, online bool) error
	Presence(userID uint) (models.Presence, error)
}

// Service is the PostgreSQL+Redis implementation of Storage.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

func (s *Service) CreateUser(user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	return s.DB.Create(user).Error
}

func (s *Service) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Service) GetUserByEmail(email string) (*models.User, error) {
	return s.findUser("email = ?", email)
}

func (s *Service) GetUserByUsername(username string) (*models.User, error) {
	return s.findUser("username = ?", username)
}

func (s *Service) findUser(query string, arg any) (*models.User, error) {
	var user models.User
	if err := s.DB.Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Service) ListUsers(offset, limit int) ([]models.User, error) {
	var users []models.User
	err := s.DB.Order("id asc").Offset(offset).Limit(limit).Find(&users).Error
	return users, err
}

// SearchUsers matches username or email case-insensitively, excluding
// the requesting user.
func (s *Service) SearchUsers(query string, excludeID uint, limit int) ([]models.User, error) {
	var users []models.User
	pattern := "%" + query + "%"
	err := s.DB.
		Where("(username ILIKE ? OR email ILIKE ?)", pattern, pattern).
		Where("id <> ?", excludeID).
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (s *Service) UpdateUser(user *models.User) error {
	return s.DB.Save(user).Error
}
