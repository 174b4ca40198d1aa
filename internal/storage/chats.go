package storage

import (
	"errors"

	"chatter/backend/internal/models"

	"gorm.io/gorm"
)

// CreateChat saves the chat and its participant rows in one
// transaction. The creator is always a participant; unknown user IDs
// are skipped rather than failing the whole chat.
func (s *Service) CreateChat(chat *models.Chat, participantIDs []uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(chat).Error; err != nil {
			return err
		}

		seen := make(map[uint]bool)
		for _, userID := range append([]uint{chat.CreatedBy}, participantIDs...) {
			if seen[userID] {
				continue
			}
			seen[userID] = true

			var count int64
			if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				continue
			}
			if err := tx.Create(&models.ChatParticipant{ChatID: chat.ID, UserID: userID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) GetChat(id uint) (*models.Chat, error) {
	var chat models.Chat
	if err := s.DB.First(&chat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &chat, nil
}

func (s *Service) ListChatsForUser(userID uint) ([]models.Chat, error) {
	var chats []models.Chat
	err := s.DB.
		Joins("JOIN chat_participants ON chat_participants.chat_id = chats.id").
		Where("chat_participants.user_id = ?", userID).
		Order("chats.updated_at desc").
		Find(&chats).Error
	return chats, err
}

func (s *Service) ChatIDsForUser(userID uint) ([]uint, error) {
	var chatIDs []uint
	err := s.DB.Model(&models.ChatParticipant{}).
		Where("user_id = ?", userID).
		Pluck("chat_id", &chatIDs).Error
	return chatIDs, err
}

func (s *Service) UpdateChat(chat *models.Chat) error {
	return s.DB.Save(chat).Error
}

func (s *Service) DeleteChat(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", id).Delete(&models.ChatParticipant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chat_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Chat{}, id).Error
	})
}

func (s *Service) AddParticipant(chatID, userID uint) error {
	participant := models.ChatParticipant{ChatID: chatID, UserID: userID}
	return s.DB.FirstOrCreate(&participant, models.ChatParticipant{ChatID: chatID, UserID: userID}).Error
}

func (s *Service) RemoveParticipant(chatID, userID uint) error {
	return s.DB.
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Delete(&models.ChatParticipant{}).Error
}

func (s *Service) IsParticipant(chatID, userID uint) (bool, error) {
	var count int64
	err := s.DB.Model(&models.ChatParticipant{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Count(&count).Error
	return count > 0, err
}

func (s *Service) ListParticipantIDs(chatID uint) ([]uint, error) {
	var userIDs []uint
	err := s.DB.Model(&models.ChatParticipant{}).
		Where("chat_id = ?", chatID).
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}
