package storage

import (
	"errors"

	"chatter/backend/internal/models"

	"gorm.io/gorm"
)

// CreateMessage persists one message and returns it with the assigned
// ID and timestamp.
func (s *Service) CreateMessage(chatID, senderID uint, content string) (*models.Message, error) {
	msg := models.Message{
		ChatID:   chatID,
		SenderID: senderID,
		Content:  content,
	}
	if err := s.DB.Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *Service) GetMessage(id uint) (*models.Message, error) {
	var msg models.Message
	if err := s.DB.First(&msg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &msg, nil
}

// ListChatMessages returns a page of a chat's history ordered oldest
// first.
func (s *Service) ListChatMessages(chatID uint, offset, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := s.DB.
		Where("chat_id = ?", chatID).
		Order("created_at asc").
		Offset(offset).
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (s *Service) UpdateMessage(msg *models.Message) error {
	return s.DB.Save(msg).Error
}

func (s *Service) DeleteMessage(id uint) error {
	return s.DB.Delete(&models.Message{}, id).Error
}

// MarkChatRead flips the read flag on every message in the chat that
// was not authored by readerID and is still unread, and reports one
// receipt per affected message so the router can notify each sender.
func (s *Service) MarkChatRead(chatID, readerID uint) ([]ReadReceipt, error) {
	var unread []models.Message
	err := s.DB.
		Where("chat_id = ? AND sender_id <> ? AND read = ?", chatID, readerID, false).
		Order("id asc").
		Find(&unread).Error
	if err != nil {
		return nil, err
	}
	if len(unread) == 0 {
		return nil, nil
	}

	ids := make([]uint, len(unread))
	receipts := make([]ReadReceipt, len(unread))
	for i, msg := range unread {
		ids[i] = msg.ID
		receipts[i] = ReadReceipt{MessageID: msg.ID, SenderID: msg.SenderID}
	}

	err = s.DB.Model(&models.Message{}).
		Where("id IN ?", ids).
		Update("read", true).Error
	if err != nil {
		return nil, err
	}
	return receipts, nil
}
