package models

import "time"

// Message is a persisted chat message. The Read flag is flipped by the
// recipient's mark_read frame, not by delivery.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ChatID    uint      `gorm:"not null;index:idx_chat_sender" json:"chatId"`
	SenderID  uint      `gorm:"not null;index:idx_chat_sender" json:"senderId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
}
