package models

import "time"

// Chat is a conversation between two or more users.
type Chat struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	IsGroup   bool      `json:"isGroup"`
	CreatedBy uint      `gorm:"not null" json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ChatParticipant records the membership of one user in one chat.
// Membership is never cached by the realtime core; it is re-read per
// event so that adds and removals take effect immediately.
type ChatParticipant struct {
	ChatID   uint      `gorm:"primaryKey" json:"chatId"`
	UserID   uint      `gorm:"primaryKey" json:"userId"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joinedAt"`
}
