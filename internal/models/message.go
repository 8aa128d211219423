package models

import (
	"time"

	"gorm.io/gorm"
)

// Message 代表一則標準化後持久化的辯論發言
// MessageID 是標準訊息的 uuid，唯一索引讓重複投遞的寫入自然失敗
type Message struct {
	gorm.Model
	MessageID  string    `gorm:"uniqueIndex;size:36;not null" json:"message_id"`
	RoomCode   string    `gorm:"index;size:6;not null" json:"room_code"`
	SenderID   string    `gorm:"size:64" json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Side       string    `gorm:"type:varchar(20)" json:"side"`
	Body       string    `gorm:"type:text" json:"body"`
	Timestamp  time.Time `json:"timestamp"`
}
