package models

import (
	"time"

	"gorm.io/gorm"
)

// Room 表示一個辯論房間的持久化記錄
// Code 是客戶端產生的 6 位分享代碼，唯一索引是碰撞的最後防線
type Room struct {
	gorm.Model
	Code      string     `gorm:"uniqueIndex;size:6;not null" json:"code"`
	CreatorID uint       `json:"creator_id"`
	HostName  string     `json:"host_name"`
	Topic     string     `gorm:"type:text" json:"topic"`
	Format    string     `gorm:"type:varchar(50)" json:"format"`
	Language  string     `gorm:"type:varchar(20)" json:"language"`
	Status    RoomStatus `gorm:"type:varchar(20)" json:"status"`
	IsActive  bool       `json:"is_active"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Tags      string     `gorm:"type:text" json:"tags"` // 逗號分隔的自由標籤
}

// RoomStatus 定義房間狀態的類型
type RoomStatus string

const (
	RoomStatusOpen      RoomStatus = "open"      // 房間已建立，尚無活動
	RoomStatusActive    RoomStatus = "active"    // 辯論進行中
	RoomStatusCompleted RoomStatus = "completed" // 已結束並寫入終態快照
)
