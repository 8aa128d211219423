package models

import (
	"time"

	"gorm.io/gorm"
)

// Participant 代表終態快照中的一位參與者
// 以 (RoomCode, ParticipantID) 為邏輯主鍵，離開的參與者同樣保留
type Participant struct {
	gorm.Model
	RoomCode      string     `gorm:"uniqueIndex:idx_room_participant;size:6;not null" json:"room_code"`
	ParticipantID string     `gorm:"uniqueIndex:idx_room_participant;size:64;not null" json:"participant_id"`
	DisplayName   string     `json:"display_name"`
	Side          string     `gorm:"type:varchar(20)" json:"side"`
	IsActive      bool       `json:"is_active"`
	JoinedAt      time.Time  `json:"joined_at"`
	LastSeen      time.Time  `json:"last_seen"`
	LeftAt        *time.Time `json:"left_at,omitempty"`
}
