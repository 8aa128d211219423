package repository

import (
	"errors"

	"gorm.io/gorm"

	"debate_arena/internal/models"
	"debate_arena/internal/storage"
)

type MessageRepository interface {
	CreateBatch(messages []models.Message) error
	FindByRoomCode(roomCode string) ([]models.Message, error)
}

type messageRepository struct {
	db *storage.PostgresDB
}

func NewMessageRepository(db *storage.PostgresDB) MessageRepository {
	return &messageRepository{db: db}
}

// CreateBatch 批次寫入終態快照的訊息
// 重複投遞過的訊息會撞到 message_id 的唯一索引，逐筆退回並忽略
func (r *messageRepository) CreateBatch(messages []models.Message) error {
	if len(messages) == 0 {
		return nil
	}
	for i := range messages {
		err := r.db.Create(&messages[i]).Error
		if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return nil
}

func (r *messageRepository) FindByRoomCode(roomCode string) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("room_code = ?", roomCode).Order("id asc").Find(&messages).Error
	return messages, err
}
