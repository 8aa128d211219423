package repository

import (
	"debate_arena/internal/models"
	"debate_arena/internal/storage"
)

type ParticipantRepository interface {
	CreateBatch(participants []models.Participant) error
	FindByRoomCode(roomCode string) ([]models.Participant, error)
}

type participantRepository struct {
	db *storage.PostgresDB
}

func NewParticipantRepository(db *storage.PostgresDB) ParticipantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) CreateBatch(participants []models.Participant) error {
	if len(participants) == 0 {
		return nil
	}
	return r.db.Create(&participants).Error
}

func (r *participantRepository) FindByRoomCode(roomCode string) ([]models.Participant, error) {
	var participants []models.Participant
	err := r.db.Where("room_code = ?", roomCode).Order("joined_at asc").Find(&participants).Error
	return participants, err
}
