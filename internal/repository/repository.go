package repository

import "debate_arena/internal/storage"

type Repositories struct {
	User        UserRepository
	Room        RoomRepository
	Message     MessageRepository
	Participant ParticipantRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		Room:        NewRoomRepository(db),
		Message:     NewMessageRepository(db),
		Participant: NewParticipantRepository(db),
	}
}
