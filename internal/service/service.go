package service

import (
	"debate_arena/internal/repository"
)

type Services struct {
	User *UserService
	Room *RoomService
	Hub  *Hub
}

func NewServices(repos *repository.Repositories) *Services {
	hub := NewHub()
	roomService := NewRoomService(repos, hub)
	hub.Bind(roomService)

	return &Services{
		User: NewUserService(repos.User),
		Room: roomService,
		Hub:  hub,
	}
}
