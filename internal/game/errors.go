package game

import "fmt"

var (
	RoomNotFoundErr     = fmt.Errorf("room with this ID was not found")
	PasswordRequiredErr = fmt.Errorf("a room password is required")
	WrongPasswordErr    = fmt.Errorf("wrong password for this room")
	NameTakenErr        = fmt.Errorf("player name is already taken in this room, pick another one")
	AlreadyJoinedErr    = fmt.Errorf("you are already connected to this room")
	RoomFullErr         = fmt.Errorf("room is full")
	BadConfigErr        = fmt.Errorf("invalid room configuration")
)
