package game

import "github.com/google/uuid"

// Conn is the transport-side handle for one player. The player entity owns
// its game state; the connection is attached and detached independently
// and detaching never destroys the player record.
type Conn interface {
	Send(v interface{}) error
}

type Player struct {
	ID           string
	Name         string
	Suit         string
	Rank         string
	IsJack       bool
	Alive        bool
	HasGuessed   bool
	Guess        string
	Disconnected bool

	conn Conn
}

func NewPlayer(conn Conn, name string) *Player {
	return &Player{
		ID:    uuid.NewString(),
		Name:  name,
		Alive: true,
		conn:  conn,
	}
}
