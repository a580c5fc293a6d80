package game

import (
	"github.com/jack-games/jackofhearts/internal/database/roomstate/model"
)

// Snapshot returns a consistent durable copy of the room. Connection
// handles are never part of it.
func (r *Room) Snapshot() model.State {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.snapshotLocked()
}

func (r *Room) snapshotLocked() model.State {
	state := model.State{
		ID:                 r.config.ID,
		MinPlayers:         r.config.MinPlayers,
		DiscussionTime:     r.config.DiscussionTime,
		GuessingTime:       r.config.GuessingTime,
		Password:           r.config.Password,
		Phase:              uint8(r.phase),
		CurrentRound:       r.currentRound,
		DiscussionTimeLeft: r.discussionTimeLeft,
		GuessingTimeLeft:   r.guessingTimeLeft,
		Suits:              make([]string, len(r.config.Suits)),
		Ranks:              make([]string, len(r.config.Ranks)),
		Players:            make([]model.Player, len(r.players)),
		Eliminated:         make([]model.Elimination, len(r.eliminated)),
		CreatedAt:          r.createdAt,
	}

	copy(state.Suits, r.config.Suits)
	copy(state.Ranks, r.config.Ranks)
	copy(state.Eliminated, r.eliminated)

	if r.jack != nil {
		state.JackID = r.jack.ID
	}

	for i, p := range r.players {
		state.Players[i] = model.Player{
			ID:           p.ID,
			Name:         p.Name,
			Suit:         p.Suit,
			Rank:         p.Rank,
			IsJack:       p.IsJack,
			Alive:        p.Alive,
			HasGuessed:   p.HasGuessed,
			Guess:        p.Guess,
			Disconnected: p.Disconnected,
		}
	}

	return state
}

// RestoreRoom rebuilds a room from its snapshot. Players come back with
// no connection, marked disconnected until a new connection re-admits
// their name; countdowns stay paused until then.
func RestoreRoom(state model.State, config Config) *Room {
	config.ID = state.ID
	config.MinPlayers = state.MinPlayers
	config.DiscussionTime = state.DiscussionTime
	config.GuessingTime = state.GuessingTime
	config.Password = state.Password
	config.Suits = state.Suits
	config.Ranks = state.Ranks

	room := NewRoom(config)
	room.phase = Phase(state.Phase)
	room.currentRound = state.CurrentRound
	room.discussionTimeLeft = state.DiscussionTimeLeft
	room.guessingTimeLeft = state.GuessingTimeLeft
	room.createdAt = state.CreatedAt

	room.eliminated = make([]model.Elimination, len(state.Eliminated))
	copy(room.eliminated, state.Eliminated)

	room.players = make([]*Player, len(state.Players))
	for i, p := range state.Players {
		player := &Player{
			ID:           p.ID,
			Name:         p.Name,
			Suit:         p.Suit,
			Rank:         p.Rank,
			IsJack:       p.IsJack,
			Alive:        p.Alive,
			HasGuessed:   p.HasGuessed,
			Guess:        p.Guess,
			Disconnected: true,
		}
		room.players[i] = player
		if p.ID == state.JackID {
			room.jack = player
		}
	}

	return room
}
