package game

import (
	"context"
	"fmt"
	"sync"

	"github.com/jack-games/jackofhearts/internal/cache"
	statedb "github.com/jack-games/jackofhearts/internal/database/roomstate/database"
	"github.com/jack-games/jackofhearts/internal/database/roomstate/model"
	"github.com/jack-games/jackofhearts/internal/logging"
	"github.com/jack-games/jackofhearts/internal/protocol"
	"go.uber.org/zap"
)

// Registry owns the room map. Rooms serialize their own state behind
// their own locks; the registry only guards the map itself.
type Registry struct {
	mtx sync.RWMutex

	rooms    map[string]*Room
	finished cache.Cache
	stateDb  *statedb.DB
	logger   *zap.SugaredLogger
}

func NewRegistry(stateDb *statedb.DB, finished cache.Cache, logger *zap.SugaredLogger) *Registry {
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	return &Registry{
		rooms:    map[string]*Room{},
		finished: finished,
		stateDb:  stateDb,
		logger:   logger.Named("game.registry"),
	}
}

// CreateRoom registers a new room in the Waiting phase. Creating an id
// that already exists returns the existing room untouched.
func (g *Registry) CreateRoom(id string, minPlayers, discussionTime, guessingTime int, password string) (*Room, error) {
	if password == "" {
		return nil, PasswordRequiredErr
	}
	if minPlayers < MinRoomPlayers || minPlayers > MaxRoomPlayers {
		return nil, fmt.Errorf("%w: minPlayers must be between %d and %d", BadConfigErr, MinRoomPlayers, MaxRoomPlayers)
	}
	if discussionTime <= 0 || guessingTime <= 0 {
		return nil, fmt.Errorf("%w: phase durations must be positive", BadConfigErr)
	}

	g.mtx.Lock()
	defer g.mtx.Unlock()

	if room, ok := g.rooms[id]; ok {
		return room, nil
	}

	room := NewRoom(Config{
		ID:             id,
		MinPlayers:     minPlayers,
		DiscussionTime: discussionTime,
		GuessingTime:   guessingTime,
		Password:       password,
		Persist:        g.persist,
		Done:           g.roomDone,
		Logger:         g.logger,
	})
	g.rooms[id] = room
	g.logger.Infof("created room %s: min players %d, discussion %ds, guessing %ds",
		id, minPlayers, discussionTime, guessingTime)

	g.persist(room.Snapshot())
	return room, nil
}

func (g *Registry) Room(id string) (*Room, bool) {
	g.mtx.RLock()
	defer g.mtx.RUnlock()
	room, ok := g.rooms[id]
	return room, ok
}

// Admit routes a connection into a room by id.
func (g *Registry) Admit(conn Conn, roomID, name, password string) (*Player, *Room, error) {
	room, ok := g.Room(roomID)
	if !ok {
		return nil, nil, RoomNotFoundErr
	}

	player, err := room.Admit(conn, name, password)
	if err != nil {
		return nil, nil, err
	}

	return player, room, nil
}

// Disconnect detaches a connection from its room, if it had one.
func (g *Registry) Disconnect(roomID, playerID string) {
	if roomID == "" || playerID == "" {
		return
	}

	room, ok := g.Room(roomID)
	if !ok {
		return
	}

	room.Disconnect(playerID)
}

// JoinableRooms lists rooms still waiting for players. Secrets are never
// part of the answer.
func (g *Registry) JoinableRooms() []protocol.RoomSummary {
	g.mtx.RLock()
	defer g.mtx.RUnlock()

	summaries := make([]protocol.RoomSummary, 0, len(g.rooms))
	for _, room := range g.rooms {
		if summary, ok := room.Joinable(); ok {
			summaries = append(summaries, summary)
		}
	}

	return summaries
}

// FinishedRoom returns the final state of a recently completed room while
// it is still in the retention cache.
func (g *Registry) FinishedRoom(id string) (model.State, bool) {
	if g.finished == nil {
		return model.State{}, false
	}

	v, ok := g.finished.Get(id)
	if !ok {
		return model.State{}, false
	}

	return v.(model.State), true
}

// Load restores rooms from the snapshot store. No snapshot is not an
// error; the registry starts empty.
func (g *Registry) Load(ctx context.Context) error {
	if g.stateDb == nil {
		return nil
	}

	logger := logging.FromContext(ctx).Named("game.registry")

	states, err := g.stateDb.FetchAll()
	if err != nil {
		return fmt.Errorf("fetch all room states: %w", err)
	}

	g.mtx.Lock()
	defer g.mtx.Unlock()

	for _, state := range states {
		if Phase(state.Phase) == PhaseFinished {
			if err := g.stateDb.Delete(state.ID); err != nil {
				logger.Errorf("delete finished room %s: %v", state.ID, err)
			}
			continue
		}

		g.rooms[state.ID] = RestoreRoom(state, Config{
			Persist: g.persist,
			Done:    g.roomDone,
			Logger:  g.logger,
		})
	}

	logger.Infof("restored %d rooms from snapshot", len(g.rooms))
	return nil
}

// SaveAll snapshots every active room, e.g. on shutdown.
func (g *Registry) SaveAll() {
	g.mtx.RLock()
	rooms := make([]*Room, 0, len(g.rooms))
	for _, room := range g.rooms {
		rooms = append(rooms, room)
	}
	g.mtx.RUnlock()

	for _, room := range rooms {
		g.persist(room.Snapshot())
	}
}

// persist writes one room's snapshot. Failures are logged and the game
// goes on in memory.
func (g *Registry) persist(state model.State) {
	if g.stateDb == nil {
		return
	}

	if err := g.stateDb.Add(state); err != nil {
		g.logger.Errorf("persist room %s: %v", state.ID, err)
	}
}

// roomDone retires a finished room: it leaves the active map and the
// snapshot store, and its final state is parked in the bounded retention
// cache for late readers.
func (g *Registry) roomDone(state model.State) {
	g.mtx.Lock()
	delete(g.rooms, state.ID)
	g.mtx.Unlock()

	if g.finished != nil {
		g.finished.Add(state.ID, state)
	}

	if g.stateDb != nil {
		if err := g.stateDb.Delete(state.ID); err != nil {
			g.logger.Errorf("delete room %s from snapshot: %v", state.ID, err)
		}
	}

	g.logger.Infof("room %s finished and retired", state.ID)
}
