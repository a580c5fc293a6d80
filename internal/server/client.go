package server

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jack-games/jackofhearts/internal/game"
	"github.com/jack-games/jackofhearts/internal/protocol"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

var (
	SendBufferFullErr = fmt.Errorf("send buffer full")
	ConnClosedErr     = fmt.Errorf("connection closed")
)

// client is one websocket connection. After a successful join it carries
// the room and player it acts for; all frames from one connection are
// dispatched sequentially by its read pump.
type client struct {
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
	registry *game.Registry
	logger   *zap.SugaredLogger

	roomID     string
	playerID   string
	playerName string

	closeOnce sync.Once
}

var _ game.Conn = (*client)(nil)

func newClient(conn *websocket.Conn, registry *game.Registry, logger *zap.SugaredLogger) *client {
	return &client{
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		registry: registry,
		logger:   logger.Named("client"),
	}
}

// Send queues one event for delivery. A slow or dead client drops the
// event rather than blocking the room that is broadcasting.
func (c *client) Send(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	select {
	case <-c.done:
		return ConnClosedErr
	case c.send <- data:
		return nil
	default:
		return SendBufferFullErr
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func (c *client) readPump() {
	defer func() {
		c.close()
		c.registry.Disconnect(c.roomID, c.playerID)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Errorf("websocket read: %v", err)
			}
			return
		}

		c.dispatch(data)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) dispatch(data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		c.logger.Errorf("decode message: %v", err)
		c.sendEvent(protocol.NewError("failed to process message"))
		return
	}

	switch m := msg.(type) {
	case *protocol.CreateRoom:
		c.handleCreateRoom(m)
	case *protocol.JoinRoom:
		c.join(m.RoomID, m.PlayerName, m.Password)
	case *protocol.GetRoomList:
		c.sendEvent(protocol.NewRoomList(c.registry.JoinableRooms()))
	case *protocol.Chat:
		if room, ok := c.room(); ok {
			room.Chat(c.playerID, m.PlayerName, m.Message)
		}
	case *protocol.PrivateChat:
		if room, ok := c.room(); ok && c.playerID != "" {
			room.PrivateChat(c.playerID, m.TargetPlayerID, m.Message)
		}
	case *protocol.SubmitGuess:
		if room, ok := c.room(); ok {
			room.SubmitGuess(c.playerID, m.Guess)
		}
	case *protocol.Unknown:
		c.logger.Infof("unknown message type: %q", m.Type)
		c.sendEvent(protocol.NewError("unknown message type"))
	}
}

func (c *client) room() (*game.Room, bool) {
	if c.roomID == "" {
		return nil, false
	}
	return c.registry.Room(c.roomID)
}

const (
	defaultMinPlayers     = 6
	defaultDiscussionTime = 120
	defaultGuessingTime   = 60
)

func (c *client) handleCreateRoom(m *protocol.CreateRoom) {
	roomID := m.RoomID
	if roomID == "" {
		roomID = uuid.NewString()[:8]
	}

	minPlayers := m.MinPlayers
	if minPlayers == 0 {
		minPlayers = defaultMinPlayers
	}
	discussionTime := m.DiscussionTime
	if discussionTime == 0 {
		discussionTime = defaultDiscussionTime
	}
	guessingTime := m.GuessingTime
	if guessingTime == 0 {
		guessingTime = defaultGuessingTime
	}

	if _, err := c.registry.CreateRoom(roomID, minPlayers, discussionTime, guessingTime, m.Password); err != nil {
		c.logger.Infof("create room %s: %v", roomID, err)
		c.sendEvent(protocol.NewError(err.Error()))
		return
	}

	c.join(roomID, m.PlayerName, m.Password)
}

func (c *client) join(roomID, name, password string) {
	player, _, err := c.registry.Admit(c, roomID, name, password)
	if err != nil {
		c.logger.Infof("join room %s as %q: %v", roomID, name, err)
		c.sendEvent(protocol.NewError(err.Error()))
		return
	}

	c.roomID = roomID
	c.playerID = player.ID
	c.playerName = player.Name
	c.sendEvent(protocol.NewJoinedRoom(player.ID, player.Name))
}

func (c *client) sendEvent(v interface{}) {
	if err := c.Send(v); err != nil {
		c.logger.Errorf("send event: %v", err)
	}
}
