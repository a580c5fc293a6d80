package protocol

import (
	"encoding/json"
	"fmt"
)

// Client message types as they appear on the wire.
const (
	TypeCreateRoom         = "createRoom"
	TypeJoinRoom           = "joinRoom"
	TypeGetRoomList        = "getRoomList"
	TypeChatMessage        = "chatMessage"
	TypePrivateChatMessage = "privateChatMessage"
	TypeSubmitGuess        = "submitGuess"
)

var MalformedMessageErr = fmt.Errorf("malformed message")

// Message is the decoded form of one inbound client frame.
type Message interface {
	clientMessage()
}

type CreateRoom struct {
	RoomID         string `json:"roomId"`
	PlayerName     string `json:"playerName"`
	Password       string `json:"password"`
	MinPlayers     int    `json:"minPlayers"`
	DiscussionTime int    `json:"discussionTime"`
	GuessingTime   int    `json:"guessingTime"`
}

type JoinRoom struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
	Password   string `json:"password"`
}

type GetRoomList struct{}

type Chat struct {
	PlayerName string `json:"playerName"`
	Message    string `json:"message"`
}

type PrivateChat struct {
	TargetPlayerID string `json:"targetPlayerId"`
	Message        string `json:"message"`
}

type SubmitGuess struct {
	Guess string `json:"guess"`
}

// Unknown stands in for any type this server does not understand; the
// dispatcher answers it explicitly instead of dropping the frame.
type Unknown struct {
	Type string
}

func (CreateRoom) clientMessage()  {}
func (JoinRoom) clientMessage()    {}
func (GetRoomList) clientMessage() {}
func (Chat) clientMessage()        {}
func (PrivateChat) clientMessage() {}
func (SubmitGuess) clientMessage() {}
func (Unknown) clientMessage()     {}

// Decode parses one client frame into its tagged variant.
func Decode(data []byte) (Message, error) {
	var envelope struct {
		Type string `json:"type"`
	}

	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", MalformedMessageErr, err)
	}

	switch envelope.Type {
	case TypeCreateRoom:
		var m CreateRoom
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", MalformedMessageErr, err)
		}
		return &m, nil
	case TypeJoinRoom:
		var m JoinRoom
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", MalformedMessageErr, err)
		}
		return &m, nil
	case TypeGetRoomList:
		return &GetRoomList{}, nil
	case TypeChatMessage:
		var m Chat
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", MalformedMessageErr, err)
		}
		return &m, nil
	case TypePrivateChatMessage:
		var m PrivateChat
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", MalformedMessageErr, err)
		}
		return &m, nil
	case TypeSubmitGuess:
		var m SubmitGuess
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", MalformedMessageErr, err)
		}
		return &m, nil
	default:
		return &Unknown{Type: envelope.Type}, nil
	}
}
